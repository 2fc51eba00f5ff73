// Copyright (C) 2024-2025 solkit contributors
// This file is part of solkit
//
// solkit is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// solkit is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with solkit.  If not, see <https://www.gnu.org/licenses/>.

package timers

import (
	"sync/atomic"
	"time"
)

// Frozen is a clock that only moves when told to.
type Frozen struct {
	elapsed atomic.Int64
}

// MakeFrozenClock creates a frozen clock at its zero point.
func MakeFrozenClock() *Frozen {
	return &Frozen{}
}

// Zero returns a new frozen clock. Frozen clocks ignore wall time, so the
// receiver is reset and returned.
func (f *Frozen) Zero() Clock {
	f.elapsed.Store(0)
	return f
}

// Since implements Clock.
func (f *Frozen) Since() time.Duration {
	return time.Duration(f.elapsed.Load())
}

// Advance moves the clock forward by d.
func (f *Frozen) Advance(d time.Duration) {
	f.elapsed.Add(int64(d))
}
