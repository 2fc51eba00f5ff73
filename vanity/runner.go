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

package vanity

import (
	"context"
	"time"
)

// DefaultInterval is the pause between generation steps.
const DefaultInterval = time.Millisecond

// Display shows the status block. Implementations redraw in place.
type Display interface {
	Render(status string) error
}

// Runner drives a Session from a single goroutine: on every tick it runs one
// Step and redraws the status.
type Runner struct {
	Session  *Session
	Display  Display
	Interval time.Duration

	// OnMatch, when set, is called for every new match before the redraw.
	OnMatch func(Match) error
}

// Run steps until ctx is done. Cancellation is the normal way to stop and
// returns nil; RNG, OnMatch and Display failures stop the search and are
// returned.
func (r *Runner) Run(ctx context.Context) error {
	interval := r.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		if ctx.Err() != nil {
			return nil
		}
		m, err := r.Session.Step()
		if err != nil {
			return err
		}
		if m != nil && r.OnMatch != nil {
			if err := r.OnMatch(*m); err != nil {
				return err
			}
		}
		if r.Display != nil {
			if err := r.Display.Render(RenderStatus(r.Session.Elapsed(), r.Session.Results())); err != nil {
				return err
			}
		}
	}
}
