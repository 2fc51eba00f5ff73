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
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/solkit/solkit/test/partitiontest"
)

func TestMonotonicSince(t *testing.T) {
	partitiontest.PartitionTest(t)

	c := MakeMonotonicClock(time.Now().Add(-time.Hour))
	require.GreaterOrEqual(t, c.Since(), time.Hour)
	require.Less(t, c.Zero().Since(), time.Hour)
}

func TestFrozenAdvance(t *testing.T) {
	partitiontest.PartitionTest(t)

	f := MakeFrozenClock()
	require.Zero(t, f.Since())
	f.Advance(3 * time.Second)
	f.Advance(time.Second)
	require.Equal(t, 4*time.Second, f.Since())
	require.Zero(t, f.Zero().Since())
}
