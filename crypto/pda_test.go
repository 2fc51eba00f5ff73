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

package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/solkit/solkit/test/partitiontest"
)

func TestFindProgramAddressOffCurve(t *testing.T) {
	partitiontest.PartitionTest(t)

	rapid.Check(t, func(t1 *rapid.T) {
		nseeds := rapid.IntRange(0, MaxSeeds-1).Draw(t1, "nseeds")
		seeds := make([][]byte, nseeds)
		for i := range seeds {
			seeds[i] = rapid.SliceOfN(rapid.Byte(), 0, MaxSeedLength).Draw(t1, "seed")
		}
		var program PublicKey
		copy(program[:], rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t1, "program"))

		addr, bump, err := FindProgramAddress(seeds, program)
		if err != nil {
			t1.Fatalf("find: %v", err)
		}
		if IsOnCurve(addr) {
			t1.Fatalf("derived address %s is on the curve", addr)
		}
		again, err := CreateProgramAddress(append(seeds, []byte{bump}), program)
		if err != nil || again != addr {
			t1.Fatalf("bump %d does not reproduce %s: %v", bump, addr, err)
		}
	})
}

func TestFindProgramAddressDeterministic(t *testing.T) {
	partitiontest.PartitionTest(t)

	var program, owner PublicKey
	program[0] = 7
	owner[31] = 9
	seeds := [][]byte{owner[:], []byte("vault")}

	a, bumpA, err := FindProgramAddress(seeds, program)
	require.NoError(t, err)
	b, bumpB, err := FindProgramAddress(seeds, program)
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.Equal(t, bumpA, bumpB)
	// the caller's seed slice is left untouched
	require.Len(t, seeds, 2)

	c, _, err := FindProgramAddress([][]byte{owner[:], []byte("vault2")}, program)
	require.NoError(t, err)
	require.NotEqual(t, a, c)
}

func TestProgramAddressLimits(t *testing.T) {
	partitiontest.PartitionTest(t)

	var program PublicKey
	_, _, err := FindProgramAddress([][]byte{bytes.Repeat([]byte{1}, MaxSeedLength+1)}, program)
	require.ErrorIs(t, err, errSeedTooLong)

	tooMany := make([][]byte, MaxSeeds)
	_, _, err = FindProgramAddress(tooMany, program)
	require.ErrorIs(t, err, errTooManySeeds)

	_, err = CreateProgramAddress(make([][]byte, MaxSeeds+1), program)
	require.ErrorIs(t, err, errTooManySeeds)
}

func TestIsOnCurve(t *testing.T) {
	partitiontest.PartitionTest(t)

	kp, err := GenerateKeypair(SystemRNG)
	require.NoError(t, err)
	require.True(t, IsOnCurve(kp.PublicKey))
}
