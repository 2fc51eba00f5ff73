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
	"github.com/gagliardetto/solana-go"
)

const (
	// MaxSeedLength is the longest individual seed accepted for a program address.
	MaxSeedLength = solana.MaxSeedLength
	// MaxSeeds bounds the number of seeds, bump seed included.
	MaxSeeds = solana.MaxSeeds
)

// IsOnCurve reports whether the 32 bytes decode to a point on the ed25519 curve.
func IsOnCurve(p PublicKey) bool {
	return solana.IsOnCurve(p[:])
}

func checkSeeds(seeds [][]byte, limit int) error {
	if len(seeds) > limit {
		return errTooManySeeds
	}
	for _, s := range seeds {
		if len(s) > MaxSeedLength {
			return errSeedTooLong
		}
	}
	return nil
}

// CreateProgramAddress derives the address owned by program for the given seeds.
// Addresses that land on the curve have a private key and are rejected.
func CreateProgramAddress(seeds [][]byte, program PublicKey) (PublicKey, error) {
	if err := checkSeeds(seeds, MaxSeeds); err != nil {
		return PublicKey{}, err
	}
	addr, err := solana.CreateProgramAddress(seeds, program)
	if err != nil {
		return PublicKey{}, errInvalidSeeds
	}
	return addr, nil
}

// FindProgramAddress searches bump seeds from 255 downward and returns the first
// off-curve address along with the bump that produced it.
func FindProgramAddress(seeds [][]byte, program PublicKey) (PublicKey, uint8, error) {
	if err := checkSeeds(seeds, MaxSeeds-1); err != nil {
		return PublicKey{}, 0, err
	}
	// the search appends the bump seed, keep it off the caller's backing array
	own := make([][]byte, len(seeds), len(seeds)+1)
	copy(own, seeds)
	addr, bump, err := solana.FindProgramAddress(own, program)
	if err != nil {
		return PublicKey{}, 0, errNoViableBump
	}
	return addr, bump, nil
}
