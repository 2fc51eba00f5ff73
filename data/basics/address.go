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

package basics

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

type (
	// Address is a unique identifier of a ledger account: the 32 bytes of an ed25519
	// public key or of a program-derived address.
	Address = solana.PublicKey

	// Hash is a 32-byte digest. Blockhashes and durable nonce values use it.
	Hash = solana.Hash
)

// UnmarshalAddress parses the base-58 textual form of an address.
func UnmarshalAddress(address string) (Address, error) {
	addr, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return Address{}, fmt.Errorf("failed to decode address %q: %w", address, err)
	}
	return addr, nil
}

// UnmarshalHash parses the base-58 textual form of a hash.
func UnmarshalHash(hash string) (Hash, error) {
	h, err := solana.HashFromBase58(hash)
	if err != nil {
		return Hash{}, fmt.Errorf("failed to decode hash %q: %w", hash, err)
	}
	return h, nil
}
