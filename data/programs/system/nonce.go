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

package system

import (
	"bytes"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	systemprog "github.com/gagliardetto/solana-go/programs/system"

	"github.com/solkit/solkit/data/basics"
)

// NonceAccountLength is the size of a durable nonce account's data.
const NonceAccountLength = 80

// NonceState is the state word of a nonce account.
type NonceState uint32

// Nonce account states.
const (
	NonceUninitialized NonceState = 0
	NonceInitialized   NonceState = 1
)

var (
	errNonceAccountLength  = errors.New("nonce account data has the wrong length")
	errNonceNotInitialized = errors.New("nonce account is not initialized")
)

// NonceAccount is the decoded content of a durable nonce account. Nonce is the
// value transactions use as their freshness token until the account is advanced.
type NonceAccount struct {
	Version              uint32
	State                NonceState
	Authority            basics.Address
	Nonce                basics.Hash
	LamportsPerSignature uint64
}

// DecodeNonceAccount decodes the data of an initialized nonce account.
func DecodeNonceAccount(data []byte) (*NonceAccount, error) {
	if len(data) != NonceAccountLength {
		return nil, fmt.Errorf("%w: %d bytes, want %d", errNonceAccountLength, len(data), NonceAccountLength)
	}
	var raw systemprog.NonceAccount
	if err := raw.UnmarshalWithDecoder(bin.NewBinDecoder(data)); err != nil {
		return nil, err
	}
	if NonceState(raw.State) != NonceInitialized {
		return nil, errNonceNotInitialized
	}
	return &NonceAccount{
		Version:              raw.Version,
		State:                NonceState(raw.State),
		Authority:            raw.AuthorizedPubkey,
		Nonce:                basics.Hash(raw.Nonce),
		LamportsPerSignature: raw.FeeCalculator.LamportsPerSignature,
	}, nil
}

// MarshalBinary encodes the account in its on-ledger layout.
func (n NonceAccount) MarshalBinary() ([]byte, error) {
	raw := systemprog.NonceAccount{
		Version:          n.Version,
		State:            uint32(n.State),
		AuthorizedPubkey: n.Authority,
		Nonce:            basics.Address(n.Nonce),
		FeeCalculator:    systemprog.FeeCalculator{LamportsPerSignature: n.LamportsPerSignature},
	}
	var buf bytes.Buffer
	if err := raw.MarshalWithEncoder(bin.NewBinEncoder(&buf)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
