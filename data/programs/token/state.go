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

package token

import (
	"bytes"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	tokenprog "github.com/gagliardetto/solana-go/programs/token"

	"github.com/solkit/solkit/data/basics"
)

// Account data sizes.
const (
	MintLength     = 82
	AccountLength  = 165
	MultisigLength = 355
)

var (
	errLength         = errors.New("account data has the wrong length")
	errNotInitialized = errors.New("account is not initialized")
)

// AccountState is the state byte of a token account.
type AccountState uint8

// Token account states.
const (
	AccountUninitialized = AccountState(tokenprog.Uninitialized)
	AccountInitialized   = AccountState(tokenprog.Initialized)
	AccountFrozen        = AccountState(tokenprog.Frozen)
)

// Mint is the decoded content of a mint account.
type Mint struct {
	MintAuthority   *basics.Address
	Supply          uint64
	Decimals        uint8
	IsInitialized   bool
	FreezeAuthority *basics.Address
}

// Account is the decoded content of a token account.
type Account struct {
	Mint            basics.Address
	Owner           basics.Address
	Amount          uint64
	Delegate        *basics.Address
	State           AccountState
	IsNative        *uint64
	DelegatedAmount uint64
	CloseAuthority  *basics.Address
}

// Multisig is the decoded content of a multisig account.
type Multisig struct {
	M             uint8
	N             uint8
	IsInitialized bool
	Signers       []basics.Address
}

func checkLength(kind string, data []byte, want int) error {
	if len(data) != want {
		return fmt.Errorf("%s: %w: %d bytes, want %d", kind, errLength, len(data), want)
	}
	return nil
}

func encode(v bin.BinaryMarshaler) ([]byte, error) {
	var buf bytes.Buffer
	if err := v.MarshalWithEncoder(bin.NewBinEncoder(&buf)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeMint decodes mint account data.
func DecodeMint(data []byte) (*Mint, error) {
	if err := checkLength("mint", data, MintLength); err != nil {
		return nil, err
	}
	var raw tokenprog.Mint
	if err := raw.UnmarshalWithDecoder(bin.NewBinDecoder(data)); err != nil {
		return nil, fmt.Errorf("mint: %w", err)
	}
	if !raw.IsInitialized {
		return nil, fmt.Errorf("mint: %w", errNotInitialized)
	}
	return &Mint{
		MintAuthority:   raw.MintAuthority,
		Supply:          raw.Supply,
		Decimals:        raw.Decimals,
		IsInitialized:   raw.IsInitialized,
		FreezeAuthority: raw.FreezeAuthority,
	}, nil
}

// MarshalBinary encodes the mint in its on-ledger layout.
func (m Mint) MarshalBinary() ([]byte, error) {
	return encode(tokenprog.Mint{
		MintAuthority:   m.MintAuthority,
		Supply:          m.Supply,
		Decimals:        m.Decimals,
		IsInitialized:   m.IsInitialized,
		FreezeAuthority: m.FreezeAuthority,
	})
}

// DecodeAccount decodes token account data.
func DecodeAccount(data []byte) (*Account, error) {
	if err := checkLength("token account", data, AccountLength); err != nil {
		return nil, err
	}
	var raw tokenprog.Account
	if err := raw.UnmarshalWithDecoder(bin.NewBinDecoder(data)); err != nil {
		return nil, fmt.Errorf("token account: %w", err)
	}
	if AccountState(raw.State) == AccountUninitialized {
		return nil, fmt.Errorf("token account: %w", errNotInitialized)
	}
	return &Account{
		Mint:            raw.Mint,
		Owner:           raw.Owner,
		Amount:          raw.Amount,
		Delegate:        raw.Delegate,
		State:           AccountState(raw.State),
		IsNative:        raw.IsNative,
		DelegatedAmount: raw.DelegatedAmount,
		CloseAuthority:  raw.CloseAuthority,
	}, nil
}

// MarshalBinary encodes the token account in its on-ledger layout.
func (a Account) MarshalBinary() ([]byte, error) {
	return encode(tokenprog.Account{
		Mint:            a.Mint,
		Owner:           a.Owner,
		Amount:          a.Amount,
		Delegate:        a.Delegate,
		State:           tokenprog.AccountState(a.State),
		IsNative:        a.IsNative,
		DelegatedAmount: a.DelegatedAmount,
		CloseAuthority:  a.CloseAuthority,
	})
}

// DecodeMultisig decodes multisig account data.
func DecodeMultisig(data []byte) (*Multisig, error) {
	if err := checkLength("multisig", data, MultisigLength); err != nil {
		return nil, err
	}
	var raw tokenprog.Multisig
	if err := bin.NewBinDecoder(data).Decode(&raw); err != nil {
		return nil, fmt.Errorf("multisig: %w", err)
	}
	if !raw.IsInitialized {
		return nil, fmt.Errorf("multisig: %w", errNotInitialized)
	}
	if raw.N > MaxSigners || raw.M > raw.N {
		return nil, fmt.Errorf("%w: %d of %d", ErrInvalidMultisig, raw.M, raw.N)
	}
	ms := &Multisig{M: raw.M, N: raw.N, IsInitialized: raw.IsInitialized}
	ms.Signers = append(ms.Signers, raw.Signers[:raw.N]...)
	return ms, nil
}

// MarshalBinary encodes the multisig in its on-ledger layout.
func (ms Multisig) MarshalBinary() ([]byte, error) {
	if len(ms.Signers) > MaxSigners {
		return nil, fmt.Errorf("%w: %d signers", ErrInvalidMultisig, len(ms.Signers))
	}
	raw := tokenprog.Multisig{M: ms.M, N: ms.N, IsInitialized: ms.IsInitialized}
	copy(raw.Signers[:], ms.Signers)
	var buf bytes.Buffer
	if err := bin.NewBinEncoder(&buf).Encode(raw); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
