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

// Package metadata builds instructions for the token metadata program, which
// attaches a name, a symbol and an off-chain document to a mint.
package metadata

import (
	"bytes"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/solkit/solkit/data/basics"
	"github.com/solkit/solkit/data/transactions"
)

// ProgramID is the token metadata program.
var ProgramID = solana.TokenMetadataProgramID

// Field limits enforced by the program.
const (
	MaxNameLength   = 32
	MaxSymbolLength = 10
	MaxURILength    = 200
	MaxCreators     = 5
	// MaxBasisPoints is a seller fee of 100%.
	MaxBasisPoints = 10000
)

// updateMetadataAccountV2 is the program's instruction tag.
const updateMetadataAccountV2 = 15

// ErrInvalidMetadata is returned for metadata the program would refuse.
var ErrInvalidMetadata = errors.New("invalid token metadata")

// Creator is a verified or unverified co-creator sharing royalties.
type Creator struct {
	Address  basics.Address
	Verified bool
	Share    uint8
}

// Collection links a mint to a collection mint.
type Collection struct {
	Verified bool
	Key      basics.Address
}

// UseMethod is how a use of a token is consumed.
type UseMethod uint8

// Use methods.
const (
	UseBurn UseMethod = iota
	UseMultiple
	UseSingle
)

// Uses limits how many times a token can be used.
type Uses struct {
	UseMethod UseMethod
	Remaining uint64
	Total     uint64
}

// Data is the on-chain metadata of a mint.
type Data struct {
	Name                 string
	Symbol               string
	URI                  string
	SellerFeeBasisPoints uint16
	Creators             []Creator   `bin:"optional"`
	Collection           *Collection `bin:"optional"`
	Uses                 *Uses       `bin:"optional"`
}

// Validate checks the field limits.
func (d Data) Validate() error {
	switch {
	case len(d.Name) > MaxNameLength:
		return fmt.Errorf("%w: name is %d bytes, limit %d", ErrInvalidMetadata, len(d.Name), MaxNameLength)
	case len(d.Symbol) > MaxSymbolLength:
		return fmt.Errorf("%w: symbol is %d bytes, limit %d", ErrInvalidMetadata, len(d.Symbol), MaxSymbolLength)
	case len(d.URI) > MaxURILength:
		return fmt.Errorf("%w: uri is %d bytes, limit %d", ErrInvalidMetadata, len(d.URI), MaxURILength)
	case d.SellerFeeBasisPoints > MaxBasisPoints:
		return fmt.Errorf("%w: seller fee %d basis points", ErrInvalidMetadata, d.SellerFeeBasisPoints)
	case len(d.Creators) > MaxCreators:
		return fmt.Errorf("%w: %d creators, limit %d", ErrInvalidMetadata, len(d.Creators), MaxCreators)
	}
	if len(d.Creators) > 0 {
		total := 0
		for _, c := range d.Creators {
			total += int(c.Share)
		}
		if total != 100 {
			return fmt.Errorf("%w: creator shares add up to %d", ErrInvalidMetadata, total)
		}
	}
	return nil
}

// UpdateArgs are the arguments of an update. Nil fields are left unchanged.
type UpdateArgs struct {
	Data                *Data           `bin:"optional"`
	UpdateAuthority     *basics.Address `bin:"optional"`
	PrimarySaleHappened *bool           `bin:"optional"`
	IsMutable           *bool           `bin:"optional"`
}

// Address returns the metadata account of mint.
func Address(mint basics.Address) (basics.Address, error) {
	addr, _, err := solana.FindTokenMetadataAddress(mint)
	if err != nil {
		return basics.Address{}, fmt.Errorf("metadata account of %s: %w", mint, err)
	}
	return addr, nil
}

// UpdateMetadataAccountV2 rewrites the metadata of mint. updateAuthority must
// sign; args.UpdateAuthority may hand the role to another key.
func UpdateMetadataAccountV2(mint, updateAuthority basics.Address, args UpdateArgs) (transactions.Instruction, error) {
	if args.Data != nil {
		if err := args.Data.Validate(); err != nil {
			return nil, err
		}
		if len(args.Data.Creators) == 0 {
			d := *args.Data
			d.Creators = nil
			args.Data = &d
		}
	}
	account, err := Address(mint)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := bin.NewBorshEncoder(&buf)
	if err := enc.WriteUint8(updateMetadataAccountV2); err != nil {
		return nil, err
	}
	if err := enc.Encode(args); err != nil {
		return nil, fmt.Errorf("encode metadata update: %w", err)
	}
	return transactions.NewInstruction(ProgramID, []*transactions.AccountMeta{
		transactions.Writable(account, false),
		transactions.Readonly(updateAuthority, true),
	}, buf.Bytes()), nil
}
