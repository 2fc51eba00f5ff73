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

// Package token builds instructions for the token program, the associated
// token account program and the memo program, and decodes token account state.
package token

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	tokenprog "github.com/gagliardetto/solana-go/programs/token"

	"github.com/solkit/solkit/data/basics"
	"github.com/solkit/solkit/data/transactions"
)

var (
	// ProgramID is the token program.
	ProgramID = solana.TokenProgramID
	// AssociatedTokenProgramID derives and creates canonical token accounts.
	AssociatedTokenProgramID = solana.SPLAssociatedTokenAccountProgramID
	// MemoProgramID records arbitrary text in a transaction.
	MemoProgramID = solana.MemoProgramID
)

var (
	// ErrInvalidInstructionData is returned when parsing instruction data of the wrong shape.
	ErrInvalidInstructionData = errors.New("unexpected instruction data")
	// ErrInvalidMultisig is returned for signer sets a multisig account cannot hold.
	ErrInvalidMultisig = errors.New("invalid multisig configuration")
)

// MaxSigners is the largest number of keys a multisig account holds.
const MaxSigners = tokenprog.MAX_SIGNERS

// InitializeMint2 initializes a mint account that has already been created with
// MintLength bytes and assigned to the token program.
func InitializeMint2(mint basics.Address, decimals uint8, mintAuthority basics.Address, freezeAuthority *basics.Address) transactions.Instruction {
	b := tokenprog.NewInitializeMint2InstructionBuilder().
		SetDecimals(decimals).
		SetMintAuthority(mintAuthority).
		SetMintAccount(mint)
	if freezeAuthority != nil {
		b.SetFreezeAuthority(*freezeAuthority)
	}
	return b.Build()
}

// InitializeMultisig2 initializes an m-of-n multisig account created with
// MultisigLength bytes.
func InitializeMultisig2(multisig basics.Address, signers []basics.Address, m uint8) (transactions.Instruction, error) {
	if len(signers) == 0 || len(signers) > MaxSigners {
		return nil, fmt.Errorf("%w: %d signers, want 1 to %d", ErrInvalidMultisig, len(signers), MaxSigners)
	}
	if m == 0 || int(m) > len(signers) {
		return nil, fmt.Errorf("%w: threshold %d of %d", ErrInvalidMultisig, m, len(signers))
	}
	b := tokenprog.NewInitializeMultisig2Instruction(m, multisig, signers)
	// members are listed, they do not sign the initialization
	for _, meta := range b.Signers {
		meta.IsSigner = false
	}
	return b.Build(), nil
}

// MintTo mints amount new tokens into destination. With multisig signers the
// authority is a multisig account and each listed member signs instead.
func MintTo(mint, destination, authority basics.Address, amount uint64, multisigSigners ...basics.Address) transactions.Instruction {
	return tokenprog.NewMintToInstruction(amount, mint, destination, authority, multisigSigners).Build()
}

// MintToChecked is MintTo with the mint's decimals asserted.
func MintToChecked(mint, destination, authority basics.Address, amount uint64, decimals uint8, multisigSigners ...basics.Address) transactions.Instruction {
	return tokenprog.NewMintToCheckedInstruction(amount, decimals, mint, destination, authority, multisigSigners).Build()
}

// Transfer moves tokens between two token accounts of the same mint.
func Transfer(source, destination, owner basics.Address, amount uint64, multisigSigners ...basics.Address) transactions.Instruction {
	return tokenprog.NewTransferInstruction(amount, source, destination, owner, multisigSigners).Build()
}

// TransferChecked is Transfer with the mint and its decimals asserted.
func TransferChecked(source, mint, destination, owner basics.Address, amount uint64, decimals uint8, multisigSigners ...basics.Address) transactions.Instruction {
	return tokenprog.NewTransferCheckedInstruction(amount, decimals, source, mint, destination, owner, multisigSigners).Build()
}

// TransferCheckedParams are the decoded fields of a TransferChecked instruction.
type TransferCheckedParams struct {
	Source          basics.Address
	Mint            basics.Address
	Destination     basics.Address
	Owner           basics.Address
	MultisigSigners []basics.Address
	Amount          uint64
	Decimals        uint8
}

// ParseTransferChecked decodes a TransferChecked instruction.
func ParseTransferChecked(in transactions.Instruction) (*TransferCheckedParams, error) {
	if in.ProgramID() != ProgramID {
		return nil, fmt.Errorf("%w: program %s is not the token program", ErrInvalidInstructionData, in.ProgramID())
	}
	data, err := in.Data()
	if err != nil {
		return nil, err
	}
	accounts := in.Accounts()
	if len(data) != 10 || data[0] != tokenprog.Instruction_TransferChecked {
		return nil, fmt.Errorf("%w: not a checked transfer", ErrInvalidInstructionData)
	}
	if len(accounts) < 4 {
		return nil, fmt.Errorf("%w: checked transfer takes at least 4 accounts, got %d", ErrInvalidInstructionData, len(accounts))
	}
	decoded, err := tokenprog.DecodeInstruction(accounts, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInstructionData, err)
	}
	xfer, ok := decoded.Impl.(*tokenprog.TransferChecked)
	if !ok || xfer.Amount == nil || xfer.Decimals == nil {
		return nil, fmt.Errorf("%w: not a checked transfer", ErrInvalidInstructionData)
	}
	p := &TransferCheckedParams{
		Source:      xfer.GetSourceAccount().PublicKey,
		Mint:        xfer.GetMintAccount().PublicKey,
		Destination: xfer.GetDestinationAccount().PublicKey,
		Owner:       xfer.GetOwnerAccount().PublicKey,
		Amount:      *xfer.Amount,
		Decimals:    *xfer.Decimals,
	}
	for _, meta := range xfer.Signers {
		p.MultisigSigners = append(p.MultisigSigners, meta.PublicKey)
	}
	return p, nil
}
