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

// Package system builds instructions for the ledger's system program and decodes
// the durable nonce accounts it owns.
package system

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	systemprog "github.com/gagliardetto/solana-go/programs/system"

	"github.com/solkit/solkit/data/basics"
	"github.com/solkit/solkit/data/transactions"
)

var (
	// ProgramID is the system program.
	ProgramID = solana.SystemProgramID
	// SysvarRecentBlockhashes is read when a durable nonce is initialized or advanced.
	SysvarRecentBlockhashes = solana.SysVarRecentBlockHashesPubkey
	// SysvarRent is read when a durable nonce is initialized.
	SysvarRent = solana.SysVarRentPubkey
)

// ErrInvalidInstructionData is returned when parsing instruction data of the wrong shape.
var ErrInvalidInstructionData = errors.New("unexpected instruction data")

// CreateAccount funds a new account of the given size and assigns it to owner.
// Both from and newAccount must sign.
func CreateAccount(from, newAccount basics.Address, lamports, space uint64, owner basics.Address) transactions.Instruction {
	return systemprog.NewCreateAccountInstruction(lamports, space, owner, from, newAccount).Build()
}

// Transfer moves lamports between two system accounts.
func Transfer(from, to basics.Address, lamports uint64) transactions.Instruction {
	return systemprog.NewTransferInstruction(lamports, from, to).Build()
}

// AdvanceNonceAccount replaces the stored nonce value. A transaction that uses a
// durable nonce as its freshness token must carry this as its first instruction.
func AdvanceNonceAccount(nonce, authority basics.Address) transactions.Instruction {
	return systemprog.NewAdvanceNonceAccountInstruction(nonce, SysvarRecentBlockhashes, authority).Build()
}

// InitializeNonceAccount sets authority on a freshly created nonce account.
func InitializeNonceAccount(nonce, authority basics.Address) transactions.Instruction {
	return systemprog.NewInitializeNonceAccountInstruction(authority, nonce, SysvarRecentBlockhashes, SysvarRent).Build()
}

// decode parses a system instruction whose data is exactly size bytes long and
// which lists exactly naccounts accounts.
func decode(in transactions.Instruction, size, naccounts int) (*systemprog.Instruction, error) {
	if in.ProgramID() != ProgramID {
		return nil, fmt.Errorf("%w: program %s is not the system program", ErrInvalidInstructionData, in.ProgramID())
	}
	data, err := in.Data()
	if err != nil {
		return nil, err
	}
	accounts := in.Accounts()
	if len(data) != size || len(accounts) != naccounts {
		return nil, fmt.Errorf("%w: %d data bytes and %d accounts", ErrInvalidInstructionData, len(data), len(accounts))
	}
	decoded, err := systemprog.DecodeInstruction(accounts, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInstructionData, err)
	}
	return decoded, nil
}

// ParseAdvanceNonceAccount returns the nonce account and authority of an
// AdvanceNonceAccount instruction.
func ParseAdvanceNonceAccount(in transactions.Instruction) (nonce, authority basics.Address, err error) {
	decoded, err := decode(in, 4, 3)
	if err != nil {
		return nonce, authority, err
	}
	adv, ok := decoded.Impl.(*systemprog.AdvanceNonceAccount)
	if !ok {
		return nonce, authority, fmt.Errorf("%w: not an advance-nonce instruction", ErrInvalidInstructionData)
	}
	return adv.GetNonceAccount().PublicKey, adv.GetNonceAuthorityAccount().PublicKey, nil
}

// ParseTransfer returns the parties and amount of a Transfer instruction.
func ParseTransfer(in transactions.Instruction) (from, to basics.Address, lamports uint64, err error) {
	decoded, err := decode(in, 12, 2)
	if err != nil {
		return from, to, 0, err
	}
	xfer, ok := decoded.Impl.(*systemprog.Transfer)
	if !ok || xfer.Lamports == nil {
		return from, to, 0, fmt.Errorf("%w: not a system transfer", ErrInvalidInstructionData)
	}
	return xfer.GetFundingAccount().PublicKey, xfer.GetRecipientAccount().PublicKey, *xfer.Lamports, nil
}
