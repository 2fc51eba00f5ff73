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

package transactions

import (
	"github.com/gagliardetto/solana-go"

	"github.com/solkit/solkit/data/basics"
)

// Instruction is a single program invocation before it is compiled into a message.
type Instruction = solana.Instruction

// AccountMeta describes how an instruction uses an account.
type AccountMeta = solana.AccountMeta

// Writable returns the meta of an account the instruction modifies.
func Writable(addr basics.Address, signer bool) *AccountMeta {
	return solana.NewAccountMeta(addr, true, signer)
}

// Readonly returns the meta of an account the instruction only reads.
func Readonly(addr basics.Address, signer bool) *AccountMeta {
	return solana.NewAccountMeta(addr, false, signer)
}

// NewInstruction assembles an instruction from raw parts.
func NewInstruction(program basics.Address, accounts []*AccountMeta, data []byte) *solana.GenericInstruction {
	return solana.NewInstruction(program, accounts, data)
}
