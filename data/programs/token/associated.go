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
	"fmt"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"

	"github.com/solkit/solkit/data/basics"
	"github.com/solkit/solkit/data/transactions"
)

// createIdempotent is the associated token program instruction that succeeds
// without change when the account already exists.
const createIdempotent = 1

// AssociatedTokenAddress returns the canonical token account of owner for mint.
func AssociatedTokenAddress(owner, mint basics.Address) (basics.Address, error) {
	addr, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return basics.Address{}, fmt.Errorf("associated token account of %s for mint %s: %w", owner, mint, err)
	}
	return addr, nil
}

// CreateAssociatedTokenAccountIdempotent creates owner's associated token account
// for mint, succeeding without change if it already exists. It also returns the
// account's address.
func CreateAssociatedTokenAccountIdempotent(payer, owner, mint basics.Address) (transactions.Instruction, basics.Address, error) {
	ata, err := AssociatedTokenAddress(owner, mint)
	if err != nil {
		return nil, basics.Address{}, err
	}
	create := associatedtokenaccount.NewCreateInstruction(payer, owner, mint).Build()
	accounts := create.Accounts()
	if accounts[1].PublicKey != ata {
		return nil, basics.Address{}, fmt.Errorf("associated token account of %s for mint %s: derived %s, builder listed %s", owner, mint, ata, accounts[1].PublicKey)
	}
	return transactions.NewInstruction(AssociatedTokenProgramID, accounts, []byte{createIdempotent}), ata, nil
}

// Memo attaches text to a transaction. Each listed signer must sign it.
func Memo(text string, signers ...basics.Address) transactions.Instruction {
	accounts := []*transactions.AccountMeta{}
	for _, s := range signers {
		accounts = append(accounts, transactions.Readonly(s, true))
	}
	return transactions.NewInstruction(MemoProgramID, accounts, []byte(text))
}
