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
	"fmt"
	"math"

	"github.com/gagliardetto/solana-go"

	"github.com/solkit/solkit/data/basics"
)

// Message is the part of a transaction covered by its signatures.
type Message = solana.Message

// MessageHeader counts the signer and read-only sections of AccountKeys.
type MessageHeader = solana.MessageHeader

// compileMessage merges the account flags of every mention of a key, then lets
// the ledger library order the keys fee payer first, then writable signers,
// read-only signers, writable non-signers and read-only non-signers. Within a
// class accounts keep the order in which the instructions first mention them.
func compileMessage(feePayer basics.Address, blockhash basics.Hash, instrs []Instruction) (*solana.Transaction, error) {
	if len(instrs) == 0 {
		return nil, errNoInstructions
	}
	if feePayer.IsZero() {
		return nil, errNoFeePayer
	}
	if len(instrs) > PacketDataSize {
		return nil, fmt.Errorf("%w: %d instructions", ErrTransactionTooLarge, len(instrs))
	}

	flags := map[basics.Address]AccountMeta{feePayer: {PublicKey: feePayer, IsSigner: true, IsWritable: true}}
	merge := func(meta AccountMeta) {
		have := flags[meta.PublicKey]
		have.PublicKey = meta.PublicKey
		have.IsSigner = have.IsSigner || meta.IsSigner
		have.IsWritable = have.IsWritable || meta.IsWritable
		flags[meta.PublicKey] = have
	}
	datas := make([][]byte, len(instrs))
	for i, in := range instrs {
		data, err := in.Data()
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i, err)
		}
		accounts := in.Accounts()
		if len(data) > PacketDataSize || len(accounts) > PacketDataSize {
			return nil, fmt.Errorf("%w: instruction %d carries %d accounts and %d data bytes", ErrTransactionTooLarge, i, len(accounts), len(data))
		}
		datas[i] = data
		for _, meta := range accounts {
			merge(*meta)
		}
		merge(AccountMeta{PublicKey: in.ProgramID()})
	}
	if len(flags) > math.MaxUint8 {
		return nil, fmt.Errorf("%w: %d distinct keys", errTooManyAccounts, len(flags))
	}

	// the library copies the flags of the first mention of a key, hand it
	// metas that already agree with each other
	normalized := make([]solana.Instruction, len(instrs))
	for i, in := range instrs {
		metas := make(solana.AccountMetaSlice, 0, len(in.Accounts()))
		for _, meta := range in.Accounts() {
			merged := flags[meta.PublicKey]
			metas = append(metas, &merged)
		}
		normalized[i] = solana.NewInstruction(in.ProgramID(), metas, datas[i])
	}
	return solana.NewTransaction(normalized, blockhash, solana.TransactionPayer(feePayer))
}

// checkCounts rejects messages whose lengths cannot be written as compact-u16
// prefixes or whose key indices do not fit in a byte.
func checkCounts(m *Message) error {
	if len(m.AccountKeys) > math.MaxUint8 {
		return fmt.Errorf("%w: %d keys", errTooManyAccounts, len(m.AccountKeys))
	}
	if len(m.Instructions) > PacketDataSize {
		return fmt.Errorf("%w: %d instructions", ErrTransactionTooLarge, len(m.Instructions))
	}
	for i, ci := range m.Instructions {
		if len(ci.Data) > PacketDataSize || len(ci.Accounts) > PacketDataSize {
			return fmt.Errorf("%w: instruction %d carries %d accounts and %d data bytes", ErrTransactionTooLarge, i, len(ci.Accounts), len(ci.Data))
		}
	}
	return nil
}

// FeePayer returns the account that pays for the transaction.
func (tx *Transaction) FeePayer() basics.Address {
	if len(tx.Message.AccountKeys) == 0 {
		return basics.Address{}
	}
	return tx.Message.AccountKeys[0]
}

// Signers returns the keys whose signatures the message requires, in slot order.
func (tx *Transaction) Signers() []basics.Address {
	n := int(tx.Message.Header.NumRequiredSignatures)
	if n > len(tx.Message.AccountKeys) {
		n = len(tx.Message.AccountKeys)
	}
	return append([]basics.Address(nil), tx.Message.AccountKeys[:n]...)
}

// signerIndex returns the signature slot of addr, or -1.
func (tx *Transaction) signerIndex(addr basics.Address) int {
	m := &tx.Message
	for i := 0; i < int(m.Header.NumRequiredSignatures) && i < len(m.AccountKeys); i++ {
		if m.AccountKeys[i] == addr {
			return i
		}
	}
	return -1
}

func (tx *Transaction) isWritable(i int) bool {
	h := tx.Message.Header
	n := int(h.NumRequiredSignatures)
	if i < n {
		return i < n-int(h.NumReadonlySignedAccounts)
	}
	return i < len(tx.Message.AccountKeys)-int(h.NumReadonlyUnsignedAccounts)
}

// Instruction expands the compiled instruction at index i back into account metas.
func (tx *Transaction) Instruction(i int) *solana.GenericInstruction {
	m := &tx.Message
	ci := m.Instructions[i]
	metas := make(solana.AccountMetaSlice, 0, len(ci.Accounts))
	for _, idx := range ci.Accounts {
		metas = append(metas, solana.NewAccountMeta(m.AccountKeys[idx], tx.isWritable(int(idx)), int(idx) < int(m.Header.NumRequiredSignatures)))
	}
	return solana.NewInstruction(m.AccountKeys[ci.ProgramIDIndex], metas, append([]byte(nil), ci.Data...))
}
