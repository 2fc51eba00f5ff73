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

package cosign

import (
	"encoding/base64"
	"fmt"
	"unicode/utf8"

	"github.com/solkit/solkit/data/basics"
	"github.com/solkit/solkit/data/programs/system"
	"github.com/solkit/solkit/data/programs/token"
	"github.com/solkit/solkit/data/transactions"
)

// SignerStatus reports whether one required signer has signed.
type SignerStatus struct {
	Address basics.Address `codec:"address"`
	Signed  bool           `codec:"signed"`
}

// InstructionSummary is a readable rendering of one instruction.
type InstructionSummary struct {
	Program  basics.Address   `codec:"program"`
	Kind     string           `codec:"kind"`
	Detail   string           `codec:"detail,omitempty"`
	Accounts []basics.Address `codec:"accounts"`
}

// Summary is what an operator reviews before co-signing a draft.
type Summary struct {
	State        string               `codec:"state"`
	FeePayer     basics.Address       `codec:"feePayer"`
	Freshness    basics.Hash          `codec:"freshness"`
	NonceAccount *basics.Address      `codec:"nonceAccount,omitempty"`
	Signers      []SignerStatus       `codec:"signers"`
	Instructions []InstructionSummary `codec:"instructions"`
}

// Inspect decodes a draft without signing it.
func Inspect(out Phase1Output) (*Summary, error) {
	tx, err := transactions.DecodeBase64(out.Encoded)
	if err != nil {
		return nil, err
	}
	if err := tx.VerifySignatures(false); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDraftSignature, err)
	}
	return summarize(tx), nil
}

func summarize(tx *transactions.Transaction) *Summary {
	s := &Summary{
		State:     tx.State().String(),
		FeePayer:  tx.FeePayer(),
		Freshness: tx.Message.RecentBlockhash,
	}
	for _, signer := range tx.Signers() {
		s.Signers = append(s.Signers, SignerStatus{Address: signer, Signed: tx.IsSignedBy(signer)})
	}
	for i := range tx.Message.Instructions {
		in := tx.Instruction(i)
		is := describe(in)
		if i == 0 {
			if nonce, _, err := system.ParseAdvanceNonceAccount(in); err == nil {
				s.NonceAccount = &nonce
			}
		}
		s.Instructions = append(s.Instructions, is)
	}
	return s
}

func describe(in transactions.Instruction) InstructionSummary {
	is := InstructionSummary{Program: in.ProgramID(), Kind: "unknown"}
	for _, meta := range in.Accounts() {
		is.Accounts = append(is.Accounts, meta.PublicKey)
	}

	switch in.ProgramID() {
	case system.ProgramID:
		if nonce, authority, err := system.ParseAdvanceNonceAccount(in); err == nil {
			is.Kind = "advance-nonce"
			is.Detail = fmt.Sprintf("nonce %s authority %s", nonce, authority)
		} else if from, to, lamports, err := system.ParseTransfer(in); err == nil {
			is.Kind = "transfer"
			is.Detail = fmt.Sprintf("%s SOL from %s to %s", basics.FormatAmount(lamports, basics.NativeDecimals), from, to)
		}
	case token.ProgramID:
		if p, err := token.ParseTransferChecked(in); err == nil {
			is.Kind = "transfer-checked"
			is.Detail = fmt.Sprintf("%s of mint %s from %s to %s, authority %s",
				basics.FormatAmount(p.Amount, p.Decimals), p.Mint, p.Source, p.Destination, p.Owner)
		}
	case token.MemoProgramID:
		is.Kind = "memo"
		data, err := in.Data()
		if err != nil {
			break
		}
		if utf8.Valid(data) {
			is.Detail = string(data)
		} else {
			is.Detail = base64.StdEncoding.EncodeToString(data)
		}
	}
	return is
}
