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

// Package cosign builds transfers that two parties sign in turn: the initiator
// signs a draft that names the counterparty as fee payer, hands the encoded draft
// over, and the counterparty adds its signature and submits.
package cosign

import (
	"context"
	"errors"
	"fmt"

	"github.com/solkit/solkit/data/basics"
	"github.com/solkit/solkit/data/programs/system"
	"github.com/solkit/solkit/data/transactions"
	"github.com/solkit/solkit/rpcs"
)

// Ledger is what the builder needs from the ledger it talks to.
type Ledger interface {
	// LatestBlockhash returns the current short-lived freshness token.
	LatestBlockhash(ctx context.Context) (basics.Hash, error)
	// AccountData returns an account's data, or an error wrapping ErrAccountNotFound.
	AccountData(ctx context.Context, addr basics.Address) ([]byte, error)
	// SendRawTransaction submits a fully signed transaction and returns its tracking id.
	SendRawTransaction(ctx context.Context, raw []byte) (string, error)
}

var (
	// ErrAccountNotFound is returned by a Ledger for addresses with no account.
	ErrAccountNotFound = rpcs.ErrAccountNotFound
	// ErrMalformedTransaction is returned when the handed-over draft cannot be decoded.
	ErrMalformedTransaction = transactions.ErrMalformedTransaction

	// ErrInvalidRequest is returned for transfer requests that fail validation.
	ErrInvalidRequest = errors.New("invalid transfer request")
	// ErrInvalidDraftSignature is returned when a signature already on the draft does not verify.
	ErrInvalidDraftSignature = errors.New("draft carries an invalid signature")
	// ErrNotASigner is returned when the counterparty is not a required signer of the draft.
	ErrNotASigner = errors.New("counterparty is not a required signer of this draft")
	// ErrAlreadySigned is returned when the counterparty's slot is already filled.
	ErrAlreadySigned = errors.New("counterparty has already signed this draft")
)

// Freshness supplies the freshness token a draft is anchored to, together with
// any instructions that must come first in the draft.
type Freshness interface {
	Resolve(ctx context.Context, ledger Ledger) (basics.Hash, []transactions.Instruction, error)
	String() string
}

// RecentBlockhash anchors the draft to the latest blockhash. The draft must be
// completed before the ledger stops accepting that token.
type RecentBlockhash struct{}

// Resolve reads the latest blockhash.
func (RecentBlockhash) Resolve(ctx context.Context, ledger Ledger) (basics.Hash, []transactions.Instruction, error) {
	h, err := ledger.LatestBlockhash(ctx)
	if err != nil {
		return basics.Hash{}, nil, fmt.Errorf("fetching latest blockhash: %w", err)
	}
	return h, nil, nil
}

func (RecentBlockhash) String() string {
	return "recent blockhash"
}

// DurableNonce anchors the draft to the value stored in a nonce account, so the
// draft stays valid until the nonce is advanced. Authority must sign the draft.
type DurableNonce struct {
	Account   basics.Address
	Authority basics.Address
}

// Resolve reads the nonce account and prepends the advance-nonce instruction.
func (d DurableNonce) Resolve(ctx context.Context, ledger Ledger) (basics.Hash, []transactions.Instruction, error) {
	data, err := ledger.AccountData(ctx, d.Account)
	if err != nil {
		return basics.Hash{}, nil, fmt.Errorf("fetching nonce account %s: %w", d.Account, err)
	}
	acct, err := system.DecodeNonceAccount(data)
	if err != nil {
		return basics.Hash{}, nil, fmt.Errorf("nonce account %s: %w", d.Account, err)
	}
	if acct.Authority != d.Authority {
		return basics.Hash{}, nil, fmt.Errorf("%w: nonce authority is %s, not %s", ErrInvalidRequest, acct.Authority, d.Authority)
	}
	return acct.Nonce, []transactions.Instruction{system.AdvanceNonceAccount(d.Account, d.Authority)}, nil
}

func (d DurableNonce) String() string {
	return "durable nonce " + d.Account.String()
}
