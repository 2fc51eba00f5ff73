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
	"context"
	"fmt"

	"github.com/solkit/solkit/crypto"
	"github.com/solkit/solkit/data/basics"
	"github.com/solkit/solkit/data/programs/token"
	"github.com/solkit/solkit/data/transactions"
	"github.com/solkit/solkit/logging"
)

// TransferRequest describes the token transfer the initiator proposes.
type TransferRequest struct {
	// Sender owns SourceAccount and signs in the first phase.
	Sender *crypto.Keypair

	SourceAccount      basics.Address
	Mint               basics.Address
	DestinationAccount basics.Address
	Amount             uint64
	Decimals           uint8

	// FeePayer is the counterparty. It pays the fee and signs second.
	FeePayer basics.Address

	// Memo is optional text recorded with the transfer.
	Memo string
}

// Validate checks the request once, before anything is fetched or signed.
func (req TransferRequest) Validate() error {
	switch {
	case req.Sender == nil:
		return fmt.Errorf("%w: no sender key", ErrInvalidRequest)
	case req.Amount == 0:
		return fmt.Errorf("%w: amount must be positive", ErrInvalidRequest)
	case req.SourceAccount.IsZero():
		return fmt.Errorf("%w: no source account", ErrInvalidRequest)
	case req.Mint.IsZero():
		return fmt.Errorf("%w: no mint", ErrInvalidRequest)
	case req.DestinationAccount.IsZero():
		return fmt.Errorf("%w: no destination account", ErrInvalidRequest)
	case req.FeePayer.IsZero():
		return fmt.Errorf("%w: no fee payer", ErrInvalidRequest)
	case req.SourceAccount == req.DestinationAccount:
		return fmt.Errorf("%w: source and destination are the same account", ErrInvalidRequest)
	}
	return nil
}

// Phase1Output is the partially signed draft the initiator hands to the
// counterparty. It is the only thing the two parties share.
type Phase1Output struct {
	Encoded string `codec:"transaction"`
}

// Initiator builds and partially signs drafts.
type Initiator struct {
	ledger Ledger
	log    logging.Logger
}

// NewInitiator returns an Initiator that reads freshness tokens from ledger.
func NewInitiator(ledger Ledger, log logging.Logger) *Initiator {
	if log == nil {
		log = logging.Base()
	}
	return &Initiator{ledger: ledger, log: log}
}

// nonceAuthority returns the key that must sign to advance a durable nonce.
func nonceAuthority(fresh Freshness) (basics.Address, bool) {
	switch dn := fresh.(type) {
	case DurableNonce:
		return dn.Authority, true
	case *DurableNonce:
		if dn != nil {
			return dn.Authority, true
		}
	}
	return basics.Address{}, false
}

// Start builds the transfer described by req, signs it as the sender only and
// encodes it for the counterparty.
func (in *Initiator) Start(ctx context.Context, req TransferRequest, fresh Freshness) (Phase1Output, error) {
	if err := req.Validate(); err != nil {
		return Phase1Output{}, err
	}
	sender := basics.Address(req.Sender.PublicKey)
	if authority, ok := nonceAuthority(fresh); ok && authority != sender && authority != req.FeePayer {
		return Phase1Output{}, fmt.Errorf("%w: nonce authority %s is neither sender nor fee payer", ErrInvalidRequest, authority)
	}

	value, instrs, err := fresh.Resolve(ctx, in.ledger)
	if err != nil {
		return Phase1Output{}, err
	}
	instrs = append(instrs, token.TransferChecked(req.SourceAccount, req.Mint, req.DestinationAccount, sender, req.Amount, req.Decimals))
	if req.Memo != "" {
		instrs = append(instrs, token.Memo(req.Memo, sender))
	}

	tx, err := transactions.NewTransaction(req.FeePayer, value, instrs...)
	if err != nil {
		return Phase1Output{}, err
	}
	if err := tx.PartialSign(req.Sender); err != nil {
		return Phase1Output{}, err
	}
	encoded, err := transactions.EncodeBase64(tx, transactions.PartialSerializeConfig)
	if err != nil {
		return Phase1Output{}, err
	}

	in.log.With("sender", sender.String()).With("feePayer", req.FeePayer.String()).
		Infof("drafted transfer of %s anchored to %s %s", basics.FormatAmount(req.Amount, req.Decimals), fresh, value)
	return Phase1Output{Encoded: encoded}, nil
}
