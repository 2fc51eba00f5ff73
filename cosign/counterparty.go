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
	"github.com/solkit/solkit/data/transactions"
	"github.com/solkit/solkit/logging"
)

// Receipt is the result of a successful submission.
type Receipt struct {
	TrackingID  string
	Transaction *transactions.Transaction
}

// Counterparty completes and submits drafts it pays the fee for.
type Counterparty struct {
	ledger Ledger
	signer *crypto.Keypair
	log    logging.Logger
}

// NewCounterparty returns a Counterparty that signs with signer and submits to ledger.
func NewCounterparty(ledger Ledger, signer *crypto.Keypair, log logging.Logger) *Counterparty {
	if log == nil {
		log = logging.Base()
	}
	return &Counterparty{ledger: ledger, signer: signer, log: log}
}

// Complete decodes the draft, checks the signatures already on it, adds the
// counterparty's signature and submits. Ledger rejections are returned as is;
// nothing is retried.
func (c *Counterparty) Complete(ctx context.Context, out Phase1Output) (Receipt, error) {
	tx, err := transactions.DecodeBase64(out.Encoded)
	if err != nil {
		return Receipt{}, err
	}
	if err := tx.VerifySignatures(false); err != nil {
		return Receipt{}, fmt.Errorf("%w: %w", ErrInvalidDraftSignature, err)
	}

	me := basics.Address(c.signer.PublicKey)
	if !isSigner(tx, me) {
		return Receipt{}, fmt.Errorf("%w: %s", ErrNotASigner, me)
	}
	if tx.IsSignedBy(me) {
		return Receipt{}, fmt.Errorf("%w: %s", ErrAlreadySigned, me)
	}
	if err := tx.PartialSign(c.signer); err != nil {
		return Receipt{}, err
	}
	if st := tx.State(); st != transactions.FullySigned {
		return Receipt{}, fmt.Errorf("%w: still missing %v", transactions.ErrNotFullySigned, tx.MissingSigners())
	}

	raw, err := tx.Serialize(transactions.DefaultSerializeConfig)
	if err != nil {
		return Receipt{}, err
	}
	id, err := c.ledger.SendRawTransaction(ctx, raw)
	if err != nil {
		return Receipt{}, err
	}
	if err := tx.MarkSubmitted(id); err != nil {
		return Receipt{}, err
	}
	c.log.With("feePayer", me.String()).Infof("co-signed and submitted %s", id)
	return Receipt{TrackingID: id, Transaction: tx}, nil
}

func isSigner(tx *transactions.Transaction, addr basics.Address) bool {
	for _, s := range tx.Signers() {
		if s == addr {
			return true
		}
	}
	return false
}
