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

package libsol

import (
	"context"
	"fmt"
	"time"

	"github.com/solkit/solkit/crypto"
	"github.com/solkit/solkit/data/basics"
	"github.com/solkit/solkit/data/programs/system"
	"github.com/solkit/solkit/data/programs/token"
	"github.com/solkit/solkit/data/transactions"
	"github.com/solkit/solkit/rpcs"
)

// TransactionError is returned when the ledger executed a transaction and it failed.
type TransactionError struct {
	Signature string
	Err       interface{}
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction %s failed: %v", e.Signature, e.Err)
}

var commitmentRank = map[string]int{
	rpcs.CommitmentProcessed: 1,
	rpcs.CommitmentConfirmed: 2,
	rpcs.CommitmentFinalized: 3,
}

// reached reports whether a status at least as strong as want was observed.
// An unknown want is treated as confirmed.
func reached(status, want string) bool {
	wantRank, ok := commitmentRank[want]
	if !ok {
		wantRank = commitmentRank[rpcs.CommitmentConfirmed]
	}
	return commitmentRank[status] >= wantRank
}

// WaitForConfirmation polls the ledger until sig reaches the client's
// commitment level, fails, or ctx is done.
func (c *Client) WaitForConfirmation(ctx context.Context, sig string) error {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		statuses, err := c.rpc.GetSignatureStatuses(ctx, sig)
		if err != nil {
			return err
		}
		if len(statuses) > 0 && statuses[0] != nil {
			st := statuses[0]
			if st.Err != nil {
				return &TransactionError{Signature: sig, Err: st.Err}
			}
			if reached(st.ConfirmationStatus, c.rpc.Commitment()) {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %s: %w", sig, ctx.Err())
		case <-ticker.C:
		}
	}
}

// SendAndConfirm submits a fully signed transaction and waits, up to the
// configured timeout, for it to be confirmed.
func (c *Client) SendAndConfirm(ctx context.Context, tx *transactions.Transaction) (string, error) {
	raw, err := tx.Serialize(transactions.DefaultSerializeConfig)
	if err != nil {
		return "", err
	}
	sig, err := c.rpc.SendRawTransaction(ctx, raw)
	if err != nil {
		return "", err
	}
	if err := tx.MarkSubmitted(sig); err != nil {
		return sig, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.confirmTimeout)
	defer cancel()
	return sig, c.WaitForConfirmation(ctx, sig)
}

// BuildAndSend anchors instrs to the latest blockhash, signs with payer and
// signers, then submits and confirms.
func (c *Client) BuildAndSend(ctx context.Context, payer *crypto.Keypair, signers []*crypto.Keypair, instrs ...transactions.Instruction) (string, error) {
	blockhash, err := c.rpc.LatestBlockhash(ctx)
	if err != nil {
		return "", err
	}
	tx, err := transactions.NewTransaction(basics.Address(payer.PublicKey), blockhash, instrs...)
	if err != nil {
		return "", err
	}
	if err := tx.Sign(append([]*crypto.Keypair{payer}, signers...)...); err != nil {
		return "", err
	}
	return c.SendAndConfirm(ctx, tx)
}

// SendSOL transfers lamports from one account to another, attaching memo when
// it is not empty.
func (c *Client) SendSOL(ctx context.Context, from *crypto.Keypair, to basics.Address, lamports uint64, memo string) (string, error) {
	fromAddr := basics.Address(from.PublicKey)
	instrs := []transactions.Instruction{system.Transfer(fromAddr, to, lamports)}
	if memo != "" {
		instrs = append(instrs, token.Memo(memo, fromAddr))
	}
	sig, err := c.BuildAndSend(ctx, from, nil, instrs...)
	if err != nil {
		return sig, err
	}
	c.log.With("to", to.String()).Infof("sent %s SOL in %s", basics.FormatAmount(lamports, basics.NativeDecimals), sig)
	return sig, nil
}
