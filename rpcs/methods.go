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

package rpcs

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/solkit/solkit/data/basics"
)

// Commitment levels a confirmation can reach.
const (
	CommitmentProcessed = string(rpc.CommitmentProcessed)
	CommitmentConfirmed = string(rpc.CommitmentConfirmed)
	CommitmentFinalized = string(rpc.CommitmentFinalized)
)

// BlockhashResult is the freshness token currently accepted by the ledger.
type BlockhashResult struct {
	Blockhash            basics.Hash
	LastValidBlockHeight uint64
}

// AccountInfo describes an account and its decoded data.
type AccountInfo struct {
	Lamports   uint64
	Owner      basics.Address
	Data       []byte
	Executable bool
	Space      uint64
}

// SignatureStatus is the ledger's view of a submitted transaction.
type SignatureStatus struct {
	Slot               uint64
	Confirmations      *uint64
	Err                interface{}
	ConfirmationStatus string
}

// SendOptions tune transaction submission.
type SendOptions struct {
	SkipPreflight bool
}

// GetBalance returns the lamport balance of addr.
func (c *Client) GetBalance(ctx context.Context, addr basics.Address) (uint64, error) {
	res, err := c.rpc.GetBalance(ctx, addr, c.commitmentType())
	if err != nil {
		return 0, extractError("getBalance", err)
	}
	return res.Value, nil
}

// GetLatestBlockhash returns the most recent freshness token.
func (c *Client) GetLatestBlockhash(ctx context.Context) (BlockhashResult, error) {
	res, err := c.rpc.GetLatestBlockhash(ctx, c.commitmentType())
	if err != nil {
		return BlockhashResult{}, extractError("getLatestBlockhash", err)
	}
	if res == nil || res.Value == nil {
		return BlockhashResult{}, errors.New("getLatestBlockhash: empty result")
	}
	return BlockhashResult{Blockhash: res.Value.Blockhash, LastValidBlockHeight: res.Value.LastValidBlockHeight}, nil
}

// GetAccountInfo returns the account at addr, or ErrAccountNotFound.
func (c *Client) GetAccountInfo(ctx context.Context, addr basics.Address) (*AccountInfo, error) {
	res, err := c.rpc.GetAccountInfoWithOpts(ctx, addr, &rpc.GetAccountInfoOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: c.commitmentType(),
	})
	if errors.Is(err, rpc.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
	}
	if err != nil {
		return nil, extractError("getAccountInfo", err)
	}
	return &AccountInfo{
		Lamports:   res.Value.Lamports,
		Owner:      res.Value.Owner,
		Data:       res.Value.Data.GetBinary(),
		Executable: res.Value.Executable,
		Space:      res.Value.Space,
	}, nil
}

// GetMinimumBalanceForRentExemption returns the balance an account of size bytes
// needs to be exempt from rent.
func (c *Client) GetMinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error) {
	lamports, err := c.rpc.GetMinimumBalanceForRentExemption(ctx, size, c.commitmentType())
	return lamports, extractError("getMinimumBalanceForRentExemption", err)
}

// SendTransaction submits a serialized transaction and returns its signature.
func (c *Client) SendTransaction(ctx context.Context, raw []byte, opts SendOptions) (string, error) {
	sig, err := c.rpc.SendRawTransactionWithOpts(ctx, raw, rpc.TransactionOpts{
		Encoding:            solana.EncodingBase64,
		SkipPreflight:       opts.SkipPreflight,
		PreflightCommitment: c.commitmentType(),
	})
	if err != nil {
		return "", extractError("sendTransaction", err)
	}
	return sig.String(), nil
}

// GetSignatureStatuses returns one status per signature; nil entries are unknown
// to the ledger.
func (c *Client) GetSignatureStatuses(ctx context.Context, signatures ...string) ([]*SignatureStatus, error) {
	sigs := make([]solana.Signature, 0, len(signatures))
	for _, s := range signatures {
		sig, err := solana.SignatureFromBase58(s)
		if err != nil {
			return nil, fmt.Errorf("signature %q: %w", s, err)
		}
		sigs = append(sigs, sig)
	}
	res, err := c.rpc.GetSignatureStatuses(ctx, true, sigs...)
	if err != nil {
		return nil, extractError("getSignatureStatuses", err)
	}
	out := make([]*SignatureStatus, len(res.Value))
	for i, st := range res.Value {
		if st == nil {
			continue
		}
		out[i] = &SignatureStatus{
			Slot:               st.Slot,
			Confirmations:      st.Confirmations,
			Err:                st.Err,
			ConfirmationStatus: string(st.ConfirmationStatus),
		}
	}
	return out, nil
}

// RequestAirdrop asks a test cluster's faucet for lamports.
func (c *Client) RequestAirdrop(ctx context.Context, addr basics.Address, lamports uint64) (string, error) {
	sig, err := c.rpc.RequestAirdrop(ctx, addr, lamports, c.commitmentType())
	if err != nil {
		return "", extractError("requestAirdrop", err)
	}
	return sig.String(), nil
}

// LatestBlockhash returns the current freshness token.
func (c *Client) LatestBlockhash(ctx context.Context) (basics.Hash, error) {
	res, err := c.GetLatestBlockhash(ctx)
	return res.Blockhash, err
}

// AccountData returns the data bytes of the account at addr.
func (c *Client) AccountData(ctx context.Context, addr basics.Address) ([]byte, error) {
	info, err := c.GetAccountInfo(ctx, addr)
	if err != nil {
		return nil, err
	}
	return info.Data, nil
}

// SendRawTransaction submits raw with the client's send options and returns the
// ledger's tracking identifier.
func (c *Client) SendRawTransaction(ctx context.Context, raw []byte) (string, error) {
	sig, err := c.SendTransaction(ctx, raw, c.sendOpts)
	if err == nil {
		c.log.Infof("submitted transaction %s to %s", sig, c.serverURL)
	}
	return sig, err
}
