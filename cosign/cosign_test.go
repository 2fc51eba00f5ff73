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
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solkit/solkit/crypto"
	"github.com/solkit/solkit/data/basics"
	"github.com/solkit/solkit/data/programs/system"
	"github.com/solkit/solkit/data/programs/token"
	"github.com/solkit/solkit/data/transactions"
	"github.com/solkit/solkit/rpcs"
	"github.com/solkit/solkit/test/partitiontest"
)

var _ Ledger = (*rpcs.Client)(nil)

var errBlockhashNotFound = errors.New("blockhash not found")

// fakeLedger accepts transactions anchored to its current blockhash or to the
// value of a nonce account they advance.
type fakeLedger struct {
	mu             sync.Mutex
	blockhash      basics.Hash
	accounts       map[basics.Address][]byte
	submitted      []*transactions.Transaction
	blockhashReads int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		blockhash: basics.Hash{1},
		accounts:  make(map[basics.Address][]byte),
	}
}

func (l *fakeLedger) LatestBlockhash(ctx context.Context) (basics.Hash, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.blockhashReads++
	return l.blockhash, nil
}

func (l *fakeLedger) AccountData(ctx context.Context, addr basics.Address) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	data, ok := l.accounts[addr]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
	}
	return data, nil
}

func (l *fakeLedger) SendRawTransaction(ctx context.Context, raw []byte) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	tx, err := transactions.DecodeTransaction(raw)
	if err != nil {
		return "", err
	}
	l.submitted = append(l.submitted, tx)
	if err := tx.VerifySignatures(true); err != nil {
		return "", err
	}
	if tx.Message.RecentBlockhash == l.blockhash {
		return tx.ID(), nil
	}
	nonceAddr, _, err := system.ParseAdvanceNonceAccount(tx.Instruction(0))
	if err != nil {
		return "", errBlockhashNotFound
	}
	nonce, err := system.DecodeNonceAccount(l.accounts[nonceAddr])
	if err != nil || nonce.Nonce != tx.Message.RecentBlockhash {
		return "", errBlockhashNotFound
	}
	nonce.Nonce = l.blockhash
	l.accounts[nonceAddr], _ = nonce.MarshalBinary()
	return tx.ID(), nil
}

func (l *fakeLedger) rotate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.blockhash[0]++
}

type parties struct {
	ledger    *fakeLedger
	sender    *crypto.Keypair
	recipient *crypto.Keypair
	mint      basics.Address
	accounts  TokenAccounts
}

func setup(t *testing.T) *parties {
	p := &parties{ledger: newFakeLedger(), mint: basics.Address{0xEE, 1}}
	var err error
	p.sender, err = crypto.GenerateKeypair(crypto.SystemRNG)
	require.NoError(t, err)
	p.recipient, err = crypto.GenerateKeypair(crypto.SystemRNG)
	require.NoError(t, err)

	for _, owner := range []*crypto.Keypair{p.sender, p.recipient} {
		ata, err := token.AssociatedTokenAddress(basics.Address(owner.PublicKey), p.mint)
		require.NoError(t, err)
		data, err := token.Account{
			Mint:   p.mint,
			Owner:  basics.Address(owner.PublicKey),
			Amount: 10000,
			State:  token.AccountInitialized,
		}.MarshalBinary()
		require.NoError(t, err)
		p.ledger.accounts[ata] = data
	}

	p.accounts, err = ResolveTokenAccounts(context.Background(), p.ledger, p.mint,
		basics.Address(p.sender.PublicKey), basics.Address(p.recipient.PublicKey))
	require.NoError(t, err)
	return p
}

func (p *parties) request() TransferRequest {
	return TransferRequest{
		Sender:             p.sender,
		SourceAccount:      p.accounts.Source,
		Mint:               p.mint,
		DestinationAccount: p.accounts.Destination,
		Amount:             2700,
		Decimals:           2,
		FeePayer:           basics.Address(p.recipient.PublicKey),
	}
}

func (p *parties) addNonceAccount(t *testing.T, value basics.Hash) basics.Address {
	nonceAddr := basics.Address{0xDD, 2}
	data, err := system.NonceAccount{
		State:                system.NonceInitialized,
		Authority:            basics.Address(p.sender.PublicKey),
		Nonce:                value,
		LamportsPerSignature: 5000,
	}.MarshalBinary()
	require.NoError(t, err)
	p.ledger.accounts[nonceAddr] = data
	return nonceAddr
}

func TestShortLivedTokenTransfer(t *testing.T) {
	partitiontest.PartitionTest(t)

	p := setup(t)
	ctx := context.Background()

	out, err := NewInitiator(p.ledger, nil).Start(ctx, p.request(), RecentBlockhash{})
	require.NoError(t, err)

	draft, err := transactions.DecodeBase64(out.Encoded)
	require.NoError(t, err)
	require.Equal(t, transactions.PartiallySigned, draft.State())
	require.Equal(t, basics.Address(p.recipient.PublicKey), draft.FeePayer())
	require.True(t, draft.IsSignedBy(basics.Address(p.sender.PublicKey)))
	require.Equal(t, p.ledger.blockhash, draft.Message.RecentBlockhash)
	require.Len(t, draft.Message.Instructions, 1)

	receipt, err := NewCounterparty(p.ledger, p.recipient, nil).Complete(ctx, out)
	require.NoError(t, err)
	require.Equal(t, transactions.Submitted, receipt.Transaction.State())
	require.Equal(t, receipt.Transaction.ID(), receipt.TrackingID)
	require.Len(t, p.ledger.submitted, 1)

	params, err := token.ParseTransferChecked(p.ledger.submitted[0].Instruction(0))
	require.NoError(t, err)
	require.Equal(t, uint64(2700), params.Amount)
	require.Equal(t, uint8(2), params.Decimals)
	require.Equal(t, p.accounts.Source, params.Source)
	require.Equal(t, p.accounts.Destination, params.Destination)
	require.Equal(t, basics.Address(p.sender.PublicKey), params.Owner)
}

func TestDurableNonceTransfer(t *testing.T) {
	partitiontest.PartitionTest(t)

	p := setup(t)
	ctx := context.Background()
	nonceValue := basics.Hash{0x42, 0x42}
	nonceAddr := p.addNonceAccount(t, nonceValue)

	fresh := DurableNonce{Account: nonceAddr, Authority: basics.Address(p.sender.PublicKey)}
	out, err := NewInitiator(p.ledger, nil).Start(ctx, p.request(), fresh)
	require.NoError(t, err)
	require.Zero(t, p.ledger.blockhashReads)

	draft, err := transactions.DecodeBase64(out.Encoded)
	require.NoError(t, err)
	require.Equal(t, nonceValue, draft.Message.RecentBlockhash)
	gotNonce, gotAuth, err := system.ParseAdvanceNonceAccount(draft.Instruction(0))
	require.NoError(t, err)
	require.Equal(t, nonceAddr, gotNonce)
	require.Equal(t, basics.Address(p.sender.PublicKey), gotAuth)

	// the short-lived token moves on while the draft waits
	p.ledger.rotate()
	p.ledger.rotate()

	receipt, err := NewCounterparty(p.ledger, p.recipient, nil).Complete(ctx, out)
	require.NoError(t, err)
	require.NotEmpty(t, receipt.TrackingID)

	advanced, err := system.DecodeNonceAccount(p.ledger.accounts[nonceAddr])
	require.NoError(t, err)
	require.NotEqual(t, nonceValue, advanced.Nonce)
}

func TestExpiredTokenIsNotRetried(t *testing.T) {
	partitiontest.PartitionTest(t)

	p := setup(t)
	ctx := context.Background()
	out, err := NewInitiator(p.ledger, nil).Start(ctx, p.request(), RecentBlockhash{})
	require.NoError(t, err)

	p.ledger.rotate()
	_, err = NewCounterparty(p.ledger, p.recipient, nil).Complete(ctx, out)
	require.ErrorIs(t, err, errBlockhashNotFound)
	require.Len(t, p.ledger.submitted, 1)
	require.Equal(t, 1, p.ledger.blockhashReads)
}

func TestCompleteRejectsMalformed(t *testing.T) {
	partitiontest.PartitionTest(t)

	p := setup(t)
	c := NewCounterparty(p.ledger, p.recipient, nil)

	_, err := c.Complete(context.Background(), Phase1Output{Encoded: "%%% not base64"})
	require.ErrorIs(t, err, ErrMalformedTransaction)

	_, err = c.Complete(context.Background(), Phase1Output{Encoded: base64.StdEncoding.EncodeToString([]byte{1, 2, 3})})
	require.ErrorIs(t, err, ErrMalformedTransaction)
	require.Empty(t, p.ledger.submitted)
}

func TestCompleteRejectsStranger(t *testing.T) {
	partitiontest.PartitionTest(t)

	p := setup(t)
	out, err := NewInitiator(p.ledger, nil).Start(context.Background(), p.request(), RecentBlockhash{})
	require.NoError(t, err)

	stranger, err := crypto.GenerateKeypair(crypto.SystemRNG)
	require.NoError(t, err)
	_, err = NewCounterparty(p.ledger, stranger, nil).Complete(context.Background(), out)
	require.ErrorIs(t, err, ErrNotASigner)
	require.Empty(t, p.ledger.submitted)
}

func TestCompleteRejectsTamperedDraft(t *testing.T) {
	partitiontest.PartitionTest(t)

	p := setup(t)
	out, err := NewInitiator(p.ledger, nil).Start(context.Background(), p.request(), RecentBlockhash{})
	require.NoError(t, err)

	draft, err := transactions.DecodeBase64(out.Encoded)
	require.NoError(t, err)
	// bump the amount without the sender's consent
	draft.Message.Instructions[0].Data[1]++
	tampered, err := transactions.EncodeBase64(draft, transactions.SerializeConfig{})
	require.NoError(t, err)

	_, err = NewCounterparty(p.ledger, p.recipient, nil).Complete(context.Background(), Phase1Output{Encoded: tampered})
	require.ErrorIs(t, err, ErrInvalidDraftSignature)
	require.Empty(t, p.ledger.submitted)
}

func TestCompleteRejectsSecondSignature(t *testing.T) {
	partitiontest.PartitionTest(t)

	p := setup(t)
	ctx := context.Background()
	out, err := NewInitiator(p.ledger, nil).Start(ctx, p.request(), RecentBlockhash{})
	require.NoError(t, err)
	c := NewCounterparty(p.ledger, p.recipient, nil)
	receipt, err := c.Complete(ctx, out)
	require.NoError(t, err)

	again, err := transactions.EncodeBase64(receipt.Transaction, transactions.DefaultSerializeConfig)
	require.NoError(t, err)
	_, err = c.Complete(ctx, Phase1Output{Encoded: again})
	require.ErrorIs(t, err, ErrAlreadySigned)
	require.Len(t, p.ledger.submitted, 1)
}

func TestStartValidation(t *testing.T) {
	partitiontest.PartitionTest(t)

	p := setup(t)
	in := NewInitiator(p.ledger, nil)
	ctx := context.Background()

	for name, mutate := range map[string]func(*TransferRequest){
		"zero amount":   func(r *TransferRequest) { r.Amount = 0 },
		"no sender":     func(r *TransferRequest) { r.Sender = nil },
		"no fee payer":  func(r *TransferRequest) { r.FeePayer = basics.Address{} },
		"no mint":       func(r *TransferRequest) { r.Mint = basics.Address{} },
		"same accounts": func(r *TransferRequest) { r.DestinationAccount = r.SourceAccount },
	} {
		req := p.request()
		mutate(&req)
		_, err := in.Start(ctx, req, RecentBlockhash{})
		require.ErrorIs(t, err, ErrInvalidRequest, name)
	}
	require.Zero(t, p.ledger.blockhashReads)

	stranger := basics.Address{0xAB}
	_, err := in.Start(ctx, p.request(), DurableNonce{Account: basics.Address{0xDD, 2}, Authority: stranger})
	require.ErrorIs(t, err, ErrInvalidRequest)

	_, err = in.Start(ctx, p.request(), DurableNonce{Account: basics.Address{0xDD, 3}, Authority: basics.Address(p.sender.PublicKey)})
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestStartRejectsForeignNonceAuthorityByPointer(t *testing.T) {
	partitiontest.PartitionTest(t)

	p := setup(t)
	ctx := context.Background()
	in := NewInitiator(p.ledger, nil)

	// a nonce account that really is controlled by a third party resolves
	// cleanly, so only the authority check can refuse the draft
	stranger := basics.Address{0xAB}
	foreign := basics.Address{0xDD, 9}
	data, err := system.NonceAccount{
		State:     system.NonceInitialized,
		Authority: stranger,
		Nonce:     basics.Hash{0x43},
	}.MarshalBinary()
	require.NoError(t, err)
	p.ledger.accounts[foreign] = data

	_, err = in.Start(ctx, p.request(), &DurableNonce{Account: foreign, Authority: stranger})
	require.ErrorIs(t, err, ErrInvalidRequest)
	require.Contains(t, err.Error(), "neither sender nor fee payer")

	nonceAddr := p.addNonceAccount(t, basics.Hash{0x42})

	out, err := in.Start(ctx, p.request(), &DurableNonce{Account: nonceAddr, Authority: basics.Address(p.sender.PublicKey)})
	require.NoError(t, err)
	s, err := Inspect(out)
	require.NoError(t, err)
	require.Equal(t, &nonceAddr, s.NonceAccount)
}

func TestResolveTokenAccountsMissing(t *testing.T) {
	partitiontest.PartitionTest(t)

	p := setup(t)
	other, err := crypto.GenerateKeypair(crypto.SystemRNG)
	require.NoError(t, err)
	_, err = ResolveTokenAccounts(context.Background(), p.ledger, p.mint,
		basics.Address(p.sender.PublicKey), basics.Address(other.PublicKey))
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestInspect(t *testing.T) {
	partitiontest.PartitionTest(t)

	p := setup(t)
	nonceAddr := p.addNonceAccount(t, basics.Hash{7})
	req := p.request()
	req.Memo = "homework"
	out, err := NewInitiator(p.ledger, nil).Start(context.Background(), req,
		DurableNonce{Account: nonceAddr, Authority: basics.Address(p.sender.PublicKey)})
	require.NoError(t, err)

	s, err := Inspect(out)
	require.NoError(t, err)
	require.Equal(t, transactions.PartiallySigned.String(), s.State)
	require.Equal(t, basics.Address(p.recipient.PublicKey), s.FeePayer)
	require.Equal(t, &nonceAddr, s.NonceAccount)
	require.Equal(t, []SignerStatus{
		{Address: basics.Address(p.recipient.PublicKey), Signed: false},
		{Address: basics.Address(p.sender.PublicKey), Signed: true},
	}, s.Signers)
	require.Len(t, s.Instructions, 3)
	require.Equal(t, "advance-nonce", s.Instructions[0].Kind)
	require.Equal(t, "transfer-checked", s.Instructions[1].Kind)
	require.Contains(t, s.Instructions[1].Detail, "27.00")
	require.Equal(t, "memo", s.Instructions[2].Kind)
	require.Equal(t, "homework", s.Instructions[2].Detail)
}
