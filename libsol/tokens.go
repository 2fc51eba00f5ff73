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
	"errors"

	"github.com/solkit/solkit/crypto"
	"github.com/solkit/solkit/data/basics"
	"github.com/solkit/solkit/data/programs/system"
	"github.com/solkit/solkit/data/programs/token"
	"github.com/solkit/solkit/rpcs"
)

// newAccount generates the keypair for a fresh account and fetches the lamports
// it needs to be rent exempt at size bytes.
func (c *Client) newAccount(ctx context.Context, size uint64) (*crypto.Keypair, uint64, error) {
	kp, err := crypto.GenerateKeypair(c.rng)
	if err != nil {
		return nil, 0, err
	}
	rent, err := c.rpc.GetMinimumBalanceForRentExemption(ctx, size)
	if err != nil {
		return nil, 0, err
	}
	return kp, rent, nil
}

// CreateMint creates and initializes a new mint paid for by payer. It returns
// the mint address and the transaction signature.
func (c *Client) CreateMint(ctx context.Context, payer *crypto.Keypair, mintAuthority basics.Address, freezeAuthority *basics.Address, decimals uint8) (basics.Address, string, error) {
	mint, rent, err := c.newAccount(ctx, token.MintLength)
	if err != nil {
		return basics.Address{}, "", err
	}
	mintAddr := basics.Address(mint.PublicKey)
	sig, err := c.BuildAndSend(ctx, payer, []*crypto.Keypair{mint},
		system.CreateAccount(basics.Address(payer.PublicKey), mintAddr, rent, token.MintLength, token.ProgramID),
		token.InitializeMint2(mintAddr, decimals, mintAuthority, freezeAuthority),
	)
	if err != nil {
		return basics.Address{}, sig, err
	}
	c.log.With("mint", mintAddr.String()).Infof("created mint with %d decimals", decimals)
	return mintAddr, sig, nil
}

// GetOrCreateAssociatedTokenAccount returns owner's associated token account
// for mint, creating it first when the ledger does not have it.
func (c *Client) GetOrCreateAssociatedTokenAccount(ctx context.Context, payer *crypto.Keypair, mint, owner basics.Address) (basics.Address, error) {
	ata, err := token.AssociatedTokenAddress(owner, mint)
	if err != nil {
		return basics.Address{}, err
	}
	_, err = c.rpc.GetAccountInfo(ctx, ata)
	if err == nil {
		return ata, nil
	}
	if !errors.Is(err, rpcs.ErrAccountNotFound) {
		return basics.Address{}, err
	}

	instr, _, err := token.CreateAssociatedTokenAccountIdempotent(basics.Address(payer.PublicKey), owner, mint)
	if err != nil {
		return basics.Address{}, err
	}
	if _, err := c.BuildAndSend(ctx, payer, nil, instr); err != nil {
		return basics.Address{}, err
	}
	c.log.With("owner", owner.String()).Infof("created token account %s", ata)
	return ata, nil
}

// MintTo mints amount minor units of mint into destination, signed by a single
// mint authority.
func (c *Client) MintTo(ctx context.Context, payer *crypto.Keypair, mint, destination basics.Address, authority *crypto.Keypair, amount uint64) (string, error) {
	return c.BuildAndSend(ctx, payer, []*crypto.Keypair{authority},
		token.MintTo(mint, destination, basics.Address(authority.PublicKey), amount))
}

// MintToMultisig mints amount minor units of mint into destination where the
// mint authority is a multisig account and signers are enough of its members.
func (c *Client) MintToMultisig(ctx context.Context, payer *crypto.Keypair, mint, destination, multisig basics.Address, amount uint64, signers ...*crypto.Keypair) (string, error) {
	addrs := make([]basics.Address, len(signers))
	for i, s := range signers {
		addrs[i] = basics.Address(s.PublicKey)
	}
	return c.BuildAndSend(ctx, payer, signers, token.MintTo(mint, destination, multisig, amount, addrs...))
}

// CreateMultisig creates an m-of-n multisig account over signers. It returns the
// multisig address and the transaction signature.
func (c *Client) CreateMultisig(ctx context.Context, payer *crypto.Keypair, signers []basics.Address, m uint8) (basics.Address, string, error) {
	ms, rent, err := c.newAccount(ctx, token.MultisigLength)
	if err != nil {
		return basics.Address{}, "", err
	}
	msAddr := basics.Address(ms.PublicKey)
	instr, err := token.InitializeMultisig2(msAddr, signers, m)
	if err != nil {
		return basics.Address{}, "", err
	}
	sig, err := c.BuildAndSend(ctx, payer, []*crypto.Keypair{ms},
		system.CreateAccount(basics.Address(payer.PublicKey), msAddr, rent, token.MultisigLength, token.ProgramID),
		instr,
	)
	if err != nil {
		return basics.Address{}, sig, err
	}
	c.log.With("multisig", msAddr.String()).Infof("created %d-of-%d multisig", m, len(signers))
	return msAddr, sig, nil
}
