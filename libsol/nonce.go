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

	"github.com/solkit/solkit/crypto"
	"github.com/solkit/solkit/data/basics"
	"github.com/solkit/solkit/data/programs/system"
)

// CreateNonceAccount creates a durable nonce account controlled by authority.
// When nonce is nil a fresh keypair is generated; the account address is
// returned with the transaction signature.
func (c *Client) CreateNonceAccount(ctx context.Context, payer *crypto.Keypair, authority basics.Address, nonce *crypto.Keypair) (basics.Address, string, error) {
	rent, err := c.rpc.GetMinimumBalanceForRentExemption(ctx, system.NonceAccountLength)
	if err != nil {
		return basics.Address{}, "", err
	}
	if nonce == nil {
		if nonce, err = crypto.GenerateKeypair(c.rng); err != nil {
			return basics.Address{}, "", err
		}
	}
	nonceAddr := basics.Address(nonce.PublicKey)
	sig, err := c.BuildAndSend(ctx, payer, []*crypto.Keypair{nonce},
		system.CreateAccount(basics.Address(payer.PublicKey), nonceAddr, rent, system.NonceAccountLength, system.ProgramID),
		system.InitializeNonceAccount(nonceAddr, authority),
	)
	if err != nil {
		return basics.Address{}, sig, err
	}
	c.log.With("nonce", nonceAddr.String()).Infof("created nonce account with authority %s", authority)
	return nonceAddr, sig, nil
}

// NonceValue reads the durable nonce account at addr.
func (c *Client) NonceValue(ctx context.Context, addr basics.Address) (*system.NonceAccount, error) {
	data, err := c.rpc.AccountData(ctx, addr)
	if err != nil {
		return nil, err
	}
	return system.DecodeNonceAccount(data)
}
