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

	"golang.org/x/sync/errgroup"

	"github.com/solkit/solkit/data/basics"
	"github.com/solkit/solkit/data/programs/token"
)

// TokenAccounts are the associated token accounts of both sides of a transfer.
type TokenAccounts struct {
	Source      basics.Address
	Destination basics.Address
}

// ResolveTokenAccounts derives the sender's and recipient's associated token
// accounts for mint and checks, concurrently, that both exist and hold mint.
func ResolveTokenAccounts(ctx context.Context, ledger Ledger, mint, sender, recipient basics.Address) (TokenAccounts, error) {
	var accts TokenAccounts
	var err error
	if accts.Source, err = token.AssociatedTokenAddress(sender, mint); err != nil {
		return TokenAccounts{}, err
	}
	if accts.Destination, err = token.AssociatedTokenAddress(recipient, mint); err != nil {
		return TokenAccounts{}, err
	}

	g, gctx := errgroup.WithContext(ctx)
	check := func(addr, owner basics.Address) func() error {
		return func() error {
			data, err := ledger.AccountData(gctx, addr)
			if err != nil {
				return fmt.Errorf("token account %s of %s: %w", addr, owner, err)
			}
			acct, err := token.DecodeAccount(data)
			if err != nil {
				return fmt.Errorf("token account %s: %w", addr, err)
			}
			if acct.Mint != mint || acct.Owner != owner {
				return fmt.Errorf("%w: token account %s holds mint %s for %s", ErrInvalidRequest, addr, acct.Mint, acct.Owner)
			}
			return nil
		}
	}
	g.Go(check(accts.Source, sender))
	g.Go(check(accts.Destination, recipient))
	if err := g.Wait(); err != nil {
		return TokenAccounts{}, err
	}
	return accts, nil
}
