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
	"github.com/solkit/solkit/data/programs/metadata"
)

// UpdateTokenMetadata rewrites the name, symbol and document link of mint.
// The update authority keeps its role and the metadata stays mutable.
func (c *Client) UpdateTokenMetadata(ctx context.Context, payer, updateAuthority *crypto.Keypair, mint basics.Address, data metadata.Data) (string, error) {
	authority := basics.Address(updateAuthority.PublicKey)
	mutable := true
	instr, err := metadata.UpdateMetadataAccountV2(mint, authority, metadata.UpdateArgs{
		Data:            &data,
		UpdateAuthority: &authority,
		IsMutable:       &mutable,
	})
	if err != nil {
		return "", err
	}
	var signers []*crypto.Keypair
	if authority != basics.Address(payer.PublicKey) {
		signers = append(signers, updateAuthority)
	}
	sig, err := c.BuildAndSend(ctx, payer, signers, instr)
	if err != nil {
		return sig, err
	}
	c.log.With("mint", mint.String()).Infof("updated token metadata to %q (%s)", data.Name, data.Symbol)
	return sig, nil
}
