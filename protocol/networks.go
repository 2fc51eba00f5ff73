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

package protocol

import "fmt"

// ClusterID is a unique identifier for a ledger cluster
type ClusterID string

const (
	// Devnet identifies the public development cluster
	Devnet ClusterID = "devnet"
	// Testnet identifies the public test cluster
	Testnet ClusterID = "testnet"
	// MainnetBeta identifies the production cluster
	MainnetBeta ClusterID = "mainnet-beta"
	// Localnet identifies a local test validator
	Localnet ClusterID = "localnet"
)

var clusterURLs = map[ClusterID]string{
	Devnet:      "https://api.devnet.solana.com",
	Testnet:     "https://api.testnet.solana.com",
	MainnetBeta: "https://api.mainnet-beta.solana.com",
	Localnet:    "http://127.0.0.1:8899",
}

// ClusterAPIURL returns the public JSON-RPC endpoint of a cluster.
func ClusterAPIURL(id ClusterID) (string, error) {
	u, ok := clusterURLs[id]
	if !ok {
		return "", fmt.Errorf("unknown cluster %q", id)
	}
	return u, nil
}

// Valid reports whether id names a known cluster.
func (id ClusterID) Valid() bool {
	_, ok := clusterURLs[id]
	return ok
}
