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

// Package libsol is the client library behind the solkit command: one Client
// wrapping the ledger RPC endpoint with the account, token and nonce
// operations the command exposes.
package libsol

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/go-querystring/query"

	"github.com/solkit/solkit/config"
	"github.com/solkit/solkit/crypto"
	"github.com/solkit/solkit/data/basics"
	"github.com/solkit/solkit/logging"
	"github.com/solkit/solkit/protocol"
	"github.com/solkit/solkit/rpcs"
)

const (
	defaultPollInterval   = 500 * time.Millisecond
	defaultConfirmTimeout = 60 * time.Second
)

var (
	// ErrAirdropUnavailable is returned when asking mainnet for an airdrop.
	ErrAirdropUnavailable = errors.New("airdrops are only available on test clusters")
	// ErrUnknownExplorerKind is returned by ExplorerLink for unsupported kinds.
	ErrUnknownExplorerKind = errors.New("unknown explorer link kind")
)

// Client represents the entry point for all libsol functions
type Client struct {
	rpc     *rpcs.Client
	log     logging.Logger
	cluster protocol.ClusterID
	rng     crypto.RNG

	explorerURL    string
	pollInterval   time.Duration
	confirmTimeout time.Duration
}

// MakeClient creates a Client for the endpoint and cluster named by cfg.
func MakeClient(cfg config.Local, log logging.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	endpoint, err := cfg.ResolveRPCEndpoint()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.Base()
	}
	rpc := rpcs.MakeClient(endpoint, cfg.Commitment, log)
	rpc.SetSendOptions(rpcs.SendOptions{SkipPreflight: cfg.SkipPreflight})
	c := MakeClientFromRPC(rpc, protocol.ClusterID(cfg.Cluster), log)
	c.explorerURL = cfg.ExplorerURL
	if cfg.ConfirmTimeoutSeconds > 0 {
		c.confirmTimeout = time.Duration(cfg.ConfirmTimeoutSeconds) * time.Second
	}
	return c, nil
}

// MakeClientFromRPC wraps an existing RPC client.
func MakeClientFromRPC(rpc *rpcs.Client, cluster protocol.ClusterID, log logging.Logger) *Client {
	if log == nil {
		log = logging.Base()
	}
	return &Client{
		rpc:            rpc,
		log:            log,
		cluster:        cluster,
		rng:            crypto.SystemRNG,
		explorerURL:    config.GetDefaultLocal().ExplorerURL,
		pollInterval:   defaultPollInterval,
		confirmTimeout: defaultConfirmTimeout,
	}
}

// RPC returns the underlying RPC client. It satisfies cosign.Ledger.
func (c *Client) RPC() *rpcs.Client {
	return c.rpc
}

// Cluster returns the cluster the client talks to.
func (c *Client) Cluster() protocol.ClusterID {
	return c.cluster
}

// SetPollInterval changes how often confirmation status is polled.
func (c *Client) SetPollInterval(d time.Duration) {
	c.pollInterval = d
}

// SetRNG changes the randomness used for new account keypairs.
func (c *Client) SetRNG(rng crypto.RNG) {
	c.rng = rng
}

// Balance returns the lamport balance of addr.
func (c *Client) Balance(ctx context.Context, addr basics.Address) (uint64, error) {
	return c.rpc.GetBalance(ctx, addr)
}

// AirdropIfRequired requests amount lamports for addr when its balance is below
// minimum. It returns the airdrop signature, or "" when no airdrop was needed.
func (c *Client) AirdropIfRequired(ctx context.Context, addr basics.Address, amount, minimum uint64) (string, error) {
	if c.cluster == protocol.MainnetBeta {
		return "", ErrAirdropUnavailable
	}
	balance, err := c.rpc.GetBalance(ctx, addr)
	if err != nil {
		return "", err
	}
	if balance >= minimum {
		return "", nil
	}
	sig, err := c.rpc.RequestAirdrop(ctx, addr, amount)
	if err != nil {
		return "", err
	}
	c.log.With("address", addr.String()).Infof("requested airdrop of %s SOL", basics.FormatAmount(amount, basics.NativeDecimals))
	if err := c.WaitForConfirmation(ctx, sig); err != nil {
		return sig, err
	}
	return sig, nil
}

type explorerQuery struct {
	Cluster   string `url:"cluster,omitempty"`
	CustomURL string `url:"customUrl,omitempty"`
}

// ExplorerLink builds a block explorer URL for a "transaction", "address" or
// "block" on the client's cluster.
func (c *Client) ExplorerLink(kind, id string) (string, error) {
	return ExplorerLink(c.explorerURL, kind, id, c.cluster, c.rpc.URL())
}

// ExplorerLink builds a block explorer URL under base. Localnet links point the
// explorer at rpcURL.
func ExplorerLink(base, kind, id string, cluster protocol.ClusterID, rpcURL string) (string, error) {
	var segment string
	switch kind {
	case "transaction", "tx":
		segment = "tx"
	case "address", "block":
		segment = kind
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownExplorerKind, kind)
	}

	var q explorerQuery
	switch cluster {
	case protocol.MainnetBeta:
	case protocol.Localnet:
		q.Cluster = "custom"
		q.CustomURL = rpcURL
	default:
		q.Cluster = string(cluster)
	}
	values, err := query.Values(q)
	if err != nil {
		return "", err
	}
	link := fmt.Sprintf("%s/%s/%s", base, segment, id)
	if encoded := values.Encode(); encoded != "" {
		link += "?" + encoded
	}
	return link, nil
}
