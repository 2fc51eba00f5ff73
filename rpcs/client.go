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

// Package rpcs is a client for the ledger's JSON-RPC interface.
package rpcs

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"

	"github.com/solkit/solkit/logging"
	"github.com/solkit/solkit/protocol"
)

// ErrAccountNotFound is returned when the ledger has no account at the requested address.
var ErrAccountNotFound = errors.New("account not found")

// HTTPError is generated when we receive an unhandled error from the server. This error contains the error string.
type HTTPError struct {
	StatusCode  int
	Status      string
	ErrorString string
}

// Error formats an error string.
func (e HTTPError) Error() string {
	return fmt.Sprintf("HTTP %s: %s", e.Status, e.ErrorString)
}

// RPCError is the error object of a JSON-RPC response. Submission failures such
// as an expired blockhash or insufficient funds arrive this way.
type RPCError struct {
	Code    int64       `codec:"code"`
	Message string      `codec:"message"`
	Data    interface{} `codec:"data"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, filterASCII(e.Message))
}

// Logs returns the program log lines a failed preflight simulation attached to
// the error, if any.
func (e *RPCError) Logs() []string {
	if e.Data == nil {
		return nil
	}
	raw, err := protocol.EncodeJSONCompact(e.Data)
	if err != nil {
		return nil
	}
	var sim struct {
		Logs []string `codec:"logs"`
	}
	if protocol.DecodeJSONLenient(raw, &sim) != nil {
		return nil
	}
	logs := make([]string, 0, len(sim.Logs))
	for _, line := range sim.Logs {
		logs = append(logs, filterASCII(line))
	}
	return logs
}

// Client manages the JSON-RPC interface of one ledger endpoint.
type Client struct {
	serverURL  string
	commitment string
	rpc        *rpc.Client
	sendOpts   SendOptions
	log        logging.Logger
}

// MakeClient is the factory for constructing a Client for a given endpoint.
// Queries are made at the given commitment level.
func MakeClient(serverURL, commitment string, log logging.Logger) *Client {
	if log == nil {
		log = logging.Base()
	}
	return &Client{
		serverURL:  serverURL,
		commitment: commitment,
		rpc:        rpc.New(serverURL),
		log:        log,
	}
}

// SetSendOptions changes the options SendRawTransaction submits with.
func (c *Client) SetSendOptions(opts SendOptions) {
	c.sendOpts = opts
}

// URL returns the endpoint the client talks to.
func (c *Client) URL() string {
	return c.serverURL
}

// filterASCII filter out the non-ascii printable characters out of the given input string.
// It's used as a security qualifier before adding network provided data into an error message.
func filterASCII(unfilteredString string) (filteredString string) {
	for i, r := range unfilteredString {
		if int(r) >= 0x20 && int(r) <= 0x7e {
			filteredString += string(unfilteredString[i])
		}
	}
	return
}

// extractError converts the transport's error types into ours.
func extractError(method string, err error) error {
	if err == nil {
		return nil
	}
	var rpcErr *jsonrpc.RPCError
	if errors.As(err, &rpcErr) {
		return &RPCError{Code: int64(rpcErr.Code), Message: rpcErr.Message, Data: rpcErr.Data}
	}
	var httpErr *jsonrpc.HTTPError
	if errors.As(err, &httpErr) {
		return HTTPError{
			StatusCode:  httpErr.Code,
			Status:      fmt.Sprintf("%d %s", httpErr.Code, http.StatusText(httpErr.Code)),
			ErrorString: filterASCII(httpErr.Error()),
		}
	}
	return fmt.Errorf("%s: %w", method, err)
}

// Commitment returns the commitment level queries are made at.
func (c *Client) Commitment() string {
	return c.commitment
}

func (c *Client) commitmentType() rpc.CommitmentType {
	return rpc.CommitmentType(c.commitment)
}
