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
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/solkit/solkit/data/basics"
	"github.com/solkit/solkit/test/partitiontest"
)

type recordedCall struct {
	Method string
	Params []json.RawMessage
}

// fakeNode answers JSON-RPC calls from a table of canned results.
type fakeNode struct {
	mu      sync.Mutex
	calls   []recordedCall
	results map[string]string
	errors  map[string]string
}

func (f *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     json.RawMessage   `json:"id"`
		Method string            `json:"method"`
		Params []json.RawMessage `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	f.calls = append(f.calls, recordedCall{Method: req.Method, Params: req.Params})
	result, ok := f.results[req.Method]
	rpcErr := f.errors[req.Method]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if rpcErr != "" {
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"error":%s}`, req.ID, rpcErr)
		return
	}
	if !ok {
		http.Error(w, "no such method", http.StatusNotFound)
		return
	}
	fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"result":%s}`, req.ID, result)
}

func (f *fakeNode) lastCall() recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func newTestClient(t *testing.T, node *fakeNode) *Client {
	srv := httptest.NewServer(node)
	t.Cleanup(srv.Close)
	return MakeClient(srv.URL, CommitmentConfirmed, nil)
}

func testSignature(b byte) string {
	var sig solana.Signature
	sig[0] = b
	sig[63] = b
	return sig.String()
}

func testAddress(b byte) basics.Address {
	var a basics.Address
	a[0] = b
	a[31] = b
	return a
}

func TestGetBalance(t *testing.T) {
	partitiontest.PartitionTest(t)

	node := &fakeNode{results: map[string]string{
		"getBalance": `{"context":{"slot":12,"apiVersion":"1.18"},"value":1500000000}`,
	}}
	c := newTestClient(t, node)

	bal, err := c.GetBalance(context.Background(), testAddress(1))
	require.NoError(t, err)
	require.Equal(t, uint64(1500000000), bal)

	call := node.lastCall()
	require.Equal(t, "getBalance", call.Method)
	require.Len(t, call.Params, 2)
	require.JSONEq(t, fmt.Sprintf("%q", testAddress(1).String()), string(call.Params[0]))
	require.JSONEq(t, `{"commitment":"confirmed"}`, string(call.Params[1]))
}

func TestLatestBlockhash(t *testing.T) {
	partitiontest.PartitionTest(t)

	want := basics.Hash{9, 9, 9}
	node := &fakeNode{results: map[string]string{
		"getLatestBlockhash": fmt.Sprintf(`{"context":{"slot":1},"value":{"blockhash":%q,"lastValidBlockHeight":300}}`, want.String()),
	}}
	c := newTestClient(t, node)

	res, err := c.GetLatestBlockhash(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(300), res.LastValidBlockHeight)

	h, err := c.LatestBlockhash(context.Background())
	require.NoError(t, err)
	require.Equal(t, want, h)
}

func TestAccountData(t *testing.T) {
	partitiontest.PartitionTest(t)

	data := []byte{1, 2, 3, 4}
	node := &fakeNode{results: map[string]string{
		"getAccountInfo": fmt.Sprintf(`{"context":{"slot":1},"value":{"data":[%q,"base64"],"executable":false,"lamports":1461600,"owner":"11111111111111111111111111111111","rentEpoch":361,"space":4}}`,
			base64.StdEncoding.EncodeToString(data)),
	}}
	c := newTestClient(t, node)

	info, err := c.GetAccountInfo(context.Background(), testAddress(2))
	require.NoError(t, err)
	require.Equal(t, uint64(1461600), info.Lamports)
	require.Equal(t, uint64(4), info.Space)

	require.Equal(t, basics.Address{}, info.Owner)

	got, err := c.AccountData(context.Background(), testAddress(2))
	require.NoError(t, err)
	require.Equal(t, data, got)
	require.JSONEq(t, fmt.Sprintf("%q", testAddress(2).String()), string(node.lastCall().Params[0]))
	require.JSONEq(t, `{"commitment":"confirmed","encoding":"base64"}`, string(node.lastCall().Params[1]))
}

func TestAccountNotFound(t *testing.T) {
	partitiontest.PartitionTest(t)

	node := &fakeNode{results: map[string]string{
		"getAccountInfo": `{"context":{"slot":1},"value":null}`,
	}}
	c := newTestClient(t, node)

	_, err := c.AccountData(context.Background(), testAddress(3))
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestSendTransaction(t *testing.T) {
	partitiontest.PartitionTest(t)

	node := &fakeNode{results: map[string]string{
		"sendTransaction": fmt.Sprintf("%q", testSignature(5)),
	}}
	c := newTestClient(t, node)
	c.SetSendOptions(SendOptions{SkipPreflight: true})

	sig, err := c.SendRawTransaction(context.Background(), []byte{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, testSignature(5), sig)

	call := node.lastCall()
	require.JSONEq(t, `"AQID"`, string(call.Params[0]))
	require.JSONEq(t, `{"encoding":"base64","skipPreflight":true,"preflightCommitment":"confirmed"}`, string(call.Params[1]))
}

func TestRPCErrorIsReturnedVerbatim(t *testing.T) {
	partitiontest.PartitionTest(t)

	node := &fakeNode{errors: map[string]string{
		"sendTransaction": `{"code":-32002,"message":"Transaction simulation failed: Blockhash not found","data":{"err":"BlockhashNotFound"}}`,
	}}
	c := newTestClient(t, node)

	_, err := c.SendTransaction(context.Background(), []byte{1}, SendOptions{})
	var rpcErr *RPCError
	require.True(t, errors.As(err, &rpcErr))
	require.Equal(t, int64(-32002), rpcErr.Code)
	require.Equal(t, "rpc error -32002: Transaction simulation failed: Blockhash not found", rpcErr.Error())
	require.Empty(t, rpcErr.Logs())
}

func TestRPCErrorLogs(t *testing.T) {
	partitiontest.PartitionTest(t)

	node := &fakeNode{errors: map[string]string{
		"sendTransaction": `{"code":-32002,"message":"Transaction simulation failed: Error processing Instruction 0: custom program error: 0x1","data":{"accounts":null,"err":{"InstructionError":[0,{"Custom":1}]},"logs":["Program TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA invoke [1]","Program log: Error: insufficient funds\u0007"],"unitsConsumed":4361}}`,
	}}
	c := newTestClient(t, node)

	_, err := c.SendTransaction(context.Background(), []byte{1}, SendOptions{})
	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	require.Equal(t, []string{
		"Program TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA invoke [1]",
		"Program log: Error: insufficient funds",
	}, rpcErr.Logs())
}

func TestHTTPError(t *testing.T) {
	partitiontest.PartitionTest(t)

	c := newTestClient(t, &fakeNode{})
	_, err := c.GetMinimumBalanceForRentExemption(context.Background(), 82)
	var httpErr HTTPError
	require.True(t, errors.As(err, &httpErr))
	require.Equal(t, http.StatusNotFound, httpErr.StatusCode)
}

func TestSignatureStatuses(t *testing.T) {
	partitiontest.PartitionTest(t)

	node := &fakeNode{results: map[string]string{
		"getSignatureStatuses":              `{"context":{"slot":82},"value":[{"slot":72,"confirmations":10,"err":null,"status":{"Ok":null},"confirmationStatus":"confirmed"},null,{"slot":48,"confirmations":null,"err":{"InstructionError":[0,"Custom"]},"confirmationStatus":"finalized"}]}`,
		"requestAirdrop":                    fmt.Sprintf("%q", testSignature(9)),
		"getMinimumBalanceForRentExemption": `1461600`,
	}}
	c := newTestClient(t, node)

	a, b, cc := testSignature(1), testSignature(2), testSignature(3)
	st, err := c.GetSignatureStatuses(context.Background(), a, b, cc)
	require.NoError(t, err)
	require.Len(t, st, 3)
	require.Equal(t, CommitmentConfirmed, st[0].ConfirmationStatus)
	require.Equal(t, uint64(10), *st[0].Confirmations)
	require.Nil(t, st[0].Err)
	require.Nil(t, st[1])
	require.Nil(t, st[2].Confirmations)
	require.NotNil(t, st[2].Err)
	require.JSONEq(t, fmt.Sprintf("[%q,%q,%q]", a, b, cc), string(node.lastCall().Params[0]))
	require.JSONEq(t, `{"searchTransactionHistory":true}`, string(node.lastCall().Params[1]))

	_, err = c.GetSignatureStatuses(context.Background(), "not-a-signature")
	require.Error(t, err)

	sig, err := c.RequestAirdrop(context.Background(), testAddress(1), 1000000000)
	require.NoError(t, err)
	require.Equal(t, testSignature(9), sig)

	rent, err := c.GetMinimumBalanceForRentExemption(context.Background(), 80)
	require.NoError(t, err)
	require.Equal(t, uint64(1461600), rent)
}
