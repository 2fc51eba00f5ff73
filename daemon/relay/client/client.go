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

// Package client talks to a relay server.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/solkit/solkit/cosign"
	"github.com/solkit/solkit/daemon/relay"
	"github.com/solkit/solkit/protocol"
)

const maxRawResponseBytes = 1 << 20

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

// RelayClient manages the REST interface of one relay.
type RelayClient struct {
	serverURL  url.URL
	httpClient *http.Client
}

// MakeRelayClient is the factory for constructing a RelayClient for a given endpoint.
func MakeRelayClient(serverURL url.URL) RelayClient {
	return RelayClient{serverURL: serverURL, httpClient: &http.Client{Timeout: 30 * time.Second}}
}

func extractError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	errorBuf, _ := io.ReadAll(io.LimitReader(resp.Body, 4096)) // ignore returned error
	var errorJSON relay.ErrorResponse
	errorString := string(errorBuf)
	if protocol.DecodeJSONLenient(errorBuf, &errorJSON) == nil && errorJSON.Message != "" {
		errorString = errorJSON.Message
	}
	herr := HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, ErrorString: errorString}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %w", relay.ErrNotFound, herr)
	}
	return herr
}

// submit performs one request and decodes a JSON response into response when it is not nil.
func (client RelayClient) submit(ctx context.Context, response interface{}, method, p string, body interface{}) error {
	queryURL := client.serverURL
	queryURL.Path = path.Join(queryURL.Path, p)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(protocol.EncodeJSON(body))
	}
	req, err := http.NewRequestWithContext(ctx, method, queryURL.String(), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.httpClient.Do(req)
	if err != nil {
		return err
	}
	// Ensure response isn't too large
	resp.Body = http.MaxBytesReader(nil, resp.Body, maxRawResponseBytes)
	defer resp.Body.Close()

	if err := extractError(resp); err != nil {
		return err
	}
	if response == nil {
		return nil
	}
	return protocol.NewLenientJSONDecoder(resp.Body).Decode(response)
}

// Post hands a draft to the relay and returns its id.
func (client RelayClient) Post(ctx context.Context, out cosign.Phase1Output) (string, error) {
	var resp relay.PostResponse
	if err := client.submit(ctx, &resp, http.MethodPost, relay.PartialsPath, out); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// Fetch returns the draft stored under id.
func (client RelayClient) Fetch(ctx context.Context, id string) (cosign.Phase1Output, error) {
	var out cosign.Phase1Output
	err := client.submit(ctx, &out, http.MethodGet, path.Join(relay.PartialsPath, url.PathEscape(id)), nil)
	return out, err
}

// Delete removes the draft stored under id.
func (client RelayClient) Delete(ctx context.Context, id string) error {
	return client.submit(ctx, nil, http.MethodDelete, path.Join(relay.PartialsPath, url.PathEscape(id)), nil)
}
