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

package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/solkit/solkit/crypto"
	"github.com/solkit/solkit/protocol"
)

// DefaultKeypairFile is where the ledger's own CLI keeps the default signer.
const DefaultKeypairFile = ".config/solana/id.json"

// ErrKeyNotInEnvironment is returned when the named variable is unset or empty.
var ErrKeyNotInEnvironment = errors.New("secret key not found in environment")

// ParseSecretKey accepts the two textual forms wallets export a 64-byte secret key
// in: a JSON array of byte values, or base 58.
func ParseSecretKey(text string) (*crypto.Keypair, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "[") {
		var values []int
		if err := protocol.DecodeJSON([]byte(text), &values); err != nil {
			return nil, fmt.Errorf("secret key is not a JSON byte array: %w", err)
		}
		secret := make([]byte, len(values))
		for i, v := range values {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("secret key byte %d out of range: %d", i, v)
			}
			secret[i] = byte(v)
		}
		return crypto.KeypairFromPrivateKey(secret)
	}
	kp, err := crypto.KeypairFromBase58(text)
	if err != nil {
		return nil, fmt.Errorf("secret key is neither a JSON byte array nor base 58: %w", err)
	}
	return kp, nil
}

// FormatSecretKey renders kp's secret key as the JSON byte array ParseSecretKey accepts.
func FormatSecretKey(kp *crypto.Keypair) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, b := range kp.PrivateKey {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%d", b)
	}
	sb.WriteByte(']')
	return sb.String()
}

// KeypairFromEnvironment loads the signer stored in environment variable name.
func KeypairFromEnvironment(name string) (*crypto.Keypair, error) {
	value, ok := os.LookupEnv(name)
	if !ok || strings.TrimSpace(value) == "" {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotInEnvironment, name)
	}
	kp, err := ParseSecretKey(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return kp, nil
}

// LoadKeypairFile reads a keypair file written by the ledger's CLI.
func LoadKeypairFile(path string) (*crypto.Keypair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	kp, err := ParseSecretKey(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return kp, nil
}

// SaveKeypairFile writes kp in the ledger CLI's keypair file format. It refuses
// to overwrite an existing file.
func SaveKeypairFile(path string, kp *crypto.Keypair) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(FormatSecretKey(kp))
	return err
}

// LoadDotEnv reads KEY=VALUE lines from path into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 4096), 1<<20)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("%s:%d: expected KEY=VALUE", path, lineno)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') && value[len(value)-1] == value[0] {
			value = value[1 : len(value)-1]
		}
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return scanner.Err()
}
