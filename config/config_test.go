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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solkit/solkit/crypto"
	"github.com/solkit/solkit/test/partitiontest"
)

func TestSaveThenLoad(t *testing.T) {
	partitiontest.PartitionTest(t)

	dir := t.TempDir()
	c1 := GetDefaultLocal()
	c1.Cluster = "testnet"
	c1.SkipPreflight = true
	require.NoError(t, c1.SaveToDisk(dir))

	c2, err := LoadConfigFromDisk(dir)
	require.NoError(t, err)
	require.Equal(t, c1, c2)
}

func TestLoadMissing(t *testing.T) {
	partitiontest.PartitionTest(t)

	c, err := LoadConfigFromDisk(filepath.Join(t.TempDir(), "nope"))
	require.True(t, os.IsNotExist(err))
	require.Equal(t, GetDefaultLocal(), c)
}

func TestMergeConfig(t *testing.T) {
	partitiontest.PartitionTest(t)

	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, ConfigFilename), []byte(`{"RPCEndpoint": "http://node:8899", "LogJSON": true}`), 0600)
	require.NoError(t, err)

	c, err := LoadConfigFromDisk(dir)
	require.NoError(t, err)
	require.Equal(t, "http://node:8899", c.RPCEndpoint)
	require.True(t, c.LogJSON)
	require.Equal(t, defaultLocal.Commitment, c.Commitment)
	require.Equal(t, defaultLocal.Cluster, c.Cluster)

	url, err := c.ResolveRPCEndpoint()
	require.NoError(t, err)
	require.Equal(t, "http://node:8899", url)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	partitiontest.PartitionTest(t)

	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, ConfigFilename), []byte(`{"GossipFanout": 4}`), 0600)
	require.NoError(t, err)

	_, err = LoadConfigFromDisk(dir)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	partitiontest.PartitionTest(t)

	c := GetDefaultLocal()
	require.NoError(t, c.Validate())
	url, err := c.ResolveRPCEndpoint()
	require.NoError(t, err)
	require.Equal(t, "https://api.devnet.solana.com", url)

	c.Cluster = "moonnet"
	require.Error(t, c.Validate())
	c.RPCEndpoint = "http://localhost:8899"
	require.NoError(t, c.Validate())

	c.Commitment = "eventually"
	require.Error(t, c.Validate())

	c = GetDefaultLocal()
	c.LogLevel = "chatty"
	require.Error(t, c.Validate())
}

func TestParseSecretKey(t *testing.T) {
	partitiontest.PartitionTest(t)

	kp, err := crypto.GenerateKeypair(crypto.SystemRNG)
	require.NoError(t, err)

	fromJSON, err := ParseSecretKey(FormatSecretKey(kp))
	require.NoError(t, err)
	require.Equal(t, kp, fromJSON)

	fromBase58, err := ParseSecretKey("  " + kp.PrivateKeyBase58() + "\n")
	require.NoError(t, err)
	require.Equal(t, kp, fromBase58)

	_, err = ParseSecretKey("[1,2,3]")
	require.Error(t, err)
	_, err = ParseSecretKey("[" + strings.Repeat("256,", 63) + "256]")
	require.Error(t, err)
	_, err = ParseSecretKey("0OIl")
	require.Error(t, err)
}

func TestKeypairFromEnvironment(t *testing.T) {
	partitiontest.PartitionTest(t)

	kp, err := crypto.GenerateKeypair(crypto.SystemRNG)
	require.NoError(t, err)

	t.Setenv("SOLKIT_TEST_SECRET", FormatSecretKey(kp))
	got, err := KeypairFromEnvironment("SOLKIT_TEST_SECRET")
	require.NoError(t, err)
	require.Equal(t, kp.PublicKey, got.PublicKey)

	t.Setenv("SOLKIT_TEST_EMPTY", "")
	_, err = KeypairFromEnvironment("SOLKIT_TEST_EMPTY")
	require.ErrorIs(t, err, ErrKeyNotInEnvironment)
}

func TestLoadDotEnv(t *testing.T) {
	partitiontest.PartitionTest(t)

	path := filepath.Join(t.TempDir(), ".env")
	content := strings.Join([]string{
		"# signer for the homework scripts",
		"SOLKIT_DOTENV_A=plain",
		`export SOLKIT_DOTENV_B="quoted value"`,
		"SOLKIT_DOTENV_C='single'",
		"SOLKIT_DOTENV_KEEP=fromfile",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	t.Setenv("SOLKIT_DOTENV_KEEP", "fromenv")
	for _, k := range []string{"SOLKIT_DOTENV_A", "SOLKIT_DOTENV_B", "SOLKIT_DOTENV_C"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	require.NoError(t, LoadDotEnv(path))
	require.Equal(t, "plain", os.Getenv("SOLKIT_DOTENV_A"))
	require.Equal(t, "quoted value", os.Getenv("SOLKIT_DOTENV_B"))
	require.Equal(t, "single", os.Getenv("SOLKIT_DOTENV_C"))
	require.Equal(t, "fromenv", os.Getenv("SOLKIT_DOTENV_KEEP"))

	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	bad := filepath.Join(t.TempDir(), "bad.env")
	require.NoError(t, os.WriteFile(bad, []byte("NOEQUALS\n"), 0600))
	require.Error(t, LoadDotEnv(bad))
}

func TestKeypairFile(t *testing.T) {
	partitiontest.PartitionTest(t)

	kp, err := crypto.GenerateKeypair(crypto.SystemRNG)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "keys", "id.json")
	require.NoError(t, SaveKeypairFile(path, kp))
	require.Error(t, SaveKeypairFile(path, kp))

	got, err := LoadKeypairFile(path)
	require.NoError(t, err)
	require.Equal(t, kp, got)
}

func TestFormatVersion(t *testing.T) {
	partitiontest.PartitionTest(t)

	require.Contains(t, FormatVersionAndLicense(), GetCurrentVersion().String())
}
