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
	"errors"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"

	"github.com/solkit/solkit/logging"
	"github.com/solkit/solkit/protocol"
)

// ConfigFilename is the name of the config.json file where we store per-user settings
const ConfigFilename = "config.json"

// configVersion is written into every saved file so later releases can migrate it.
const configVersion = 1

// Local holds the per-user settings of the command line tools.
type Local struct {
	// Version tracks the layout of the file on disk.
	Version uint32

	// Cluster selects the public RPC endpoint when RPCEndpoint is empty.
	Cluster string
	// RPCEndpoint overrides the cluster endpoint, e.g. for a private node.
	RPCEndpoint string
	// Commitment is the confirmation level queries and confirmations wait for.
	Commitment string
	// SkipPreflight submits transactions without simulating them first.
	SkipPreflight bool
	// ConfirmTimeoutSeconds bounds how long a submission is polled for confirmation.
	ConfirmTimeoutSeconds uint64

	LogLevel string
	LogJSON  bool

	// ExplorerURL is the base of the links printed after each submission.
	ExplorerURL string

	// RelayAddress is the listen address of the partial transaction relay.
	RelayAddress string
	// RelayTTLSeconds is how long the relay keeps an unclaimed partial transaction.
	RelayTTLSeconds uint64
	// EnableDeadlockDetection turns on lock-order checking in the relay.
	EnableDeadlockDetection bool
}

var defaultLocal = Local{
	Version:               configVersion,
	Cluster:               string(protocol.Devnet),
	Commitment:            "confirmed",
	ConfirmTimeoutSeconds: 60,
	LogLevel:              "info",
	ExplorerURL:           "https://explorer.solana.com",
	RelayAddress:          "127.0.0.1:8180",
	RelayTTLSeconds:       600,
}

var validCommitments = map[string]bool{
	"processed": true,
	"confirmed": true,
	"finalized": true,
}

// GetDefaultLocal returns a copy of the current defaultLocal config
func GetDefaultLocal() Local {
	return defaultLocal
}

// LoadConfigFromDisk returns a Local config structure based on merging the defaults
// with settings loaded from the config file from the custom dir.  If the custom file
// cannot be loaded, the default config is returned (with the error from loading the
// custom file).
func LoadConfigFromDisk(custom string) (c Local, err error) {
	return mergeConfigFromFile(filepath.Join(custom, ConfigFilename), defaultLocal)
}

func mergeConfigFromFile(configpath string, source Local) (Local, error) {
	f, err := os.Open(configpath)
	if err != nil {
		return source, err
	}
	defer f.Close()

	err = loadConfig(f, &source)
	return source, err
}

func loadConfig(reader io.Reader, config *Local) error {
	dec := protocol.NewJSONDecoder(reader)
	if err := dec.Decode(config); err != nil {
		return fmt.Errorf("decoding %s: %w", ConfigFilename, err)
	}
	return nil
}

// Validate checks the settings that would otherwise only fail on first use.
func (cfg Local) Validate() error {
	if cfg.RPCEndpoint == "" && !protocol.ClusterID(cfg.Cluster).Valid() {
		return fmt.Errorf("unknown cluster %q and no RPC endpoint configured", cfg.Cluster)
	}
	if !validCommitments[cfg.Commitment] {
		return fmt.Errorf("unknown commitment level %q", cfg.Commitment)
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return err
	}
	return nil
}

// ResolveRPCEndpoint returns the JSON-RPC URL the tools talk to.
func (cfg Local) ResolveRPCEndpoint() (string, error) {
	if cfg.RPCEndpoint != "" {
		return cfg.RPCEndpoint, nil
	}
	return protocol.ClusterAPIURL(protocol.ClusterID(cfg.Cluster))
}

// SaveToDisk writes the Local settings into a root/ConfigFilename file
func (cfg Local) SaveToDisk(root string) error {
	configpath := filepath.Join(root, ConfigFilename)
	filename := os.ExpandEnv(configpath)
	return cfg.SaveToFile(filename)
}

// SaveToFile saves the config to a specific filename, allowing overriding the default name
func (cfg Local) SaveToFile(filename string) error {
	cfg.Version = configVersion
	f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	return protocol.NewJSONEncoder(f).Encode(cfg)
}

// GetDefaultConfigDir retrieves the default directory for per-user config files.
// By default we store in ~/.solkit/.
func GetDefaultConfigDir() (string, error) {
	currentUser, err := user.Current()
	if err != nil {
		return "", err
	}
	if currentUser.HomeDir == "" {
		return "", errors.New("GetDefaultConfigDir fail - current user has no home directory")
	}
	return filepath.Join(currentUser.HomeDir, ".solkit"), nil
}
