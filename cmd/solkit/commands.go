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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/solkit/solkit/config"
	"github.com/solkit/solkit/crypto"
	"github.com/solkit/solkit/data/basics"
	"github.com/solkit/solkit/keystore"
	"github.com/solkit/solkit/libsol"
	"github.com/solkit/solkit/logging"
)

var log = logging.Base()

var (
	configDirFlag string
	clusterFlag   string
	urlFlag       string
	envFileFlag   string
	keystoreFlag  string
	verbose       bool
	versionCheck  bool
)

// envSignerPrefix selects a signer stored in an environment variable, e.g. env:SECRET_KEY.
const envSignerPrefix = "env:"

const (
	stdoutFilenameValue = "-"
	stdinFileNameValue  = "-"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(licenseCmd)

	// account.go
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(airdropCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(keypairCmd)

	// token.go
	rootCmd.AddCommand(mintCmd)
	rootCmd.AddCommand(tokenAccountCmd)
	rootCmd.AddCommand(multisigCmd)
	rootCmd.AddCommand(tokenCmd)

	// nonce.go
	rootCmd.AddCommand(nonceCmd)

	// cosign.go
	rootCmd.AddCommand(cosignCmd)

	// relay.go
	rootCmd.AddCommand(relayCmd)

	rootCmd.Flags().BoolVarP(&versionCheck, "version", "v", false, "Display and write current build version and exit")
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "Directory holding config.json (default ~/.solkit)")
	rootCmd.PersistentFlags().StringVar(&clusterFlag, "cluster", "", "Cluster to talk to: devnet, testnet, mainnet-beta or localnet")
	rootCmd.PersistentFlags().StringVar(&urlFlag, "url", "", "JSON-RPC endpoint, overriding the cluster")
	rootCmd.PersistentFlags().StringVar(&envFileFlag, "env-file", ".env", "File of KEY=VALUE lines loaded into the environment")
	rootCmd.PersistentFlags().StringVar(&keystoreFlag, "keystore", "", "Keystore database signers may be loaded from by address")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log operational events to stderr")
}

var rootCmd = &cobra.Command{
	Use:   "solkit",
	Short: "CLI for working with accounts, tokens and co-signed transfers",
	Long:  `solkit talks to a ledger JSON-RPC node to move SOL, create and mint tokens, manage durable nonces and run two-party co-signed token transfers.`,
	Args:  cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := config.LoadDotEnv(envFileFlag); err != nil {
			reportErrorf(errorLoadEnvFile, envFileFlag, err)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if versionCheck {
			fmt.Println(config.FormatVersionAndLicense())
			return
		}
		//If no arguments passed, we should fallback to help
		cmd.HelpFunc()(cmd, args)
	},
}

func main() {
	// Hidden command to generate docs in a given directory
	// solkit generate-docs [path]
	if len(os.Args) == 3 && os.Args[1] == "generate-docs" {
		err := doc.GenMarkdownTree(rootCmd, os.Args[2])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "The current version of solkit",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.FormatVersionAndLicense())
	},
}

var licenseCmd = &cobra.Command{
	Use:   "license",
	Short: "Display license information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.GetLicenseInfo())
	},
}

// resolveConfigDir returns --config-dir, or ~/.solkit.
func resolveConfigDir() (string, error) {
	if configDirFlag != "" {
		return filepath.Abs(configDirFlag)
	}
	return config.GetDefaultConfigDir()
}

// loadLocalConfig reads config.json, applies the command line overrides and
// configures the base logger from the result. A missing file yields the defaults.
func loadLocalConfig(dir, cluster, url string, verbose bool) (config.Local, error) {
	cfg, err := config.LoadConfigFromDisk(dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, err
	}
	if cluster != "" {
		cfg.Cluster = cluster
		cfg.RPCEndpoint = ""
	}
	if url != "" {
		cfg.RPCEndpoint = url
	}
	if verbose {
		cfg.LogLevel = "info"
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func ensureConfig() config.Local {
	dir, err := resolveConfigDir()
	if err != nil {
		reportErrorf(errorConfigDir, err)
	}
	cfg, err := loadLocalConfig(dir, clusterFlag, urlFlag, verbose)
	if err != nil {
		reportErrorf(errorLoadConfig, dir, err)
	}
	lvl, _ := logging.ParseLevel(cfg.LogLevel)
	log.SetLevel(lvl)
	if cfg.LogJSON {
		log.SetJSONFormatter()
	}
	return cfg
}

func ensureClient() *libsol.Client {
	cfg := ensureConfig()
	client, err := libsol.MakeClient(cfg, log)
	if err != nil {
		reportErrorf(errorRequestFail, err)
	}
	return client
}

// defaultSignerRef is the keypair file the ledger's own CLI writes.
func defaultSignerRef() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return config.DefaultKeypairFile
	}
	return filepath.Join(home, config.DefaultKeypairFile)
}

// loadSigner resolves ref to a keypair. ref is env:NAME for a key held in the
// environment, a base-58 address held in the keystore, or a keypair file path.
func loadSigner(ctx context.Context, ref, keystorePath string) (*crypto.Keypair, error) {
	if ref == "" {
		ref = defaultSignerRef()
	}
	if name, ok := strings.CutPrefix(ref, envSignerPrefix); ok {
		return config.KeypairFromEnvironment(name)
	}
	if keystorePath != "" {
		if addr, err := basics.UnmarshalAddress(ref); err == nil {
			store, err := keystore.Open(keystorePath)
			if err != nil {
				return nil, err
			}
			defer store.Close()
			return store.Get(ctx, addr)
		}
	}
	return config.LoadKeypairFile(ref)
}

func ensureSigner(ref string) *crypto.Keypair {
	kp, err := loadSigner(context.Background(), ref, keystoreFlag)
	if err != nil {
		reportErrorf(errorLoadSigner, ref, err)
	}
	return kp
}

func ensureAddress(s string) basics.Address {
	addr, err := basics.UnmarshalAddress(s)
	if err != nil {
		reportErrorf(errorParseAddr, err)
	}
	return addr
}

// addressOrSigner parses s as an address, falling back to the address of the
// signer named by ref when s is empty.
func addressOrSigner(s, ref string) basics.Address {
	if s != "" {
		return ensureAddress(s)
	}
	return basics.Address(ensureSigner(ref).PublicKey)
}

func ensureAmount(s string, decimals uint8) uint64 {
	amount, err := basics.ParseAmount(s, decimals)
	if err != nil {
		reportErrorf(errorParseAmount, s, err)
	}
	return amount
}

func reportExplorerLink(client *libsol.Client, kind, id string) {
	link, err := client.ExplorerLink(kind, id)
	if err != nil {
		reportWarnf(warnExplorerLink, err)
		return
	}
	reportInfof(infoExplorerLink, link)
}

func reportInfof(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}

func reportWarnf(format string, args ...interface{}) {
	fmt.Printf("Warning: "+format+"\n", args...)
}

func reportErrorf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// readFile is a wrapper of os.ReadFile which considers the
// special case of stdin filename
func readFile(filename string) ([]byte, error) {
	if filename == stdinFileNameValue {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(filename)
}
