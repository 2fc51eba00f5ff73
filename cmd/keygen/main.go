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
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/solkit/solkit/config"
	"github.com/solkit/solkit/logging"
	"github.com/solkit/solkit/vanity"
)

var log = logging.Base()

var (
	versionCheck    bool
	verbose         bool
	startsFlag      string
	endsFlag        string
	matchFlag       string
	intervalFlag    time.Duration
	keystoreFlag    string
	metricsAddrFlag string
)

var rootCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Search for ledger addresses with a chosen prefix or suffix",
	Long: `keygen generates keypairs until interrupted, printing every keypair whose
base-58 address starts with one of --starts or ends with one of --ends.
Matching ignores case.`,
	Args: cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(logging.Info)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if versionCheck {
			fmt.Println(config.FormatVersionAndLicense())
			return
		}
		opts := searchOptions{
			starts:      startsFlag,
			ends:        endsFlag,
			match:       matchFlag,
			interval:    intervalFlag,
			keystore:    keystoreFlag,
			metricsAddr: metricsAddrFlag,
		}
		if err := runSearch(cmd.Context(), opts); err != nil {
			reportErrorf(errorSearch, err)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	rootCmd.Flags().BoolVarP(&versionCheck, "version", "v", false, "Display and write current build version and exit")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log operational events to stderr")
	rootCmd.Flags().StringVar(&startsFlag, "starts", "", "Comma separated prefixes to search for")
	rootCmd.Flags().StringVar(&endsFlag, "ends", "", "Comma separated suffixes to search for")
	rootCmd.Flags().StringVar(&matchFlag, "match", vanity.MatchAny.String(), "Whether an address must satisfy any pattern or one prefix and one suffix (any|all)")
	rootCmd.Flags().DurationVar(&intervalFlag, "interval", vanity.DefaultInterval, "Time between attempts")
	rootCmd.Flags().StringVar(&keystoreFlag, "keystore", "", "Store matches in this keystore database")
	rootCmd.Flags().StringVar(&metricsAddrFlag, "metrics-addr", "", "Serve search metrics on this address")
}

func main() {
	// Hidden command to generate docs in a given directory
	// keygen generate-docs [path]
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

func reportInfof(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}

func reportErrorf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
