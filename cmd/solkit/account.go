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

	"github.com/spf13/cobra"

	"github.com/solkit/solkit/config"
	"github.com/solkit/solkit/crypto"
	"github.com/solkit/solkit/data/basics"
	"github.com/solkit/solkit/keystore"
)

var (
	signerSpec     string
	airdropAmount  string
	airdropMinimum string
	memoText       string
	outFilename    string
)

func init() {
	balanceCmd.Flags().StringVarP(&signerSpec, "signer", "s", "", "Signer whose balance to show when no address is given")

	airdropCmd.Flags().StringVarP(&signerSpec, "signer", "s", "", "Signer to fund when no address is given")
	airdropCmd.Flags().StringVar(&airdropAmount, "amount", "1", "SOL to request")
	airdropCmd.Flags().StringVar(&airdropMinimum, "minimum", "0.5", "Only request when the balance is below this many SOL")

	sendCmd.Flags().StringVarP(&signerSpec, "from", "f", "", "Signer paying and sending the SOL (env:NAME, keystore address or keypair file)")
	sendCmd.Flags().StringVar(&memoText, "memo", "", "Memo recorded with the transfer")

	keypairCmd.AddCommand(keypairNewCmd)
	keypairCmd.AddCommand(keypairShowCmd)
	keypairNewCmd.Flags().StringVarP(&outFilename, "outfile", "o", "", "Write the keypair file here")
}

var balanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Show the SOL balance of an account",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := ensureClient()
		addr := addressOrSigner(firstArg(args), signerSpec)
		lamports, err := client.Balance(context.Background(), addr)
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		reportInfof(infoBalance, basics.FormatAmount(lamports, basics.NativeDecimals))
	},
}

var airdropCmd = &cobra.Command{
	Use:   "airdrop [address]",
	Short: "Request test SOL when the balance is low",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := ensureClient()
		addr := addressOrSigner(firstArg(args), signerSpec)
		amount := ensureAmount(airdropAmount, basics.NativeDecimals)
		minimum := ensureAmount(airdropMinimum, basics.NativeDecimals)

		sig, err := client.AirdropIfRequired(context.Background(), addr, amount, minimum)
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		if sig == "" {
			reportInfof(infoAirdropSkipped, addr, airdropMinimum)
			return
		}
		reportInfof(infoAirdropConfirmed, sig)
		reportExplorerLink(client, "transaction", sig)
	},
}

var sendCmd = &cobra.Command{
	Use:   "send [to] [amount]",
	Short: "Send SOL, optionally with a memo",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		client := ensureClient()
		from := ensureSigner(signerSpec)
		to := ensureAddress(args[0])
		lamports := ensureAmount(args[1], basics.NativeDecimals)

		sig, err := client.SendSOL(context.Background(), from, to, lamports, memoText)
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		reportInfof(infoTransferSent, args[1], to, sig)
		reportExplorerLink(client, "transaction", sig)
	},
}

var keypairCmd = &cobra.Command{
	Use:   "keypair",
	Short: "Create and inspect keypairs",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		//If no arguments passed, we should fallback to help
		cmd.HelpFunc()(cmd, args)
	},
}

var keypairNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Generate a keypair and save it to a file or the keystore",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		kp, err := crypto.GenerateKeypair(crypto.SystemRNG)
		if err != nil {
			reportErrorf(errorKeypairCreate, err)
		}
		reportInfof(infoKeypairCreated, kp.PublicKey)

		if outFilename != "" {
			if err := config.SaveKeypairFile(outFilename, kp); err != nil {
				reportErrorf(errorWriteFile, outFilename, err)
			}
			reportInfof(infoKeypairWritten, outFilename)
		}
		if keystoreFlag != "" {
			store, err := keystore.Open(keystoreFlag)
			if err != nil {
				reportErrorf(errorRequestFail, err)
			}
			defer store.Close()
			if err := store.Put(context.Background(), kp, "generated"); err != nil {
				reportErrorf(errorRequestFail, err)
			}
			reportInfof(infoKeypairStored, kp.PublicKey, keystoreFlag)
		}
	},
}

var keypairShowCmd = &cobra.Command{
	Use:   "show [signer]",
	Short: "Print the address of a signer",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		kp := ensureSigner(firstArg(args))
		reportInfof(infoKeypairAddress, kp.PublicKey)
	},
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
