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
)

var nonceAuthority string

func init() {
	nonceCmd.AddCommand(nonceCreateCmd)
	nonceCmd.AddCommand(nonceShowCmd)
	nonceCreateCmd.Flags().StringVarP(&payerSpec, "payer", "p", "", "Signer paying fees and rent")
	nonceCreateCmd.Flags().StringVar(&nonceAuthority, "authority", "", "Account allowed to advance the nonce (defaults to the payer)")
}

var nonceCmd = &cobra.Command{
	Use:   "nonce",
	Short: "Manage durable nonce accounts",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		//If no arguments passed, we should fallback to help
		cmd.HelpFunc()(cmd, args)
	},
}

var nonceCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a durable nonce account",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		client := ensureClient()
		payer := ensureSigner(payerSpec)
		authority := addressOrPayer(nonceAuthority, payer)

		addr, sig, err := client.CreateNonceAccount(context.Background(), payer, authority, nil)
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		reportInfof(infoNonceCreated, addr, sig)
		reportExplorerLink(client, "address", addr.String())
	},
}

var nonceShowCmd = &cobra.Command{
	Use:   "show [nonce-account]",
	Short: "Show the stored nonce value and authority",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := ensureClient()
		acct, err := client.NonceValue(context.Background(), ensureAddress(args[0]))
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		reportInfof(infoNonceValue, acct.Nonce, acct.Authority, acct.LamportsPerSignature)
	},
}
