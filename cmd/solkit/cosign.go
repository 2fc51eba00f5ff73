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
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/solkit/solkit/cosign"
	"github.com/solkit/solkit/data/basics"
	relayclient "github.com/solkit/solkit/daemon/relay/client"
	"github.com/solkit/solkit/protocol"
)

const finishConfirmTimeout = time.Minute

var (
	senderSpec     string
	cosignMint     string
	cosignTo       string
	cosignAmount   string
	nonceAccount   string
	nonceAuthFlag  string
	relayURLFlag   string
	relayIDFlag    string
	draftInfile    string
	draftOutfile   string
	counterpartyID string
)

func init() {
	cosignCmd.PersistentFlags().StringVar(&relayURLFlag, "relay", "", "Relay base url, e.g. http://127.0.0.1:8180")

	cosignCmd.AddCommand(cosignStartCmd)
	cosignStartCmd.Flags().StringVarP(&senderSpec, "from", "f", "", "Signer sending the tokens")
	cosignStartCmd.Flags().StringVar(&cosignMint, "mint", "", "Mint of the token to transfer")
	cosignStartCmd.Flags().StringVar(&cosignTo, "to", "", "Recipient, who also pays the fee and signs second")
	cosignStartCmd.Flags().StringVar(&cosignAmount, "amount", "", "Amount in whole tokens, e.g. 27.5")
	cosignStartCmd.Flags().StringVar(&memoText, "memo", "", "Memo recorded with the transfer")
	cosignStartCmd.Flags().StringVar(&nonceAccount, "nonce", "", "Anchor the draft to this durable nonce account instead of a recent blockhash")
	cosignStartCmd.Flags().StringVar(&nonceAuthFlag, "nonce-authority", "", "Authority of the nonce account (defaults to the sender)")
	cosignStartCmd.Flags().StringVarP(&draftOutfile, "outfile", "o", stdoutFilenameValue, "Write the draft here when no relay is used")
	cosignStartCmd.MarkFlagRequired("mint")
	cosignStartCmd.MarkFlagRequired("to")
	cosignStartCmd.MarkFlagRequired("amount")

	cosignCmd.AddCommand(cosignInspectCmd)
	cosignInspectCmd.Flags().StringVarP(&draftInfile, "infile", "i", "", "Read the draft from this file (- for stdin)")
	cosignInspectCmd.Flags().StringVar(&relayIDFlag, "relay-id", "", "Fetch the draft from the relay")

	cosignCmd.AddCommand(cosignFinishCmd)
	cosignFinishCmd.Flags().StringVarP(&counterpartyID, "from", "f", "", "Counterparty signer paying the fee")
	cosignFinishCmd.Flags().StringVarP(&draftInfile, "infile", "i", "", "Read the draft from this file (- for stdin)")
	cosignFinishCmd.Flags().StringVar(&relayIDFlag, "relay-id", "", "Fetch the draft from the relay")
}

var cosignCmd = &cobra.Command{
	Use:   "cosign",
	Short: "Two-party token transfers where the recipient pays the fee",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		//If no arguments passed, we should fallback to help
		cmd.HelpFunc()(cmd, args)
	},
}

var cosignStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Draft and partially sign a token transfer",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if nonceAuthFlag != "" && nonceAccount == "" {
			reportErrorf(errorNonceAuthority)
		}
		ctx := context.Background()
		client := ensureClient()
		sender := ensureSigner(senderSpec)
		mint := ensureAddress(cosignMint)
		recipient := ensureAddress(cosignTo)
		decimals := ensureMintDecimals(client, mint)
		amount := ensureAmount(cosignAmount, decimals)

		accts, err := cosign.ResolveTokenAccounts(ctx, client.RPC(), mint, basics.Address(sender.PublicKey), recipient)
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		req := cosign.TransferRequest{
			Sender:             sender,
			SourceAccount:      accts.Source,
			Mint:               mint,
			DestinationAccount: accts.Destination,
			Amount:             amount,
			Decimals:           decimals,
			FeePayer:           recipient,
			Memo:               memoText,
		}
		var fresh cosign.Freshness = cosign.RecentBlockhash{}
		if nonceAccount != "" {
			fresh = cosign.DurableNonce{
				Account:   ensureAddress(nonceAccount),
				Authority: addressOrSigner(nonceAuthFlag, senderSpec),
			}
		}

		out, err := cosign.NewInitiator(client.RPC(), log).Start(ctx, req, fresh)
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		if relayURLFlag != "" {
			id, err := ensureRelayClient().Post(ctx, out)
			if err != nil {
				reportErrorf(errorRequestFail, err)
			}
			reportInfof(infoDraftPosted, id)
			return
		}
		if draftOutfile == stdoutFilenameValue {
			reportInfof("%s", out.Encoded)
			return
		}
		if err := os.WriteFile(draftOutfile, []byte(out.Encoded+"\n"), 0600); err != nil {
			reportErrorf(errorWriteFile, draftOutfile, err)
		}
		reportInfof(infoDraftWritten, draftOutfile)
	},
}

var cosignInspectCmd = &cobra.Command{
	Use:   "inspect [draft]",
	Short: "Decode a draft and show what signing it would approve",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		out := ensureDraft(context.Background(), args)
		summary, err := cosign.Inspect(out)
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		os.Stdout.Write(protocol.EncodeJSON(summary))
		os.Stdout.Write([]byte("\n"))
	},
}

var cosignFinishCmd = &cobra.Command{
	Use:   "finish [draft]",
	Short: "Co-sign a draft as the fee payer and submit it",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		client := ensureClient()
		signer := ensureSigner(counterpartyID)
		out := ensureDraft(ctx, args)

		receipt, err := cosign.NewCounterparty(client.RPC(), signer, log).Complete(ctx, out)
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		if relayIDFlag != "" {
			if err := ensureRelayClient().Delete(ctx, relayIDFlag); err != nil {
				reportWarnf("%v", err)
			}
		}

		waitCtx, cancel := context.WithTimeout(ctx, finishConfirmTimeout)
		defer cancel()
		if err := client.WaitForConfirmation(waitCtx, receipt.TrackingID); err != nil {
			reportErrorf(errorRequestFail, err)
		}
		reportInfof(infoTransferComplete, receipt.TrackingID)
		reportExplorerLink(client, "transaction", receipt.TrackingID)
	},
}

func ensureRelayClient() relayclient.RelayClient {
	u, err := url.Parse(relayURLFlag)
	if err != nil || u.Scheme == "" || u.Host == "" {
		reportErrorf(errorRelayURL, relayURLFlag, err)
	}
	return relayclient.MakeRelayClient(*u)
}

// ensureDraft reads the draft from exactly one of the positional argument,
// --infile or --relay-id.
func ensureDraft(ctx context.Context, args []string) cosign.Phase1Output {
	sources := 0
	for _, set := range []bool{len(args) == 1, draftInfile != "", relayIDFlag != ""} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		reportErrorf(errorDraftSource)
	}

	switch {
	case len(args) == 1:
		return cosign.Phase1Output{Encoded: strings.TrimSpace(args[0])}
	case draftInfile != "":
		data, err := readFile(draftInfile)
		if err != nil {
			reportErrorf(errorReadFile, draftInfile, err)
		}
		return cosign.Phase1Output{Encoded: strings.TrimSpace(string(data))}
	default:
		out, err := ensureRelayClient().Fetch(ctx, relayIDFlag)
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		return out
	}
}
