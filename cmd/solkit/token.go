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
	"strconv"

	"github.com/spf13/cobra"

	"github.com/solkit/solkit/crypto"
	"github.com/solkit/solkit/data/basics"
	"github.com/solkit/solkit/data/programs/metadata"
	"github.com/solkit/solkit/data/programs/token"
	"github.com/solkit/solkit/libsol"
)

var (
	payerSpec       string
	authoritySpec   string
	mintDecimals    uint8
	freezeAuthority string
	ownerAddress    string
	multisigSigners []string

	metadataName      string
	metadataSymbol    string
	metadataURI       string
	metadataSellerFee uint16
)

func init() {
	mintCmd.PersistentFlags().StringVarP(&payerSpec, "payer", "p", "", "Signer paying fees and rent")
	mintCmd.AddCommand(mintCreateCmd)
	mintCmd.AddCommand(mintToCmd)
	mintCreateCmd.Flags().Uint8Var(&mintDecimals, "decimals", 2, "Decimal places of the token")
	mintCreateCmd.Flags().StringVar(&freezeAuthority, "freeze-authority", "", "Account allowed to freeze token accounts")
	mintToCmd.Flags().StringVar(&authoritySpec, "authority", "", "Mint authority signer (defaults to the payer)")
	mintToCmd.Flags().StringVar(&ownerAddress, "to", "", "Owner of the receiving token account (defaults to the payer)")

	tokenAccountCmd.AddCommand(tokenAccountCreateCmd)
	tokenAccountCreateCmd.Flags().StringVarP(&payerSpec, "payer", "p", "", "Signer paying fees and rent")
	tokenAccountCreateCmd.Flags().StringVar(&ownerAddress, "owner", "", "Owner of the token account (defaults to the payer)")

	multisigCmd.PersistentFlags().StringVarP(&payerSpec, "payer", "p", "", "Signer paying fees and rent")
	multisigCmd.AddCommand(multisigCreateCmd)
	multisigCmd.AddCommand(multisigMintCmd)
	multisigMintCmd.Flags().StringArrayVar(&multisigSigners, "signer", nil, "Multisig member signing the mint (repeatable)")
	multisigMintCmd.Flags().StringVar(&ownerAddress, "to", "", "Owner of the receiving token account (defaults to the payer)")

	tokenCmd.AddCommand(tokenMetadataCmd)
	tokenMetadataCmd.AddCommand(tokenMetadataUpdateCmd)
	tokenMetadataUpdateCmd.Flags().StringVarP(&payerSpec, "payer", "p", "", "Signer paying fees")
	tokenMetadataUpdateCmd.Flags().StringVar(&authoritySpec, "authority", "", "Metadata update authority signer (defaults to the payer)")
	tokenMetadataUpdateCmd.Flags().StringVar(&metadataName, "name", "", "Token name")
	tokenMetadataUpdateCmd.Flags().StringVar(&metadataSymbol, "symbol", "", "Token symbol")
	tokenMetadataUpdateCmd.Flags().StringVar(&metadataURI, "uri", "", "Link to the off-chain metadata document")
	tokenMetadataUpdateCmd.Flags().Uint16Var(&metadataSellerFee, "seller-fee", 0, "Seller fee in basis points")
	tokenMetadataUpdateCmd.MarkFlagRequired("name")
	tokenMetadataUpdateCmd.MarkFlagRequired("symbol")
	tokenMetadataUpdateCmd.MarkFlagRequired("uri")
}

var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Create token mints and mint tokens",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		//If no arguments passed, we should fallback to help
		cmd.HelpFunc()(cmd, args)
	},
}

var mintCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a token mint whose authority is the payer",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		client := ensureClient()
		payer := ensureSigner(payerSpec)
		var freeze *basics.Address
		if freezeAuthority != "" {
			addr := ensureAddress(freezeAuthority)
			freeze = &addr
		}

		mint, sig, err := client.CreateMint(context.Background(), payer, basics.Address(payer.PublicKey), freeze, mintDecimals)
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		reportInfof(infoMintCreated, mint, mintDecimals, sig)
		reportExplorerLink(client, "address", mint.String())
	},
}

var mintToCmd = &cobra.Command{
	Use:   "to [mint] [amount]",
	Short: "Mint tokens into the owner's associated token account",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		client := ensureClient()
		payer := ensureSigner(payerSpec)
		authority := payer
		if authoritySpec != "" {
			authority = ensureSigner(authoritySpec)
		}
		mint := ensureAddress(args[0])
		amount := ensureAmount(args[1], ensureMintDecimals(client, mint))
		owner := addressOrPayer(ownerAddress, payer)

		dest, err := client.GetOrCreateAssociatedTokenAccount(context.Background(), payer, mint, owner)
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		sig, err := client.MintTo(context.Background(), payer, mint, dest, authority, amount)
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		reportInfof(infoMinted, args[1], dest, sig)
		reportExplorerLink(client, "transaction", sig)
	},
}

var tokenAccountCmd = &cobra.Command{
	Use:   "token-account",
	Short: "Manage associated token accounts",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		//If no arguments passed, we should fallback to help
		cmd.HelpFunc()(cmd, args)
	},
}

var tokenAccountCreateCmd = &cobra.Command{
	Use:   "create [mint]",
	Short: "Get or create the owner's associated token account for a mint",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := ensureClient()
		payer := ensureSigner(payerSpec)
		mint := ensureAddress(args[0])
		owner := addressOrPayer(ownerAddress, payer)

		ata, err := client.GetOrCreateAssociatedTokenAccount(context.Background(), payer, mint, owner)
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		reportInfof(infoTokenAccount, owner, ata)
		reportExplorerLink(client, "address", ata.String())
	},
}

var multisigCmd = &cobra.Command{
	Use:   "multisig",
	Short: "Create token multisig accounts and mint through them",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		//If no arguments passed, we should fallback to help
		cmd.HelpFunc()(cmd, args)
	},
}

var multisigCreateCmd = &cobra.Command{
	Use:   "create [threshold] [member...]",
	Short: "Create an m-of-n multisig over the member addresses",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		client := ensureClient()
		payer := ensureSigner(payerSpec)
		m, err := strconv.ParseUint(args[0], 10, 8)
		if err != nil {
			reportErrorf(errorMultisigThreshold, args[0], err)
		}
		members := make([]basics.Address, 0, len(args)-1)
		for _, s := range args[1:] {
			members = append(members, ensureAddress(s))
		}

		ms, sig, err := client.CreateMultisig(context.Background(), payer, members, uint8(m))
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		reportInfof(infoMultisigCreated, m, len(members), ms, sig)
		reportExplorerLink(client, "address", ms.String())
	},
}

var multisigMintCmd = &cobra.Command{
	Use:   "mint [mint] [multisig] [amount]",
	Short: "Mint tokens where the mint authority is a multisig",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		if len(multisigSigners) == 0 {
			reportErrorf(errorMultisigNoSigners)
		}
		client := ensureClient()
		payer := ensureSigner(payerSpec)
		mint := ensureAddress(args[0])
		ms := ensureAddress(args[1])
		amount := ensureAmount(args[2], ensureMintDecimals(client, mint))
		owner := addressOrPayer(ownerAddress, payer)
		signers := make([]*crypto.Keypair, 0, len(multisigSigners))
		for _, ref := range multisigSigners {
			signers = append(signers, ensureSigner(ref))
		}

		dest, err := client.GetOrCreateAssociatedTokenAccount(context.Background(), payer, mint, owner)
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		sig, err := client.MintToMultisig(context.Background(), payer, mint, dest, ms, amount, signers...)
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		reportInfof(infoMinted, args[2], dest, sig)
		reportExplorerLink(client, "transaction", sig)
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage token metadata",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		//If no arguments passed, we should fallback to help
		cmd.HelpFunc()(cmd, args)
	},
}

var tokenMetadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Manage the metadata account of a token mint",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		//If no arguments passed, we should fallback to help
		cmd.HelpFunc()(cmd, args)
	},
}

var tokenMetadataUpdateCmd = &cobra.Command{
	Use:   "update [mint]",
	Short: "Replace the name, symbol and uri stored for a mint",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := metadataFromFlags(metadataName, metadataSymbol, metadataURI, metadataSellerFee)
		if err != nil {
			reportErrorf(errorMetadataInvalid, err)
		}
		client := ensureClient()
		payer := ensureSigner(payerSpec)
		authority := payer
		if authoritySpec != "" {
			authority = ensureSigner(authoritySpec)
		}
		mint := ensureAddress(args[0])
		pda, err := metadata.Address(mint)
		if err != nil {
			reportErrorf(errorMetadataInvalid, err)
		}

		sig, err := client.UpdateTokenMetadata(context.Background(), payer, authority, mint, data)
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		reportInfof(infoMetadataUpdated, mint, pda, sig)
		reportExplorerLink(client, "address", mint.String())
	},
}

// metadataFromFlags builds metadata without creators, collection or uses.
func metadataFromFlags(name, symbol, uri string, sellerFee uint16) (metadata.Data, error) {
	data := metadata.Data{
		Name:                 name,
		Symbol:               symbol,
		URI:                  uri,
		SellerFeeBasisPoints: sellerFee,
	}
	return data, data.Validate()
}

func addressOrPayer(s string, payer *crypto.Keypair) basics.Address {
	if s != "" {
		return ensureAddress(s)
	}
	return basics.Address(payer.PublicKey)
}

// ensureMintDecimals reads the mint so amounts can be given in whole tokens.
func ensureMintDecimals(client *libsol.Client, mint basics.Address) uint8 {
	data, err := client.RPC().AccountData(context.Background(), mint)
	if err != nil {
		reportErrorf(errorMintInfo, mint, err)
	}
	info, err := token.DecodeMint(data)
	if err != nil {
		reportErrorf(errorMintInfo, mint, err)
	}
	return info.Decimals
}
