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

const (
	// General
	errorLoadEnvFile = "Cannot read environment file %s: %v"
	errorConfigDir   = "Cannot determine config directory: %v"
	errorLoadConfig  = "Cannot load config from %s: %v"
	errorLoadSigner  = "Cannot load signer %q: %v"
	errorParseAddr   = "Failed to parse addr: %v"
	errorParseAmount = "Failed to parse amount %q: %v"
	errorRequestFail = "Error processing command: %s"
	errorReadFile    = "Cannot read %s: %v"
	errorWriteFile   = "Cannot write %s: %v"
	infoExplorerLink = "Explorer: %s"
	warnExplorerLink = "no explorer link: %v"

	// Account
	infoBalance          = "%s SOL"
	infoAirdropSkipped   = "Balance of %s is at least %s SOL, no airdrop needed"
	infoAirdropConfirmed = "Airdrop confirmed: %s"
	infoTransferSent     = "Sent %s SOL to %s: %s"
	infoKeypairAddress   = "%s"
	infoKeypairCreated   = "Created keypair %s"
	infoKeypairStored    = "Stored keypair %s in %s"
	infoKeypairWritten   = "Wrote keypair file %s"
	errorKeypairCreate   = "Cannot generate keypair: %v"

	// Tokens
	infoMintCreated        = "Created mint %s with %d decimals: %s"
	infoMinted             = "Minted %s to %s: %s"
	infoTokenAccount       = "Token account for %s: %s"
	infoMultisigCreated    = "Created %d-of-%d multisig %s: %s"
	errorMintInfo          = "Cannot read mint %s: %v"
	errorMultisigThreshold = "Failed to parse threshold %q: %v"
	errorMultisigNoSigners = "At least one --signer is required"
	infoMetadataUpdated    = "Updated metadata of mint %s at %s: %s"
	errorMetadataInvalid   = "Invalid token metadata: %v"

	// Nonce
	infoNonceCreated = "Created nonce account %s: %s"
	infoNonceValue   = "Nonce: %s\nAuthority: %s\nLamports per signature: %d"

	// Cosign
	infoDraftPosted      = "Draft posted to relay with id %s"
	infoDraftWritten     = "Draft written to %s"
	infoTransferComplete = "Transfer submitted: %s"
	errorDraftSource     = "Provide exactly one of a draft argument, --infile or --relay-id"
	errorNonceAuthority  = "--nonce-authority requires --nonce"
	errorRelayURL        = "Cannot parse relay url %q: %v"

	// Relay
	infoRelayListening = "Relay listening on %s"
)
