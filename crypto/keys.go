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

package crypto

import (
	"crypto/ed25519"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Seed is the 32 bytes of secret entropy a keypair is derived from.
type Seed [ed25519.SeedSize]byte

// PublicKey is an ed25519 public key; on the ledger it doubles as the account address.
type PublicKey = solana.PublicKey

// PrivateKey is the 64-byte secret key layout used by the ledger tooling:
// the seed followed by the public key.
type PrivateKey = solana.PrivateKey

// Signature is an ed25519 signature.
type Signature = solana.Signature

// BlankSignature is an empty signature structure, containing nothing but zeroes
var BlankSignature = Signature{}

// Keypair holds a public key and the secrets needed to sign on its behalf.
// A Keypair is never mutated after it has been created.
type Keypair struct {
	PublicKey  PublicKey
	PrivateKey PrivateKey
}

// NewKeypair draws a fresh keypair from the operating system's random source.
func NewKeypair() (*Keypair, error) {
	sk, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRandomnessUnavailable, err)
	}
	return &Keypair{PublicKey: sk.PublicKey(), PrivateKey: sk}, nil
}

// GenerateKeypair draws 32 bytes of seed material from rng and derives a keypair from it.
// Errors from the random source are returned unchanged.
func GenerateKeypair(rng RNG) (*Keypair, error) {
	var seed Seed
	if err := rng.RandBytes(seed[:]); err != nil {
		return nil, err
	}
	return KeypairFromSeed(seed), nil
}

// KeypairFromSeed deterministically derives the keypair for seed.
func KeypairFromSeed(seed Seed) *Keypair {
	sk := PrivateKey(ed25519.NewKeyFromSeed(seed[:]))
	return &Keypair{PublicKey: sk.PublicKey(), PrivateKey: sk}
}

// KeypairFromPrivateKey rebuilds a keypair from its 64-byte secret key,
// rejecting keys whose public half was not derived from the seed half.
func KeypairFromPrivateKey(secret []byte) (*Keypair, error) {
	if len(secret) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: got %d bytes", errInvalidPrivateKeyLength, len(secret))
	}
	if err := PrivateKey(secret).Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", errPublicKeyMismatch, err)
	}
	var seed Seed
	copy(seed[:], secret[:ed25519.SeedSize])
	kp := KeypairFromSeed(seed)
	if string(kp.PublicKey[:]) != string(secret[ed25519.SeedSize:]) {
		return nil, errPublicKeyMismatch
	}
	return kp, nil
}

// KeypairFromBase58 parses the base-58 secret key form that wallets export.
func KeypairFromBase58(secret string) (*Keypair, error) {
	sk, err := solana.PrivateKeyFromBase58(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidPrivateKey, err)
	}
	return KeypairFromPrivateKey(sk)
}

// Seed returns the seed the keypair was derived from.
func (kp *Keypair) Seed() Seed {
	var seed Seed
	copy(seed[:], kp.PrivateKey[:ed25519.SeedSize])
	return seed
}

// SignBytes signs a message directly, without first hashing.
func (kp *Keypair) SignBytes(message []byte) Signature {
	sig, err := kp.PrivateKey.Sign(message)
	if err != nil {
		// Keypairs are only built from validated secrets.
		panic(err)
	}
	return sig
}

// PrivateKeyBase58 returns the 64-byte secret key in base-58, the form wallets import.
func (kp *Keypair) PrivateKeyBase58() string {
	return kp.PrivateKey.String()
}

// VerifyBytes verifies a signature over message by pk. Non-canonical encodings
// and small-order public keys are rejected before the curve arithmetic runs.
func VerifyBytes(pk PublicKey, message []byte, sig Signature) bool {
	return ed25519ConsensusVerifySingle(pk, message, sig)
}
