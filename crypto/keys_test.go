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
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/solkit/solkit/test/partitiontest"
)

type failingRNG struct{}

func (failingRNG) RandBytes([]byte) error {
	return ErrRandomnessUnavailable
}

func mustHex(t *testing.T, s string) []byte {
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestKeypairFromSeedVector(t *testing.T) {
	partitiontest.PartitionTest(t)

	var seed Seed
	copy(seed[:], mustHex(t, "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"))
	kp := KeypairFromSeed(seed)
	require.Equal(t, mustHex(t, "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a"), kp.PublicKey[:])

	sig := kp.SignBytes(nil)
	require.Equal(t, mustHex(t, "e5564300c360ac729086e2cc806e828a84877f1eb8e5d974d873e065224901555fb8821590a33bacc61e39701cf9b46bd25bf5f0595bbe24655141438e7a100b"), sig[:])
	require.True(t, VerifyBytes(kp.PublicKey, nil, sig))
	require.Equal(t, seed, kp.Seed())
}

func TestKeypairDeterminism(t *testing.T) {
	partitiontest.PartitionTest(t)

	rapid.Check(t, func(t1 *rapid.T) {
		raw := rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t1, "seed")
		var seed Seed
		copy(seed[:], raw)
		a := KeypairFromSeed(seed)
		b := KeypairFromSeed(seed)
		if a.PublicKey != b.PublicKey || !bytes.Equal(a.PrivateKey, b.PrivateKey) {
			t1.Fatalf("seed %x produced two different keypairs", raw)
		}
	})
}

func TestSignVerify(t *testing.T) {
	partitiontest.PartitionTest(t)

	kp, err := GenerateKeypair(SystemRNG)
	require.NoError(t, err)
	other, err := GenerateKeypair(SystemRNG)
	require.NoError(t, err)

	msg := []byte("transfer 27.00 to counterparty")
	sig := kp.SignBytes(msg)
	require.False(t, sig.IsZero())
	require.True(t, VerifyBytes(kp.PublicKey, msg, sig))
	require.True(t, sig.Verify(kp.PublicKey, msg))
	require.False(t, VerifyBytes(other.PublicKey, msg, sig))
	require.False(t, VerifyBytes(kp.PublicKey, []byte("transfer 28.00 to counterparty"), sig))
	require.False(t, VerifyBytes(kp.PublicKey, msg, BlankSignature))
}

func TestVerifyRejectsSmallOrderKey(t *testing.T) {
	partitiontest.PartitionTest(t)

	kp, err := GenerateKeypair(SystemRNG)
	require.NoError(t, err)
	sig := kp.SignBytes([]byte("msg"))

	var identity PublicKey
	identity[0] = 1
	require.False(t, VerifyBytes(identity, []byte("msg"), sig))
}

func TestGenerateKeypairPropagatesRNGFailure(t *testing.T) {
	partitiontest.PartitionTest(t)

	kp, err := GenerateKeypair(failingRNG{})
	require.Nil(t, kp)
	require.True(t, errors.Is(err, ErrRandomnessUnavailable))
}

func TestKeypairFromPrivateKey(t *testing.T) {
	partitiontest.PartitionTest(t)

	kp, err := GenerateKeypair(SystemRNG)
	require.NoError(t, err)

	restored, err := KeypairFromPrivateKey(kp.PrivateKey[:])
	require.NoError(t, err)
	require.Equal(t, kp, restored)

	_, err = KeypairFromPrivateKey(kp.PrivateKey[:32])
	require.ErrorIs(t, err, errInvalidPrivateKeyLength)

	tampered := append(PrivateKey(nil), kp.PrivateKey...)
	tampered[63] ^= 0xff
	_, err = KeypairFromPrivateKey(tampered)
	require.ErrorIs(t, err, errPublicKeyMismatch)
}

func TestKeypairFromBase58(t *testing.T) {
	partitiontest.PartitionTest(t)

	kp, err := NewKeypair()
	require.NoError(t, err)
	require.True(t, IsOnCurve(kp.PublicKey))

	restored, err := KeypairFromBase58(kp.PrivateKeyBase58())
	require.NoError(t, err)
	require.Equal(t, kp.PublicKey, restored.PublicKey)
	require.Equal(t, kp.Seed(), restored.Seed())

	_, err = KeypairFromBase58("0OIl")
	require.ErrorIs(t, err, errInvalidPrivateKey)
	_, err = KeypairFromBase58(kp.PublicKey.String())
	require.ErrorIs(t, err, errInvalidPrivateKey)
}

func TestPublicKeyString(t *testing.T) {
	partitiontest.PartitionTest(t)

	var zero PublicKey
	require.Equal(t, "11111111111111111111111111111111", zero.String())
}
