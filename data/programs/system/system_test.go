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

package system

import (
	"testing"

	bin "github.com/gagliardetto/binary"
	systemprog "github.com/gagliardetto/solana-go/programs/system"
	"github.com/stretchr/testify/require"

	"github.com/solkit/solkit/data/basics"
	"github.com/solkit/solkit/data/transactions"
	"github.com/solkit/solkit/test/partitiontest"
)

func instructionData(t *testing.T, in transactions.Instruction) []byte {
	data, err := in.Data()
	require.NoError(t, err)
	return data
}

func testAddress(b byte) basics.Address {
	var a basics.Address
	a[0] = b
	a[31] = b
	return a
}

func TestWellKnownIDs(t *testing.T) {
	partitiontest.PartitionTest(t)

	require.True(t, ProgramID.IsZero())
	require.Equal(t, "SysvarRecentB1ockHashes11111111111111111111", SysvarRecentBlockhashes.String())
	require.Equal(t, "SysvarRent111111111111111111111111111111111", SysvarRent.String())
}

func TestTransferLayout(t *testing.T) {
	partitiontest.PartitionTest(t)

	from, to := testAddress(1), testAddress(2)
	in := Transfer(from, to, 1)
	require.Equal(t, []byte{2, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0}, instructionData(t, in))
	require.Equal(t, []*transactions.AccountMeta{
		transactions.Writable(from, true),
		transactions.Writable(to, false),
	}, in.Accounts())

	gotFrom, gotTo, lamports, err := ParseTransfer(in)
	require.NoError(t, err)
	require.Equal(t, from, gotFrom)
	require.Equal(t, to, gotTo)
	require.Equal(t, uint64(1), lamports)

	_, _, _, err = ParseTransfer(AdvanceNonceAccount(from, to))
	require.ErrorIs(t, err, ErrInvalidInstructionData)
}

func TestCreateAccountLayout(t *testing.T) {
	partitiontest.PartitionTest(t)

	owner := testAddress(9)
	in := CreateAccount(testAddress(1), testAddress(2), 1461600, NonceAccountLength, owner)
	data := instructionData(t, in)
	require.Len(t, data, 52)
	require.Equal(t, []byte{0, 0, 0, 0}, data[:4])
	require.Equal(t, []byte{0x60, 0x4d, 0x16, 0, 0, 0, 0, 0}, data[4:12])
	require.Equal(t, []byte{80, 0, 0, 0, 0, 0, 0, 0}, data[12:20])
	require.Equal(t, owner[:], data[20:])
	require.Equal(t, ProgramID, in.ProgramID())
	require.True(t, in.Accounts()[0].IsSigner)
	require.True(t, in.Accounts()[1].IsSigner)
}

func TestNonceInstructions(t *testing.T) {
	partitiontest.PartitionTest(t)

	nonce, authority := testAddress(3), testAddress(4)

	adv := AdvanceNonceAccount(nonce, authority)
	require.Equal(t, []byte{4, 0, 0, 0}, instructionData(t, adv))
	require.Equal(t, SysvarRecentBlockhashes, adv.Accounts()[1].PublicKey)
	require.True(t, adv.Accounts()[0].IsWritable)
	require.True(t, adv.Accounts()[2].IsSigner)
	require.False(t, adv.Accounts()[2].IsWritable)

	gotNonce, gotAuth, err := ParseAdvanceNonceAccount(adv)
	require.NoError(t, err)
	require.Equal(t, nonce, gotNonce)
	require.Equal(t, authority, gotAuth)

	_, _, err = ParseAdvanceNonceAccount(Transfer(nonce, authority, 5))
	require.ErrorIs(t, err, ErrInvalidInstructionData)
	// an advance-nonce with a dropped account is refused instead of indexed
	short := transactions.NewInstruction(ProgramID, adv.Accounts()[:2], instructionData(t, adv))
	_, _, err = ParseAdvanceNonceAccount(short)
	require.ErrorIs(t, err, ErrInvalidInstructionData)

	initNonce := InitializeNonceAccount(nonce, authority)
	data := instructionData(t, initNonce)
	require.Equal(t, []byte{6, 0, 0, 0}, data[:4])
	require.Equal(t, authority[:], data[4:])
	require.Equal(t, SysvarRent, initNonce.Accounts()[2].PublicKey)
}

func TestDecodeNonceAccount(t *testing.T) {
	partitiontest.PartitionTest(t)

	in := NonceAccount{
		Version:              1,
		State:                NonceInitialized,
		Authority:            testAddress(7),
		Nonce:                basics.Hash{1, 2, 3},
		LamportsPerSignature: 5000,
	}
	data, err := in.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, NonceAccountLength)

	out, err := DecodeNonceAccount(data)
	require.NoError(t, err)
	require.Equal(t, in, *out)

	_, err = DecodeNonceAccount(data[:79])
	require.ErrorIs(t, err, errNonceAccountLength)

	// the library's account type reads the same layout
	var raw systemprog.NonceAccount
	require.NoError(t, bin.NewBinDecoder(data).Decode(&raw))
	require.Equal(t, in.Authority, raw.AuthorizedPubkey)
	require.Equal(t, uint64(5000), raw.FeeCalculator.LamportsPerSignature)

	in.State = NonceUninitialized
	data, err = in.MarshalBinary()
	require.NoError(t, err)
	_, err = DecodeNonceAccount(data)
	require.ErrorIs(t, err, errNonceNotInitialized)
}
