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

package token

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/solkit/solkit/crypto"
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

func TestTransferCheckedLayout(t *testing.T) {
	partitiontest.PartitionTest(t)

	src, mint, dst, owner := testAddress(1), testAddress(2), testAddress(3), testAddress(4)
	in := TransferChecked(src, mint, dst, owner, 2700, 2)
	require.Equal(t, ProgramID, in.ProgramID())
	require.Equal(t, []byte{12, 0x8c, 0x0a, 0, 0, 0, 0, 0, 0, 2}, instructionData(t, in))
	require.Equal(t, []*transactions.AccountMeta{
		transactions.Writable(src, false),
		transactions.Readonly(mint, false),
		transactions.Writable(dst, false),
		transactions.Readonly(owner, true),
	}, in.Accounts())

	p, err := ParseTransferChecked(in)
	require.NoError(t, err)
	require.Equal(t, &TransferCheckedParams{
		Source: src, Mint: mint, Destination: dst, Owner: owner, Amount: 2700, Decimals: 2,
	}, p)

	_, err = ParseTransferChecked(Transfer(src, dst, owner, 5))
	require.ErrorIs(t, err, ErrInvalidInstructionData)
	_, err = ParseTransferChecked(Memo("hi"))
	require.ErrorIs(t, err, ErrInvalidInstructionData)
}

func TestMultisigAuthority(t *testing.T) {
	partitiontest.PartitionTest(t)

	ms, a, b := testAddress(5), testAddress(6), testAddress(7)
	in := MintToChecked(testAddress(1), testAddress(2), ms, 100, 6, a, b)
	require.Equal(t, []byte{14, 100, 0, 0, 0, 0, 0, 0, 0, 6}, instructionData(t, in))
	require.Equal(t, []*transactions.AccountMeta{
		transactions.Writable(testAddress(1), false),
		transactions.Writable(testAddress(2), false),
		transactions.Readonly(ms, false),
		transactions.Readonly(a, true),
		transactions.Readonly(b, true),
	}, in.Accounts())

	plain := MintTo(testAddress(1), testAddress(2), a, 100)
	require.Equal(t, []byte{7, 100, 0, 0, 0, 0, 0, 0, 0}, instructionData(t, plain))
	require.True(t, plain.Accounts()[2].IsSigner)

	p, err := ParseTransferChecked(TransferChecked(testAddress(1), testAddress(8), testAddress(2), ms, 1, 0, a, b))
	require.NoError(t, err)
	require.Equal(t, []basics.Address{a, b}, p.MultisigSigners)
}

func TestInitializeInstructions(t *testing.T) {
	partitiontest.PartitionTest(t)

	mint, auth, freeze := testAddress(1), testAddress(2), testAddress(3)
	in := InitializeMint2(mint, 9, auth, nil)
	require.Len(t, instructionData(t, in), 35)
	require.Equal(t, byte(20), instructionData(t, in)[0])
	require.Equal(t, byte(9), instructionData(t, in)[1])
	require.Equal(t, byte(0), instructionData(t, in)[34])

	in = InitializeMint2(mint, 9, auth, &freeze)
	require.Len(t, instructionData(t, in), 67)
	require.Equal(t, byte(1), instructionData(t, in)[34])
	require.Equal(t, freeze[:], instructionData(t, in)[35:])

	signers := []basics.Address{testAddress(4), testAddress(5), testAddress(6)}
	ms, err := InitializeMultisig2(testAddress(9), signers, 2)
	require.NoError(t, err)
	require.Equal(t, []byte{19, 2}, instructionData(t, ms))
	require.Len(t, ms.Accounts(), 4)
	require.True(t, ms.Accounts()[0].IsWritable)
	for _, member := range ms.Accounts()[1:] {
		require.False(t, member.IsSigner, "member %s", member.PublicKey)
		require.False(t, member.IsWritable)
	}

	_, err = InitializeMultisig2(testAddress(9), signers, 4)
	require.ErrorIs(t, err, ErrInvalidMultisig)
	_, err = InitializeMultisig2(testAddress(9), signers, 0)
	require.ErrorIs(t, err, ErrInvalidMultisig)
	_, err = InitializeMultisig2(testAddress(9), make([]basics.Address, MaxSigners+1), 1)
	require.ErrorIs(t, err, ErrInvalidMultisig)
}

func TestAssociatedTokenAddress(t *testing.T) {
	partitiontest.PartitionTest(t)

	rapid.Check(t, func(t1 *rapid.T) {
		var owner, mint basics.Address
		copy(owner[:], rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t1, "owner"))
		copy(mint[:], rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t1, "mint"))

		ata, err := AssociatedTokenAddress(owner, mint)
		if err != nil {
			t1.Fatalf("derive: %v", err)
		}
		if crypto.IsOnCurve(crypto.PublicKey(ata)) {
			t1.Fatalf("associated account %s is on the curve", ata)
		}
		again, _ := AssociatedTokenAddress(owner, mint)
		if again != ata {
			t1.Fatalf("derivation is not deterministic")
		}
	})

	owner, mint := testAddress(1), testAddress(2)
	a, err := AssociatedTokenAddress(owner, mint)
	require.NoError(t, err)
	b, err := AssociatedTokenAddress(mint, owner)
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	in, ata, err := CreateAssociatedTokenAccountIdempotent(testAddress(3), owner, mint)
	require.NoError(t, err)
	require.Equal(t, a, ata)
	require.Equal(t, AssociatedTokenProgramID, in.ProgramID())
	require.Equal(t, []byte{1}, instructionData(t, in))
	require.Equal(t, ata, in.Accounts()[1].PublicKey)
	require.True(t, in.Accounts()[0].IsSigner)
	require.True(t, in.Accounts()[4].PublicKey.IsZero())
	require.Equal(t, ProgramID, in.Accounts()[5].PublicKey)
}

func TestMemo(t *testing.T) {
	partitiontest.PartitionTest(t)

	in := Memo("hello", testAddress(1))
	require.Equal(t, MemoProgramID, in.ProgramID())
	require.Equal(t, []byte("hello"), instructionData(t, in))
	require.Equal(t, []*transactions.AccountMeta{transactions.Readonly(testAddress(1), true)}, in.Accounts())
	require.Empty(t, Memo("x").Accounts())
}

func TestAccountLayouts(t *testing.T) {
	partitiontest.PartitionTest(t)

	auth := testAddress(1)
	mint := Mint{MintAuthority: &auth, Supply: 2700, Decimals: 2, IsInitialized: true}
	data, err := mint.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, MintLength)
	gotMint, err := DecodeMint(data)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(&mint, gotMint))

	reserve := uint64(2039280)
	acct := Account{
		Mint: testAddress(2), Owner: testAddress(3), Amount: 42,
		State: AccountInitialized, IsNative: &reserve, CloseAuthority: &auth,
	}
	data, err = acct.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, AccountLength)
	gotAcct, err := DecodeAccount(data)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(&acct, gotAcct))

	ms := Multisig{M: 2, N: 3, IsInitialized: true, Signers: []basics.Address{testAddress(4), testAddress(5), testAddress(6)}}
	data, err = ms.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, MultisigLength)
	gotMs, err := DecodeMultisig(data)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(&ms, gotMs))

	_, err = DecodeMint(data)
	require.ErrorIs(t, err, errLength)
	_, err = DecodeAccount(make([]byte, AccountLength))
	require.ErrorIs(t, err, errNotInitialized)
	_, err = DecodeMultisig(make([]byte, MultisigLength))
	require.ErrorIs(t, err, errNotInitialized)
}
