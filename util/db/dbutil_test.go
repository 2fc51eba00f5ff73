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

package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/solkit/solkit/test/partitiontest"
)

func createService(t *testing.T, acc Accessor) {
	err := acc.Atomic(context.Background(), "create", func(ctx context.Context, tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, "create table Service (data blob)")
		return err
	})
	require.NoError(t, err)
}

func countRows(acc Accessor) (n int, err error) {
	err = acc.Atomic(context.Background(), "count", func(ctx context.Context, tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &n, "select count(*) from Service")
	})
	return
}

func TestInMemoryDisposal(t *testing.T) {
	partitiontest.PartitionTest(t)

	name := t.Name() + ".db"
	acc, err := MakeAccessor(name, false, true)
	require.NoError(t, err)
	createService(t, acc)

	anotherAcc, err := MakeAccessor(name, false, true)
	require.NoError(t, err)
	_, err = countRows(anotherAcc)
	require.NoError(t, err)
	anotherAcc.Close()
	acc.Close()

	acc, err = MakeAccessor(name, false, true)
	require.NoError(t, err)
	defer acc.Close()
	_, err = countRows(acc)
	require.Error(t, err, "table Service outlived every connection")
}

func TestInMemoryUniqueDB(t *testing.T) {
	partitiontest.PartitionTest(t)

	acc, err := MakeAccessor(t.Name()+"1.db", false, true)
	require.NoError(t, err)
	defer acc.Close()
	createService(t, acc)

	anotherAcc, err := MakeAccessor(t.Name()+"2.db", false, true)
	require.NoError(t, err)
	defer anotherAcc.Close()
	_, err = countRows(anotherAcc)
	require.Error(t, err)
}

func TestAtomicRollsBack(t *testing.T) {
	partitiontest.PartitionTest(t)

	acc, err := MakeAccessor(filepath.Join(t.TempDir(), "rollback.sqlite"), false, false)
	require.NoError(t, err)
	defer acc.Close()
	createService(t, acc)

	errBoom := errors.New("boom")
	err = acc.Atomic(context.Background(), "fail", func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "insert into Service (data) values (?)", []byte{1}); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	err = acc.Atomic(context.Background(), "panic", func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "insert into Service (data) values (?)", []byte{2}); err != nil {
			return err
		}
		panic("half written")
	})
	require.EqualError(t, err, "half written")

	n, err := countRows(acc)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestReadOnlyAccessorSeesWrites(t *testing.T) {
	partitiontest.PartitionTest(t)

	fn := filepath.Join(t.TempDir(), "pair.sqlite")
	wdb, err := MakeAccessor(fn, false, false)
	require.NoError(t, err)
	defer wdb.Close()
	createService(t, wdb)
	err = wdb.Atomic(context.Background(), "insert", func(ctx context.Context, tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, "insert into Service (data) values (?)", []byte{3})
		return err
	})
	require.NoError(t, err)

	rdb, err := MakeAccessor(fn, true, false)
	require.NoError(t, err)
	defer rdb.Close()
	n, err := countRows(rdb)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestVersioning(t *testing.T) {
	partitiontest.PartitionTest(t)

	acc, err := MakeErasableAccessor(filepath.Join(t.TempDir(), "version.sqlite"))
	require.NoError(t, err)
	defer acc.Close()

	err = acc.Atomic(context.Background(), "version", func(ctx context.Context, tx *sqlx.Tx) error {
		ver, err := GetUserVersion(ctx, tx)
		require.NoError(t, err)
		require.Equal(t, int32(0), ver)

		prev, err := SetUserVersion(ctx, tx, 5)
		require.NoError(t, err)
		require.Equal(t, int32(0), prev)

		prev, err = SetUserVersion(ctx, tx, 9)
		require.NoError(t, err)
		require.Equal(t, int32(5), prev)
		return nil
	})
	require.NoError(t, err)

	expired, cancel := context.WithCancel(context.Background())
	cancel()
	err = acc.Atomic(expired, "expired", func(ctx context.Context, tx *sqlx.Tx) error {
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRetry(t *testing.T) {
	partitiontest.PartitionTest(t)

	calls := 0
	errPlain := errors.New("plain")
	require.ErrorIs(t, Retry(func() error {
		calls++
		return errPlain
	}), errPlain)
	require.Equal(t, 1, calls)
}
