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

// Package keystore persists keypairs, such as vanity search matches, in a
// sqlite database.
package keystore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
	"github.com/jmoiron/sqlx"

	"github.com/solkit/solkit/crypto"
	"github.com/solkit/solkit/data/basics"
	"github.com/solkit/solkit/logging"
	"github.com/solkit/solkit/util/db"
)

var (
	// ErrKeyNotFound is returned by Get for addresses the store does not hold.
	ErrKeyNotFound = errors.New("key not found in keystore")
	// ErrLocked is returned by Open when another process holds the store.
	ErrLocked = errors.New("keystore is in use by another process")
)

const schemaVersion = 1

var schema = []string{
	`CREATE TABLE IF NOT EXISTS keys (
		address TEXT PRIMARY KEY,
		secret BLOB NOT NULL,
		source TEXT NOT NULL,
		created_at INTEGER NOT NULL)`,
}

// Entry is one stored key.
type Entry struct {
	Address   string `db:"address"`
	Secret    []byte `db:"secret"`
	Source    string `db:"source"`
	CreatedAt int64  `db:"created_at"`
}

// Keypair decodes the stored secret.
func (e Entry) Keypair() (*crypto.Keypair, error) {
	return crypto.KeypairFromPrivateKey(e.Secret)
}

// Created returns the time the key was stored.
func (e Entry) Created() time.Time {
	return time.Unix(e.CreatedAt, 0)
}

// Store is an open keystore. It holds an exclusive lock on the database until
// Close is called.
type Store struct {
	acc  db.Accessor
	lock *flock.Flock
	log  logging.Logger
	now  func() time.Time
}

// Open opens, creating if needed, the keystore at path.
func Open(path string) (*Store, error) {
	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("unexpected failure in establishing %s.lock: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}

	acc, err := db.MakeErasableAccessor(path)
	if err != nil {
		lock.Unlock()
		return nil, err
	}
	s := &Store{acc: acc, lock: lock, log: logging.Base().With("keystore", path), now: time.Now}
	if err := s.migrate(context.Background()); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	return s.acc.Atomic(ctx, "keystore schema", func(ctx context.Context, tx *sqlx.Tx) error {
		ver, err := db.GetUserVersion(ctx, tx)
		if err != nil {
			return err
		}
		if ver > schemaVersion {
			return fmt.Errorf("keystore schema version %d is newer than supported version %d", ver, schemaVersion)
		}
		if ver == schemaVersion {
			return nil
		}
		for _, stmt := range schema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		_, err = db.SetUserVersion(ctx, tx, schemaVersion)
		return err
	})
}

// Close releases the database and the lock.
func (s *Store) Close() error {
	s.acc.Close()
	return s.lock.Unlock()
}

// Put stores kp under its address. Storing an address twice keeps the first entry.
func (s *Store) Put(ctx context.Context, kp *crypto.Keypair, source string) error {
	e := Entry{
		Address:   kp.PublicKey.String(),
		Secret:    append([]byte(nil), kp.PrivateKey[:]...),
		Source:    source,
		CreatedAt: s.now().Unix(),
	}
	err := s.acc.Atomic(ctx, "keystore put", func(ctx context.Context, tx *sqlx.Tx) error {
		_, err := tx.NamedExecContext(ctx,
			`INSERT OR IGNORE INTO keys (address, secret, source, created_at)
			 VALUES (:address, :secret, :source, :created_at)`, e)
		return err
	})
	if err != nil {
		return err
	}
	s.log.With("source", source).Infof("stored key %s", e.Address)
	return nil
}

// Get loads the keypair stored for addr.
func (s *Store) Get(ctx context.Context, addr basics.Address) (*crypto.Keypair, error) {
	var e Entry
	err := s.acc.Atomic(ctx, "keystore get", func(ctx context.Context, tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &e, "SELECT address, secret, source, created_at FROM keys WHERE address = ?", addr.String())
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, addr)
	}
	if err != nil {
		return nil, err
	}
	return e.Keypair()
}

// List returns every stored entry without its secret, oldest first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	err := s.acc.Atomic(ctx, "keystore list", func(ctx context.Context, tx *sqlx.Tx) error {
		return tx.SelectContext(ctx, &entries, "SELECT address, source, created_at FROM keys ORDER BY created_at, rowid")
	})
	return entries, err
}
