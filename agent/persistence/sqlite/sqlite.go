// Copyright 2024 Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License"). You may not
// use this file except in compliance with the License. A copy of the
// License is located at
//
// http://aws.amazon.com/apache2.0/
//
// or in the "license" file accompanying this file. This file is distributed
// on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND,
// either express or implied. See the License for the specific language governing
// permissions and limitations under the License.

// Package sqlite implements the persistence service on an embedded SQLite
// database through the pure Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fpstore/fpagent/agent/fileutil"
	"github.com/fpstore/fpagent/agent/log"
	"github.com/fpstore/fpagent/agent/persistence"

	_ "modernc.org/sqlite"
)

const (
	driverName = "sqlite"
	memoryPath = ":memory:"
	dsnPragmas = "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(10000)"
)

const schema = `CREATE TABLE IF NOT EXISTS fingerprint_records (
	key        TEXT PRIMARY KEY,
	max_size   INTEGER NOT NULL,
	value      BLOB NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
)`

// Store keeps one row per record.
type Store struct {
	log log.T
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path. ":memory:" opens a private
// in-memory database.
func Open(log log.T, path string) (*Store, error) {
	dsn := memoryPath
	if path != memoryPath {
		if err := fileutil.MakeDirs(filepath.Dir(path)); err != nil {
			return nil, err
		}
		dsn = path + dsnPragmas
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if path == memoryPath {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}

	store, err := New(log, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	log.Debugf("Opened fingerprint database %s", path)
	return store, nil
}

// New wraps an already opened database and creates the schema.
func New(log log.T, db *sql.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Store{log: log, db: db, now: time.Now}, nil
}

// Lookup selects the value of key.
func (s *Store) Lookup(ctx context.Context, key string) persistence.Lookup {
	if err := persistence.ValidateKey(key); err != nil {
		return persistence.Failed(err)
	}

	var value []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM fingerprint_records WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.NotFound()
	}
	if err != nil {
		return persistence.Failed(fmt.Errorf("failed to query %s: %w", key, err))
	}
	return persistence.Found(value)
}

// Create inserts an empty row for key unless one exists.
func (s *Store) Create(ctx context.Context, key string, maxSize int64) error {
	if err := persistence.ValidateKey(key); err != nil {
		return err
	}
	if err := persistence.ValidateSize(maxSize); err != nil {
		return err
	}

	now := s.now().UnixMilli()
	res, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO fingerprint_records (key, max_size, value, created_at, updated_at) VALUES (?, ?, x'', ?, ?)",
		key, maxSize, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert %s: %w", key, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to insert %s: %w", key, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", persistence.ErrAlreadyExists, key)
	}
	return nil
}

// Write updates the value of key inside a transaction that checks the reservation.
func (s *Store) Write(ctx context.Context, key string, data []byte) (err error) {
	if err = persistence.ValidateKey(key); err != nil {
		return
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var maxSize int64
	err = tx.QueryRowContext(ctx, "SELECT max_size FROM fingerprint_records WHERE key = ?", key).Scan(&maxSize)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", persistence.ErrNotFound, key)
	}
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", key, err)
	}
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%w: %d bytes written to %s, %d reserved", persistence.ErrSizeExceeded, len(data), key, maxSize)
	}

	if _, err = tx.ExecContext(ctx,
		"UPDATE fingerprint_records SET value = ?, updated_at = ? WHERE key = ?",
		append([]byte{}, data...), s.now().UnixMilli(), key); err != nil {
		return fmt.Errorf("failed to update %s: %w", key, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", key, err)
	}
	return nil
}

// Delete removes the row of key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := persistence.ValidateKey(key); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM fingerprint_records WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", persistence.ErrNotFound, key)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
