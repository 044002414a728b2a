// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package persist is a small key/value store backed by SQLite.
//
// Each value is stored with a CRC-8 of its bytes. A row whose checksum does
// not match is reported as ErrCorrupt so that callers fall back to defaults
// instead of trusting a damaged record.
package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// ErrCorrupt is returned by Get when the stored checksum does not match.
var ErrCorrupt = errors.New("persist: corrupt record")

// Store implements settings.KV on top of a SQLite database.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Open opens or creates the database at path. Use ":memory:" for a store
// that lives as long as the process.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("persist: open %s: %w", path, err)
	}
	// An in-memory database is per connection.
	db.SetMaxOpenConns(1)
	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("persist: initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS records (
		key INTEGER PRIMARY KEY,
		value BLOB NOT NULL,
		crc INTEGER NOT NULL,
		updated_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key uint32) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var value []byte
	var crc int64
	err := s.db.QueryRowContext(ctx, "SELECT value, crc FROM records WHERE key = ?", int64(key)).Scan(&value, &crc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("persist: get %d: %w", key, err)
	}
	if crc != int64(CRC8(value)) {
		return nil, false, fmt.Errorf("%w: key %d", ErrCorrupt, key)
	}
	return value, true, nil
}

// Put stores value under key, replacing any previous value.
func (s *Store) Put(ctx context.Context, key uint32, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO records (key, value, crc, updated_at) VALUES (?, ?, ?, strftime('%s', 'now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, crc = excluded.crc, updated_at = excluded.updated_at`,
		int64(key), value, int64(CRC8(value)),
	)
	if err != nil {
		return fmt.Errorf("persist: put %d: %w", key, err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
