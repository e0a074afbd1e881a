// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package watcher

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// StateDB tracks which files have been ingested and with what content
// hash, so restarts and duplicate events do not reprocess unchanged files.
type StateDB struct {
	db *sql.DB
}

// OpenState opens (or creates) the watcher state database at path.
func OpenState(path string) (*StateDB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}
	s := &StateDB{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize state schema: %w", err)
	}
	return s, nil
}

func (s *StateDB) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS files (
		path TEXT PRIMARY KEY,
		hash TEXT NOT NULL,
		processed_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Lookup returns the recorded hash for a path, with ok=false when the
// path has never been processed.
func (s *StateDB) Lookup(path string) (string, bool, error) {
	var hash string
	err := s.db.QueryRow("SELECT hash FROM files WHERE path = ?", path).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to look up %s: %w", path, err)
	}
	return hash, true, nil
}

// Record stores or updates the hash for a processed path.
func (s *StateDB) Record(path, hash string) error {
	_, err := s.db.Exec(
		"INSERT INTO files (path, hash, processed_at) VALUES (?, ?, ?) ON CONFLICT(path) DO UPDATE SET hash = excluded.hash, processed_at = excluded.processed_at",
		path, hash, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record %s: %w", path, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *StateDB) Close() error {
	return s.db.Close()
}
