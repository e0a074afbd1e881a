// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package cache persists scraped items between pipeline runs so that a
// crawl can be resumed or replayed without refetching.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/docprep/internal/logger"
)

// Item is one scraped record.
type Item struct {
	URL       string    `json:"url"`
	Body      string    `json:"body"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Store is a SQLite-backed append-only item cache.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the cache at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		data TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append adds items to the cache, keeping whatever is already stored.
func (s *Store) Append(items []Item) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO items (data) VALUES (?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to serialize item: %w", err)
		}
		if _, err := stmt.Exec(string(data)); err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
	}
	return tx.Commit()
}

// LoadAll returns every cached item in insertion order. An empty cache
// yields an empty slice, not an error.
func (s *Store) LoadAll() ([]Item, error) {
	rows, err := s.db.Query("SELECT data FROM items ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		var item Item
		if err := json.Unmarshal([]byte(data), &item); err != nil {
			return nil, fmt.Errorf("failed to decode item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	if len(items) == 0 {
		logger.Debugf("item cache is empty")
		return []Item{}, nil
	}
	return items, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
