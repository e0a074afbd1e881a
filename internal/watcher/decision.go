// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package watcher

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// IngestType classifies why a file is being processed.
type IngestType string

const (
	IngestTypeNew    IngestType = "new"
	IngestTypeUpdate IngestType = "update"
)

// Decision is the outcome of examining a changed file.
type Decision struct {
	Path          string
	Hash          string
	IngestType    IngestType
	ShouldProcess bool
	Reason        string
}

// DecisionEngine decides whether a file event leads to ingestion by
// comparing content hashes against the state database.
type DecisionEngine struct {
	state *StateDB
}

// NewDecisionEngine creates a new decision engine.
func NewDecisionEngine(state *StateDB) *DecisionEngine {
	return &DecisionEngine{state: state}
}

// Decide hashes the file and compares it to the recorded state.
func (de *DecisionEngine) Decide(path string) (*Decision, error) {
	hash, err := hashFile(path)
	if err != nil {
		return nil, err
	}

	decision := &Decision{Path: path, Hash: hash}
	prev, seen, err := de.state.Lookup(path)
	if err != nil {
		return nil, err
	}
	switch {
	case !seen:
		decision.IngestType = IngestTypeNew
		decision.ShouldProcess = true
		decision.Reason = "file not seen before"
	case prev != hash:
		decision.IngestType = IngestTypeUpdate
		decision.ShouldProcess = true
		decision.Reason = "content changed"
	default:
		decision.Reason = "content unchanged"
	}
	return decision, nil
}

// MarkProcessed records a successful ingestion.
func (de *DecisionEngine) MarkProcessed(decision *Decision) error {
	return de.state.Record(decision.Path, decision.Hash)
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
