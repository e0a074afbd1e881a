// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package store

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/docprep/internal/model"
)

// JSONLStore appends documents to a jsonl file, one document per line.
// Labels go to a sibling file next to the document output. It serves as
// the indexing sink when no vector store is configured.
type JSONLStore struct {
	mu         sync.Mutex
	file       *os.File
	labelsPath string
	labels     *os.File
}

// NewJSONLStore opens (or creates) the output file in append mode.
func NewJSONLStore(path string) (*JSONLStore, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return &JSONLStore{file: file, labelsPath: labelsPathFor(path)}, nil
}

// labelsPathFor derives the label output path: documents.jsonl becomes
// documents_labels.jsonl.
func labelsPathFor(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_labels" + ext
}

// IndexDocuments writes documents as JSON lines.
func (s *JSONLStore) IndexDocuments(ctx context.Context, docs []model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := bufio.NewWriter(s.file)
	for _, doc := range docs {
		line, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to serialize document: %w", err)
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("failed to write document: %w", err)
		}
	}
	return w.Flush()
}

// IndexLabels writes labels as JSON lines to the sibling labels file,
// which is created on first use.
func (s *JSONLStore) IndexLabels(ctx context.Context, labels []model.Label) error {
	if len(labels) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.labels == nil {
		f, err := os.OpenFile(s.labelsPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", s.labelsPath, err)
		}
		s.labels = f
	}

	w := bufio.NewWriter(s.labels)
	for _, label := range labels {
		line, err := json.Marshal(label)
		if err != nil {
			return fmt.Errorf("failed to serialize label: %w", err)
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("failed to write label: %w", err)
		}
	}
	return w.Flush()
}

// Close closes the output files.
func (s *JSONLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.labels != nil {
		err = s.labels.Close()
		s.labels = nil
	}
	if cerr := s.file.Close(); cerr != nil {
		return cerr
	}
	return err
}
