// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package store

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/docprep/internal/model"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	docs := []model.Document{
		model.NewDocument("first", nil),
		model.NewDocument("second", nil),
	}
	if err := s.IndexDocuments(ctx, docs); err != nil {
		t.Fatalf("IndexDocuments failed: %v", err)
	}
	if err := s.IndexDocuments(ctx, docs[:1]); err != nil {
		t.Fatalf("IndexDocuments failed: %v", err)
	}

	got := s.Documents()
	if len(got) != 3 {
		t.Fatalf("Expected 3 documents, got %d", len(got))
	}
	if got[0].Text != "first" || got[2].Text != "first" {
		t.Errorf("Unexpected document order: %v", got)
	}

	labels := []model.Label{{Question: "what?", Answer: "this", Origin: "gold_label"}}
	if err := s.IndexLabels(ctx, labels); err != nil {
		t.Fatalf("IndexLabels failed: %v", err)
	}
	if got := s.Labels(); len(got) != 1 || got[0].Question != "what?" {
		t.Errorf("Unexpected labels: %v", got)
	}
}

func TestJSONLStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	s, err := NewJSONLStore(path)
	if err != nil {
		t.Fatalf("NewJSONLStore failed: %v", err)
	}

	docs := []model.Document{
		model.NewDocument("hello world", map[string]interface{}{"name": "a.txt"}),
		model.NewDocument("second line", nil),
	}
	if err := s.IndexDocuments(context.Background(), docs); err != nil {
		t.Fatalf("IndexDocuments failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer f.Close()

	var lines []model.Document
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var doc model.Document
		if err := json.Unmarshal(scanner.Bytes(), &doc); err != nil {
			t.Fatalf("invalid jsonl line: %v", err)
		}
		lines = append(lines, doc)
	}
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	if lines[0].Text != "hello world" || lines[0].Meta["name"] != "a.txt" {
		t.Errorf("Unexpected first line: %+v", lines[0])
	}
	if lines[1].ID != docs[1].ID {
		t.Errorf("Expected document IDs preserved, got %q", lines[1].ID)
	}
}

func TestJSONLStoreLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	s, err := NewJSONLStore(path)
	if err != nil {
		t.Fatalf("NewJSONLStore failed: %v", err)
	}

	labels := []model.Label{
		{Question: "who?", Answer: "them", IsCorrectAnswer: true, IsCorrectDocument: true, DocumentID: "d1", Origin: "gold_label"},
		{Question: "impossible?", NoAnswer: true, IsCorrectAnswer: true, IsCorrectDocument: true, DocumentID: "d1", Origin: "gold_label"},
	}
	if err := s.IndexLabels(context.Background(), labels); err != nil {
		t.Fatalf("IndexLabels failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	labelsPath := filepath.Join(filepath.Dir(path), "out_labels.jsonl")
	data, err := os.ReadFile(labelsPath)
	if err != nil {
		t.Fatalf("Expected labels written beside documents: %v", err)
	}

	var first model.Label
	lines := splitLines(data)
	if len(lines) != 2 {
		t.Fatalf("Expected 2 label lines, got %d", len(lines))
	}
	if err := json.Unmarshal(lines[0], &first); err != nil {
		t.Fatalf("invalid label line: %v", err)
	}
	if first.Question != "who?" || !first.IsCorrectAnswer {
		t.Errorf("Unexpected first label: %+v", first)
	}
}

func splitLines(data []byte) [][]byte {
	var lines [][]byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) > 0 {
			lines = append(lines, line)
		}
	}
	return lines
}
