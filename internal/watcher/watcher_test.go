// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/docprep/internal/queue"
)

func TestDebouncer_CoalescesBursts(t *testing.T) {
	var mu sync.Mutex
	calls := map[string]int{}

	d := NewDebouncer(50*time.Millisecond, func(path string) {
		mu.Lock()
		defer mu.Unlock()
		calls[path]++
	})
	defer d.Stop()

	for i := 0; i < 5; i++ {
		d.Trigger("/tmp/report.pdf")
	}
	d.Trigger("/tmp/other.txt")

	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if calls["/tmp/report.pdf"] != 1 {
		t.Errorf("Expected 1 callback for burst, got %d", calls["/tmp/report.pdf"])
	}
	if calls["/tmp/other.txt"] != 1 {
		t.Errorf("Expected 1 callback, got %d", calls["/tmp/other.txt"])
	}
}

func TestDecisionEngine(t *testing.T) {
	state, err := OpenState(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("OpenState failed: %v", err)
	}
	defer state.Close()
	engine := NewDecisionEngine(state)

	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte("original content"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	decision, err := engine.Decide(path)
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if !decision.ShouldProcess || decision.IngestType != IngestTypeNew {
		t.Errorf("Expected new-file decision, got %+v", decision)
	}
	if err := engine.MarkProcessed(decision); err != nil {
		t.Fatalf("MarkProcessed failed: %v", err)
	}

	// Unchanged content is skipped.
	decision, err = engine.Decide(path)
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if decision.ShouldProcess {
		t.Errorf("Expected unchanged file to be skipped, got %+v", decision)
	}

	// Changed content is an update.
	if err := os.WriteFile(path, []byte("changed content"), 0644); err != nil {
		t.Fatalf("failed to rewrite fixture: %v", err)
	}
	decision, err = engine.Decide(path)
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if !decision.ShouldProcess || decision.IngestType != IngestTypeUpdate {
		t.Errorf("Expected update decision, got %+v", decision)
	}
}

func TestManager_EnqueuesNewFiles(t *testing.T) {
	watchDir := t.TempDir()
	q := queue.NewMemoryQueue(8)

	m, err := NewManager([]string{watchDir}, q, filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if err := m.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer m.Stop()

	path := filepath.Join(watchDir, "incoming.txt")
	if err := os.WriteFile(path, []byte("A Document Arrives With Content."), 0644); err != nil {
		t.Fatalf("failed to write watched file: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	job, err := q.Dequeue(ctx)
	if err != nil {
		t.Fatalf("Expected an enqueued job: %v", err)
	}
	if job.Path != path || job.Type != queue.JobTypeIngest {
		t.Errorf("Unexpected job: %+v", job)
	}
	if job.IngestType != string(IngestTypeNew) {
		t.Errorf("Expected ingest type 'new', got %q", job.IngestType)
	}
}
