// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package watcher

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/docprep/internal/logger"
	"github.com/docprep/internal/parser"
	"github.com/docprep/internal/queue"
)

// Manager watches directories for document changes and enqueues ingest
// jobs for files that are new or whose content changed.
type Manager struct {
	watchPaths []string
	queue      queue.Queue
	engine     *DecisionEngine
	state      *StateDB
	debouncer  *Debouncer
	watcher    *fsnotify.Watcher

	mu      sync.Mutex
	started bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager creates a watcher manager. statePath locates the SQLite
// file used to remember processed files across restarts.
func NewManager(watchPaths []string, q queue.Queue, statePath string) (*Manager, error) {
	if len(watchPaths) == 0 {
		return nil, fmt.Errorf("at least one watch path is required")
	}

	state, err := OpenState(statePath)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		watchPaths: watchPaths,
		queue:      q,
		engine:     NewDecisionEngine(state),
		state:      state,
		ctx:        ctx,
		cancel:     cancel,
	}
	m.debouncer = NewDebouncer(500*time.Millisecond, m.process)
	return m, nil
}

// Start begins watching the configured paths.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return fmt.Errorf("watcher already started")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	for _, path := range m.watchPaths {
		if err := os.MkdirAll(path, 0755); err != nil {
			w.Close()
			return fmt.Errorf("failed to create watch path %s: %w", path, err)
		}
		if err := w.Add(path); err != nil {
			w.Close()
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		logger.Printf("watching %s", path)
	}
	m.watcher = w
	m.started = true

	m.wg.Add(1)
	go m.eventLoop()
	return nil
}

func (m *Manager) eventLoop() {
	defer m.wg.Done()
	for {
		select {
		case <-m.ctx.Done():
			return
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			m.handleFile(event.Name)
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnf("watch error: %v", err)
		}
	}
}

func (m *Manager) handleFile(path string) {
	if parser.IsTemporaryFile(path) {
		return
	}
	if !parser.IsSupportedFile(path) {
		return
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}
	m.debouncer.Trigger(path)
}

// process runs after the debounce delay: decide, enqueue, record.
func (m *Manager) process(path string) {
	decision, err := m.engine.Decide(path)
	if err != nil {
		logger.Warnf("failed to examine %s: %v", path, err)
		return
	}
	if !decision.ShouldProcess {
		logger.Debugf("skipping %s: %s", path, decision.Reason)
		return
	}

	job := queue.Job{
		Type:       queue.JobTypeIngest,
		Path:       path,
		IngestType: string(decision.IngestType),
		CreatedAt:  time.Now().UTC(),
	}
	if err := m.queue.Enqueue(m.ctx, job); err != nil {
		logger.Errorf("failed to enqueue %s: %v", path, err)
		return
	}
	logger.Printf("enqueued %s ingest for %s (%s)", decision.IngestType, path, decision.Reason)

	if err := m.engine.MarkProcessed(decision); err != nil {
		logger.Warnf("failed to record state for %s: %v", path, err)
	}
}

// Stop shuts the watcher down and releases the state database.
func (m *Manager) Stop() {
	m.cancel()
	m.debouncer.Stop()

	m.mu.Lock()
	if m.watcher != nil {
		m.watcher.Close()
	}
	m.mu.Unlock()

	m.wg.Wait()
	m.state.Close()
}
