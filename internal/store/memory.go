package store

import (
	"context"
	"sync"

	"github.com/docprep/internal/model"
)

// MemoryStore keeps indexed documents in memory. Used in tests and as a
// sink when no real store is configured.
type MemoryStore struct {
	mu     sync.Mutex
	docs   []model.Document
	labels []model.Label
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// IndexDocuments appends documents to the store.
func (m *MemoryStore) IndexDocuments(ctx context.Context, docs []model.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = append(m.docs, docs...)
	return nil
}

// IndexLabels appends labels to the store.
func (m *MemoryStore) IndexLabels(ctx context.Context, labels []model.Label) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.labels = append(m.labels, labels...)
	return nil
}

// Labels returns a snapshot of every label indexed so far.
func (m *MemoryStore) Labels() []model.Label {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Label, len(m.labels))
	copy(out, m.labels)
	return out
}

// Documents returns a snapshot of everything indexed so far.
func (m *MemoryStore) Documents() []model.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Document, len(m.docs))
	copy(out, m.docs)
	return out
}
