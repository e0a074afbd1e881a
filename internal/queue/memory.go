package queue

import (
	"context"
)

// MemoryQueue is an in-process Queue used in tests and when running
// without Redis.
type MemoryQueue struct {
	jobs chan Job
}

// NewMemoryQueue creates a memory queue with the given buffer size.
func NewMemoryQueue(size int) *MemoryQueue {
	if size <= 0 {
		size = 256
	}
	return &MemoryQueue{jobs: make(chan Job, size)}
}

// Enqueue adds a job, blocking if the buffer is full.
func (m *MemoryQueue) Enqueue(ctx context.Context, job Job) error {
	select {
	case m.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dequeue blocks until a job is available or the context is cancelled.
func (m *MemoryQueue) Dequeue(ctx context.Context) (Job, error) {
	select {
	case job := <-m.jobs:
		return job, nil
	case <-ctx.Done():
		return Job{}, ctx.Err()
	}
}
