package queue

import (
	"context"
	"time"
)

// JobTypeIngest asks a worker to convert and index one file.
const JobTypeIngest = "ingest"

// Job is a unit of pipeline work.
type Job struct {
	Type       string    `json:"type"`
	Path       string    `json:"path"`
	IngestType string    `json:"ingest_type,omitempty"` // new or update
	CreatedAt  time.Time `json:"createdAt"`
}

// Queue defines the interface for job queues.
type Queue interface {
	// Enqueue adds a job to the queue.
	Enqueue(ctx context.Context, job Job) error

	// Dequeue blocks until a job is available or the context is cancelled.
	Dequeue(ctx context.Context) (Job, error)
}
