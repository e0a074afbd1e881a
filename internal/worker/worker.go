// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/docprep/internal/logger"
	"github.com/docprep/internal/queue"
)

// HandlerFunc processes a job. It should return an error if processing fails.
type HandlerFunc func(ctx context.Context, job queue.Job) error

// StartWorkers starts a pool of workers that process jobs from the queue
// until the context is cancelled.
func StartWorkers(ctx context.Context, q queue.Queue, handler HandlerFunc, workerCount int) {
	logger.Printf("starting %d workers", workerCount)

	var wg sync.WaitGroup
	wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		workerID := i + 1
		go func() {
			defer wg.Done()
			workerLoop(ctx, q, handler, workerID)
		}()
	}
	wg.Wait()
	logger.Printf("all workers stopped")
}

func workerLoop(ctx context.Context, q queue.Queue, handler HandlerFunc, workerID int) {
	for {
		job, err := q.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			logger.Warnf("worker %d dequeue error: %v", workerID, err)
			continue
		}

		if err := handler(ctx, job); err != nil {
			logger.Errorf("worker %d failed %s job for %s: %v", workerID, job.Type, job.Path, err)
			continue
		}
		logger.Debugf("worker %d processed %s job for %s", workerID, job.Type, job.Path)
	}
}
