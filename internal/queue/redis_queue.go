// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/docprep/internal/logger"
)

// RedisQueue implements Queue using Redis lists.
type RedisQueue struct {
	client *redis.Client
	key    string
}

// NewRedisQueue creates a new Redis-backed queue on the given key.
func NewRedisQueue(client *redis.Client, key string) (*RedisQueue, error) {
	if key == "" {
		key = "docprep:ingest"
	}
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &RedisQueue{client: client, key: key}, nil
}

// Enqueue adds a job with RPUSH.
func (r *RedisQueue) Enqueue(ctx context.Context, job Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	if err := r.client.RPush(ctx, r.key, data).Err(); err != nil {
		return fmt.Errorf("failed to push job: %w", err)
	}
	logger.Debugf("enqueued %s job for %s", job.Type, job.Path)
	return nil
}

// Dequeue blocks with BLPOP until a job is available. The zero timeout
// blocks indefinitely; context cancellation interrupts the wait.
func (r *RedisQueue) Dequeue(ctx context.Context) (Job, error) {
	val, err := r.client.BLPop(ctx, 0, r.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Job{}, ctx.Err()
		}
		return Job{}, fmt.Errorf("failed to pop job: %w", err)
	}
	if len(val) < 2 {
		return Job{}, fmt.Errorf("unexpected BLPOP result of length %d", len(val))
	}

	var job Job
	if err := json.Unmarshal([]byte(val[1]), &job); err != nil {
		return Job{}, fmt.Errorf("failed to unmarshal job: %w", err)
	}
	return job, nil
}
