// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// prepwatch runs the continuous ingestion pipeline: it watches the
// configured directories, queues changed files and converts and indexes
// them with a pool of workers.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/docprep/internal/config"
	"github.com/docprep/internal/embeddings"
	"github.com/docprep/internal/logger"
	"github.com/docprep/internal/processor"
	"github.com/docprep/internal/queue"
	"github.com/docprep/internal/store"
	"github.com/docprep/internal/watcher"
	"github.com/docprep/internal/worker"
)

var configPath = flag.String("config", "", "Path to yaml config file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.Init(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()
	log.SetDebug(cfg.Debug)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := buildQueue(ctx, cfg)
	sink, cleanup := buildStore(cfg)
	defer cleanup()

	opts := processor.Options{
		SplitParagraphs: cfg.Split.Paragraphs,
		MergeShort:      cfg.Split.MergeShort,
		MergeLowercase:  cfg.Split.MergeLowercase,
	}

	mgr, err := watcher.NewManager(cfg.WatchPaths, q, cfg.StatePath())
	if err != nil {
		logger.Fatalf("failed to create watcher: %v", err)
	}
	if err := mgr.Start(); err != nil {
		logger.Fatalf("failed to start watcher: %v", err)
	}

	workersDone := make(chan struct{})
	go func() {
		worker.StartWorkers(ctx, q, worker.IngestHandler(sink, opts), cfg.Workers)
		close(workersDone)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Printf("shutting down")

	mgr.Stop()
	cancel()
	<-workersDone
}

// buildQueue connects to Redis when configured, otherwise falls back to
// the in-process queue.
func buildQueue(ctx context.Context, cfg *config.Config) queue.Queue {
	if cfg.Redis.Addr == "" {
		logger.Printf("no redis configured, using in-process queue")
		return queue.NewMemoryQueue(0)
	}
	client, err := config.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatalf("failed to connect to redis: %v", err)
	}
	q, err := queue.NewRedisQueue(client, cfg.Redis.QueueKey)
	if err != nil {
		logger.Fatalf("failed to create queue: %v", err)
	}
	return q
}

// buildStore connects to Qdrant when configured, otherwise appends
// documents to the jsonl output file.
func buildStore(cfg *config.Config) (store.DocumentStore, func()) {
	if cfg.Qdrant.Addr == "" {
		logger.Printf("no qdrant configured, writing documents to %s", cfg.OutputPath())
		sink, err := store.NewJSONLStore(cfg.OutputPath())
		if err != nil {
			logger.Fatalf("failed to open output file: %v", err)
		}
		return sink, func() { sink.Close() }
	}

	embedderCfg := map[string]string{
		"base_url": cfg.Embedder.BaseURL,
		"model":    cfg.Embedder.Model,
	}
	if cfg.Embedder.Dimension > 0 {
		embedderCfg["dimension"] = strconv.Itoa(cfg.Embedder.Dimension)
	}
	embedder, err := embeddings.NewEmbedder(cfg.Embedder.Provider, embedderCfg)
	if err != nil {
		logger.Fatalf("failed to initialize embedder: %v", err)
	}
	logger.Printf("initialized %s embedder (dimension %d)", cfg.Embedder.Provider, embedder.Dimension())

	conn, err := grpc.NewClient(cfg.Qdrant.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		logger.Fatalf("failed to connect to qdrant: %v", err)
	}
	sink, err := store.NewQdrantStore(conn, embedder, cfg.Qdrant.Collection)
	if err != nil {
		logger.Fatalf("failed to initialize document store: %v", err)
	}
	return sink, func() { conn.Close() }
}
