// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package worker

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/docprep/internal/logger"
	"github.com/docprep/internal/parser"
	"github.com/docprep/internal/processor"
	"github.com/docprep/internal/queue"
	"github.com/docprep/internal/store"
)

// IngestHandler returns a HandlerFunc that extracts text from the job's
// file, reconstructs paragraphs and indexes the resulting documents.
func IngestHandler(s store.DocumentStore, opts processor.Options) HandlerFunc {
	return func(ctx context.Context, job queue.Job) error {
		if job.Type != queue.JobTypeIngest {
			return fmt.Errorf("unexpected job type: %s", job.Type)
		}

		text, err := parser.ParseFile(job.Path)
		if err != nil {
			return fmt.Errorf("failed to extract %s: %w", job.Path, err)
		}

		meta := map[string]interface{}{
			"name": filepath.Base(job.Path),
			"path": job.Path,
		}
		if job.IngestType != "" {
			meta["ingest_type"] = job.IngestType
		}

		docs := processor.Reconstruct(text, meta, opts)
		if len(docs) == 0 {
			logger.Warnf("no content in %s, nothing to index", job.Path)
			return nil
		}
		return s.IndexDocuments(ctx, docs)
	}
}
