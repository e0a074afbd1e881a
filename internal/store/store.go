// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package store writes prepared Documents into a downstream document
// store for retrieval.
package store

import (
	"context"

	"github.com/docprep/internal/model"
)

// DocumentStore receives prepared documents and evaluation labels for
// bulk indexing. Write-side only; retrieval happens elsewhere.
type DocumentStore interface {
	IndexDocuments(ctx context.Context, docs []model.Document) error
	IndexLabels(ctx context.Context, labels []model.Label) error
}
