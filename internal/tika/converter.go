// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package tika wraps the docconv converter, which plays the role an
// Apache Tika server would: one entry point for many file formats,
// returning extracted text plus converter metadata.
package tika

import (
	"fmt"

	"code.sajari.com/docconv"
)

// Result is the outcome of a single file conversion.
type Result struct {
	Text string
	Meta map[string]interface{}
}

// Convert extracts text and metadata from the file at path. The mime
// type is inferred from the file extension.
func Convert(path string) (*Result, error) {
	res, err := docconv.ConvertPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s: %w", path, err)
	}

	meta := make(map[string]interface{}, len(res.Meta))
	for k, v := range res.Meta {
		meta[k] = v
	}
	return &Result{Text: res.Body, Meta: meta}, nil
}
