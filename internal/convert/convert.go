// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package convert turns directories of mixed-format files into Documents
// ready for indexing into the document store.
package convert

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/docprep/internal/logger"
	"github.com/docprep/internal/model"
	"github.com/docprep/internal/parser"
	"github.com/docprep/internal/processor"
	"github.com/docprep/internal/tika"
)

// Options control directory conversion.
type Options struct {
	// CleanFunc, if set, is applied to each file's text before splitting.
	CleanFunc func(string) string

	// SplitParagraphs emits one document per blank-line paragraph instead
	// of one document per file.
	SplitParagraphs bool
}

// convertSuffixes are the formats handled by the plain conversion path.
var convertSuffixes = map[string]bool{".pdf": true, ".txt": true, ".docx": true}

// tikaSuffixes are the formats handled by the Tika-style path.
var tikaSuffixes = map[string]bool{".pdf": true, ".txt": true}

// Files converts every supported file under dir into Documents. Paragraph
// splitting, when enabled, is the naive blank-line split with no merging;
// use TikaFiles for reconstruction of OCR paragraph fragments.
func Files(dir string, opts Options) ([]model.Document, error) {
	paths, err := collect(dir, convertSuffixes)
	if err != nil {
		return nil, err
	}

	var docs []model.Document
	for _, path := range paths {
		logger.Printf("converting %s", path)
		text, err := parser.ParseFile(path)
		if err != nil {
			logger.Warnf("skipping %s: %v", path, err)
			continue
		}
		if opts.CleanFunc != nil {
			text = opts.CleanFunc(text)
		}

		meta := map[string]interface{}{"name": filepath.Base(path)}
		if !opts.SplitParagraphs {
			docs = append(docs, model.NewDocument(text, meta))
			continue
		}
		for _, para := range strings.Split(text, "\n\n") {
			if strings.TrimSpace(para) == "" {
				continue
			}
			docs = append(docs, model.NewDocument(para, model.CopyMeta(meta)))
		}
	}
	return docs, nil
}

// TikaFiles converts every supported file under dir through the unified
// converter and reconstructs paragraphs with the given options. Converter
// metadata is kept on each document, with "name" set to the file name.
func TikaFiles(dir string, opts processor.Options) ([]model.Document, error) {
	paths, err := collect(dir, tikaSuffixes)
	if err != nil {
		return nil, err
	}

	var docs []model.Document
	for _, path := range paths {
		logger.Printf("converting %s", path)
		res, err := tika.Convert(path)
		if err != nil {
			logger.Warnf("skipping %s: %v", path, err)
			continue
		}

		meta := res.Meta
		if meta == nil {
			meta = map[string]interface{}{}
		}
		meta["name"] = filepath.Base(path)
		docs = append(docs, processor.Reconstruct(res.Text, meta, opts)...)
	}
	return docs, nil
}

// collect walks dir and returns the files whose suffix is in allowed,
// warning about files it skips.
func collect(dir string, allowed map[string]bool) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		suffix := strings.ToLower(filepath.Ext(path))
		if !allowed[suffix] {
			logger.Warnf("skipped file %s as type %s is not supported here", path, suffix)
			return nil
		}
		if parser.IsTemporaryFile(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	return paths, nil
}
