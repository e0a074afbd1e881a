// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package parser

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/docprep/internal/logger"
)

// parsePDF extracts text from a PDF file using go-fitz (MuPDF).
// Pages are joined with a form feed so paragraph reconstruction can
// splice paragraphs broken across page boundaries.
func parsePDF(filePath string) (string, error) {
	doc, err := fitz.New(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	pages := make([]string, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		pageText, err := doc.Text(i)
		if err != nil {
			logger.Warnf("failed to extract page %d of %s: %v", i, filePath, err)
			continue
		}
		pages = append(pages, pageText)
	}

	text := strings.Join(pages, "\f")
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text extracted from PDF: %s", filePath)
	}
	return text, nil
}
