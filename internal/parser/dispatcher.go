// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/docprep/internal/logger"
)

// ParseFile routes a file to the appropriate extractor based on its extension.
func ParseFile(filePath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	var text string
	var err error

	switch ext {
	case ".pdf":
		text, err = parsePDF(filePath)
	case ".docx":
		text, err = parseDOCX(filePath)
	case ".txt", ".md":
		text, err = parseText(filePath)
	case ".html", ".htm":
		text, err = parseHTML(filePath)
	case ".xlsx", ".xls":
		text, err = parseExcel(filePath)
	case ".eml":
		text, err = parseEmail(filePath)
	default:
		return "", fmt.Errorf("unsupported file type: %s", ext)
	}
	if err != nil {
		return "", err
	}

	logger.Debugf("extracted %d characters from %s", len(text), filePath)
	return text, nil
}

// IsSupportedFile checks if a file extension has an extractor.
func IsSupportedFile(filePath string) bool {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".pdf", ".docx", ".txt", ".md", ".html", ".htm", ".xlsx", ".xls", ".eml":
		return true
	}
	return false
}

// IsTemporaryFile checks if a file is an editor or OS temporary file
// (e.g. ~$report.docx) that should never be ingested.
func IsTemporaryFile(filePath string) bool {
	base := filepath.Base(filePath)
	return strings.HasPrefix(base, "~$") ||
		strings.HasPrefix(base, "._") ||
		strings.HasSuffix(base, ".tmp")
}
