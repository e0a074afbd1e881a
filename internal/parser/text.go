// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package parser

import (
	"fmt"
	"os"
)

// parseText reads plain text files (.txt, .md) as-is.
func parseText(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read text file: %w", err)
	}
	if len(content) == 0 {
		return "", fmt.Errorf("no content in text file: %s", filePath)
	}
	return string(content), nil
}
