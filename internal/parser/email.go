// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package parser

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mnako/letters"
)

// parseEmail extracts the headers and body text from an EML file.
func parseEmail(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open EML file: %w", err)
	}
	defer file.Close()

	email, err := letters.ParseEmail(file)
	if err != nil {
		return "", fmt.Errorf("failed to parse EML file: %w", err)
	}

	var builder strings.Builder
	if email.Headers.Subject != "" {
		builder.WriteString("Subject: " + email.Headers.Subject + "\n")
	}
	if len(email.Headers.From) > 0 {
		from := email.Headers.From[0]
		if from.Name != "" {
			builder.WriteString(fmt.Sprintf("Sender: %s <%s>\n", from.Name, from.Address))
		} else {
			builder.WriteString("Sender: " + from.Address + "\n")
		}
	}
	if !email.Headers.Date.IsZero() {
		builder.WriteString("Date: " + email.Headers.Date.Format(time.RFC3339) + "\n")
	}
	builder.WriteString("\n")

	// Prefer the plain text body; fall back to raw HTML.
	if email.Text != "" {
		builder.WriteString(email.Text)
	} else if email.HTML != "" {
		builder.WriteString(email.HTML)
	}

	text := strings.TrimSpace(builder.String())
	if text == "" {
		return "", fmt.Errorf("no content extracted from EML: %s", filePath)
	}
	return text, nil
}
