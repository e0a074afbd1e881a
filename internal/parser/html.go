package parser

import (
	"fmt"
	"os"

	"github.com/PuerkitoBio/goquery"
)

// parseHTML extracts visible text from an HTML file.
func parseHTML(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open HTML file: %w", err)
	}
	defer file.Close()

	doc, err := goquery.NewDocumentFromReader(file)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	// Drop non-content elements before extracting text.
	doc.Find("script, style, noscript, iframe").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	text := doc.Text()
	if text == "" {
		return "", fmt.Errorf("no text extracted from HTML: %s", filePath)
	}
	return text, nil
}
