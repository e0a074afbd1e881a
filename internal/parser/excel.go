package parser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// parseExcel flattens a spreadsheet into labelled rows, one sheet after
// another, so that cell values stay associated with their column headers.
func parseExcel(filePath string) (string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("no sheets found in Excel file: %s", filePath)
	}

	var builder strings.Builder
	for i, sheet := range sheets {
		if i > 0 {
			builder.WriteString("\n\n")
		}
		builder.WriteString("Sheet: " + sheet + "\n")

		rows, err := f.GetRows(sheet)
		if err != nil {
			// Sheet may be protected or corrupt; keep going.
			builder.WriteString(fmt.Sprintf("(unable to read sheet %s: %v)\n", sheet, err))
			continue
		}
		if len(rows) < 2 {
			continue
		}

		headers := rows[0]
		for _, row := range rows[1:] {
			var parts []string
			for col, value := range row {
				value = strings.TrimSpace(value)
				if value == "" {
					continue
				}
				header := ""
				if col < len(headers) {
					header = strings.TrimSpace(headers[col])
				}
				if header == "" {
					header = fmt.Sprintf("Column %d", col+1)
				}
				parts = append(parts, header+": "+value)
			}
			if len(parts) > 0 {
				builder.WriteString(strings.Join(parts, ", ") + "\n")
			}
		}
	}

	text := strings.TrimSpace(builder.String())
	if text == "" {
		return "", fmt.Errorf("no content extracted from Excel file: %s", filePath)
	}
	return text, nil
}
