package extractor

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// columnGap separates cells in layout-preserving plain text.
var columnGap = regexp.MustCompile(`\s{2,}|\t`)

// RowsFromText turns plain text into rows, one per non-blank line. Runs of two
// or more spaces separate cells.
func RowsFromText(text string) []models.Row {
	var rows []models.Row
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var cells models.Row
		for _, cell := range columnGap.Split(line, -1) {
			if cell = strings.TrimSpace(cell); cell != "" {
				cells = append(cells, cell)
			}
		}
		rows = append(rows, cells)
	}
	return rows
}

// PageFromText builds a numbered page from plain text.
func PageFromText(number int, text string) models.Page {
	return models.Page{Number: number, Rows: RowsFromText(text)}
}

// PagesText flattens pages back to text, one row per line.
func PagesText(pages []models.Page) string {
	var b strings.Builder
	for _, p := range pages {
		for _, row := range p.Rows {
			b.WriteString(strings.Join(row, " "))
			b.WriteByte('\n')
		}
	}
	return b.String()
}
