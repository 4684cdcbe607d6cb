package parser

import (
	"strings"

	"github.com/insightdelivered/statement-parser/internal/config"
)

// tableDetector tracks whether the rows of a single page are inside the
// transaction table. Create one per page; state never carries across pages.
type tableDetector struct {
	layout config.Layout
	inside bool
}

func newTableDetector(layout config.Layout) *tableDetector {
	return &tableDetector{layout: layout}
}

// Next consumes one row and reports whether it is a transaction row.
// Header and footer rows themselves are never transaction rows.
func (d *tableDetector) Next(row string) bool {
	lower := strings.ToLower(strings.TrimSpace(row))

	// Header first, so a row matching both a header and a footer opens the table.
	if containsAny(lower, d.layout.Header) {
		d.inside = true
		return false
	}
	if d.inside && containsAny(lower, d.layout.Footers) {
		d.inside = false
		return false
	}
	return d.inside
}

// containsAny expects text and needles already lowercased.
func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if needle != "" && strings.Contains(text, needle) {
			return true
		}
	}
	return false
}
