package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyRow      = errors.New("row has no tokens")
	ErrMalformedDate = errors.New("malformed date")
	ErrUnknownMonth  = errors.New("unknown month abbreviation")
	ErrNoAmount      = errors.New("no amount digits")
)

// months maps lowercase three-letter month abbreviations to month numbers.
var months = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// monthNumber looks up a month abbreviation, ignoring case and surrounding
// whitespace.
func monthNumber(abbr string) (int, bool) {
	m, ok := months[strings.ToLower(strings.TrimSpace(abbr))]
	return m, ok
}

// formatDate converts a "Mon D" fragment (e.g. "Dec 3") into "YYYY-MM-DD"
// using the given year.
func formatDate(fragment string, year int) (string, error) {
	parts := strings.Fields(fragment)
	if len(parts) != 2 {
		return "", fmt.Errorf("%w: %q", ErrMalformedDate, fragment)
	}

	month, ok := monthNumber(parts[0])
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMonth, parts[0])
	}

	day, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", fmt.Errorf("%w: day %q", ErrMalformedDate, parts[1])
	}

	// time.Date normalizes out-of-range days (Feb 30 -> Mar 2); reject those.
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return "", fmt.Errorf("%w: no day %d in %s %d", ErrMalformedDate, day, time.Month(month), year)
	}

	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), nil
}

// isShortDate reports whether two tokens form a "Mon D" pair.
func isShortDate(month, day string) bool {
	if _, ok := monthNumber(month); !ok {
		return false
	}
	d, err := strconv.Atoi(day)
	return err == nil && d >= 1 && d <= 31
}

// parseAmount converts a token like "$1,234.56" or "-$12.00" to a decimal.
// Everything except digits and the decimal point is removed; a minus sign
// ahead of the first digit makes the amount negative.
func parseAmount(s string) (decimal.Decimal, error) {
	var b strings.Builder
	negative := false
	seenDigit := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
			b.WriteRune(r)
		case r == '.':
			b.WriteRune(r)
		case r == '-' && !seenDigit:
			negative = true
		}
	}

	cleaned := b.String()
	if !seenDigit {
		return decimal.Decimal{}, fmt.Errorf("%w in %q", ErrNoAmount, s)
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}

// flattenRow joins a row's cells with single spaces.
func flattenRow(cells []string) string {
	return strings.Join(cells, " ")
}

// splitFields splits a line into whitespace-separated tokens.
func splitFields(line string) []string {
	return strings.Fields(line)
}
