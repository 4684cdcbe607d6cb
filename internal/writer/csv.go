package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// DefaultDelimiter separates columns unless configured otherwise.
const DefaultDelimiter = '|'

// Header is the fixed column header of every dataset.
var Header = []string{"date", "descr", "amount"}

// DelimitedWriter writes transactions as delimited text with the columns
// date, descr, amount. Fields that failed to parse are written as empty
// strings.
type DelimitedWriter struct {
	Delimiter rune
}

// ParseDelimiter validates a user-supplied delimiter string.
func ParseDelimiter(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if !validDelimiter(r) {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r, nil
}

func validDelimiter(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' && r != utf8.RuneError
}

func (w *DelimitedWriter) delimiter() rune {
	if w.Delimiter == 0 {
		return DefaultDelimiter
	}
	return w.Delimiter
}

// WriteToFile writes transactions to a file at the given path.
func (w *DelimitedWriter) WriteToFile(path string, txns []models.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}

	if err := w.Write(f, txns); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write writes transactions in delimited format to the given writer.
func (w *DelimitedWriter) Write(out io.Writer, txns []models.Transaction) error {
	delim := w.delimiter()
	if !validDelimiter(delim) {
		return fmt.Errorf("invalid delimiter %q", delim)
	}

	writer := csv.NewWriter(out)
	writer.Comma = delim

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, txn := range txns {
		row := []string{
			txn.Date,
			txn.Description,
			FormatAmount(txn.Amount),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// FormatAmount renders an amount with two decimals, or "" when the amount
// was not parsed.
func FormatAmount(amount decimal.NullDecimal) string {
	if !amount.Valid {
		return ""
	}
	return amount.Decimal.StringFixed(2)
}
