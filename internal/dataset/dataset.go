// Package dataset reads and combines the date|descr|amount datasets the
// parser writes.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-parser/internal/models"
	"github.com/insightdelivered/statement-parser/internal/writer"
)

// Read parses a delimited dataset with a date, descr, amount header.
// Empty dates and amounts are kept as placeholders.
func Read(r io.Reader, delim rune) ([]models.Transaction, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = len(writer.Header)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("dataset is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i, col := range writer.Header {
		if strings.TrimSpace(strings.ToLower(header[i])) != col {
			return nil, fmt.Errorf("unexpected column %d: got %q, want %q", i+1, header[i], col)
		}
	}

	var txns []models.Transaction
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		txn := models.Transaction{Date: rec[0], Description: rec[1]}
		if s := strings.TrimSpace(rec[2]); s != "" {
			amt, err := decimal.NewFromString(s)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid amount %q: %w", line, s, err)
			}
			txn.Amount = decimal.NewNullDecimal(amt)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// ReadFile reads a dataset from disk.
func ReadFile(path string, delim rune) ([]models.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	txns, err := Read(f, delim)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return txns, nil
}

// Concat reads every dataset in order and drops records without a date.
func Concat(paths []string, delim rune) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, path := range paths {
		txns, err := ReadFile(path, delim)
		if err != nil {
			return nil, err
		}
		for _, txn := range txns {
			if txn.Date == "" {
				continue
			}
			out = append(out, txn)
		}
	}
	return out, nil
}
