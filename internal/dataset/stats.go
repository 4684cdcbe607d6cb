package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// MonthStats aggregates the amounts of one calendar month.
type MonthStats struct {
	Month string // YYYY-MM
	Count int
	Sum   decimal.Decimal
	Mean  decimal.Decimal
	// Std is the sample standard deviation; NaN with fewer than two records.
	Std float64
}

// MonthlyStats groups records by month. Records without a parsable date or
// amount are skipped. Months are returned in ascending order.
func MonthlyStats(txns []models.Transaction) []MonthStats {
	groups := make(map[string][]decimal.Decimal)
	for _, txn := range txns {
		if !txn.Amount.Valid {
			continue
		}
		t, err := time.Parse(time.DateOnly, txn.Date)
		if err != nil {
			continue
		}
		key := t.Format("2006-01")
		groups[key] = append(groups[key], txn.Amount.Decimal)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]MonthStats, 0, len(keys))
	for _, k := range keys {
		amounts := groups[k]
		sum := decimal.Sum(decimal.Zero, amounts...)
		n := decimal.NewFromInt(int64(len(amounts)))
		mean := sum.Div(n)
		out = append(out, MonthStats{
			Month: k,
			Count: len(amounts),
			Sum:   sum,
			Mean:  mean,
			Std:   sampleStd(amounts, mean),
		})
	}
	return out
}

func sampleStd(amounts []decimal.Decimal, mean decimal.Decimal) float64 {
	if len(amounts) < 2 {
		return math.NaN()
	}
	m := mean.InexactFloat64()
	var ss float64
	for _, a := range amounts {
		d := a.InexactFloat64() - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(amounts)-1))
}

// WriteStats writes month stats as a delimited table.
func WriteStats(out io.Writer, stats []MonthStats, delim rune) error {
	w := csv.NewWriter(out)
	w.Comma = delim

	if err := w.Write([]string{"month", "count", "amount_sum", "amount_mean", "amount_std"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, s := range stats {
		std := ""
		if !math.IsNaN(s.Std) {
			std = strconv.FormatFloat(s.Std, 'f', 2, 64)
		}
		row := []string{
			s.Month,
			strconv.Itoa(s.Count),
			s.Sum.StringFixed(2),
			s.Mean.StringFixed(2),
			std,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}
