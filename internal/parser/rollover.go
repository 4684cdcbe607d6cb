package parser

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// CorrectYearRollover fixes statements that straddle New Year.
//
// Dates are normalized with a single reference year, so a statement covering
// late December and January comes out with December in the wrong year. When
// January is the dominant month, every December record is moved to the
// year before the reference year. It returns the number of records changed.
//
// This needs the whole document: run it only after every page is assembled.
// Statements spanning more than two months are not detected.
func CorrectYearRollover(info *models.StatementInfo, log zerolog.Logger) int {
	months := make([]int, len(info.Transactions))
	counts := make(map[int]int)
	for i, txn := range info.Transactions {
		t, err := time.Parse(time.DateOnly, txn.Date)
		if err != nil {
			continue
		}
		months[i] = int(t.Month())
		counts[months[i]]++
	}

	mode, ok := dominantMonth(counts)
	if !ok {
		log.Debug().Interface("months", counts).Msg("no parsed dates, skipping year rollover")
		return 0
	}
	if mode != int(time.January) {
		return 0
	}

	prevYear := info.ReferenceYear - 1
	changed := 0
	for i := range info.Transactions {
		if months[i] != int(time.December) {
			continue
		}
		txn := &info.Transactions[i]
		txn.Date = fmt.Sprintf("%04d%s", prevYear, txn.Date[4:])
		changed++
	}

	if changed > 0 {
		log.Debug().Int("records", changed).Int("year", prevYear).Msg("moved December records to previous year")
	}
	info.RolledOver += changed
	return changed
}

// dominantMonth returns the most frequent month. When several months share
// the highest count the earliest one wins, so a statement split evenly
// between December and January counts as a January statement. It reports
// false when there are no months at all.
func dominantMonth(counts map[int]int) (int, bool) {
	best, bestCount := 0, 0
	for month, n := range counts {
		if n > bestCount || (n == bestCount && month < best) {
			best, bestCount = month, n
		}
	}
	return best, bestCount > 0
}
