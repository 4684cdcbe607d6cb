package parser

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/insightdelivered/statement-parser/internal/models"
)

func statementWithMonths(year int, counts map[int]int) *models.StatementInfo {
	info := &models.StatementInfo{ReferenceYear: year}
	for month := 1; month <= 12; month++ {
		for i := 0; i < counts[month]; i++ {
			info.Transactions = append(info.Transactions, models.Transaction{
				Date: fmt.Sprintf("%04d-%02d-%02d", year, month, i+1),
			})
		}
	}
	return info
}

func countYear(info *models.StatementInfo, prefix string) int {
	n := 0
	for _, txn := range info.Transactions {
		if len(txn.Date) >= len(prefix) && txn.Date[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func TestCorrectYearRollover_JanuaryDominant(t *testing.T) {
	info := statementWithMonths(2024, map[int]int{1: 10, 12: 2})

	changed := CorrectYearRollover(info, zerolog.Nop())

	assert.Equal(t, 2, changed)
	assert.Equal(t, 2, info.RolledOver)
	assert.Equal(t, 10, countYear(info, "2024-01-"))
	assert.Equal(t, 2, countYear(info, "2023-12-"))
	assert.Equal(t, 0, countYear(info, "2024-12-"))
}

func TestCorrectYearRollover_OtherDominantMonth(t *testing.T) {
	info := statementWithMonths(2024, map[int]int{1: 2, 6: 10})
	before := append([]models.Transaction(nil), info.Transactions...)

	changed := CorrectYearRollover(info, zerolog.Nop())

	assert.Zero(t, changed)
	assert.Equal(t, before, info.Transactions)
}

func TestCorrectYearRollover_DecemberDominant(t *testing.T) {
	info := statementWithMonths(2024, map[int]int{12: 8, 1: 3})

	assert.Zero(t, CorrectYearRollover(info, zerolog.Nop()))
	assert.Equal(t, 8, countYear(info, "2024-12-"))
}

func TestCorrectYearRollover_TieResolvesToEarliestMonth(t *testing.T) {
	info := statementWithMonths(2024, map[int]int{1: 4, 12: 4})

	assert.Equal(t, 4, CorrectYearRollover(info, zerolog.Nop()))
	assert.Equal(t, 4, countYear(info, "2023-12-"))

	info = statementWithMonths(2024, map[int]int{6: 3, 12: 3})
	assert.Zero(t, CorrectYearRollover(info, zerolog.Nop()))
}

func TestCorrectYearRollover_IgnoresUnparsedDates(t *testing.T) {
	info := statementWithMonths(2024, map[int]int{1: 2, 12: 1})
	// Placeholders never count towards the dominant month and are never rewritten.
	for i := 0; i < 5; i++ {
		info.Transactions = append(info.Transactions, models.Transaction{Date: ""})
	}

	assert.Equal(t, 1, CorrectYearRollover(info, zerolog.Nop()))
	assert.Equal(t, 1, countYear(info, "2023-12-"))
	empty := 0
	for _, txn := range info.Transactions {
		if txn.Date == "" {
			empty++
		}
	}
	assert.Equal(t, 5, empty)
}

func TestCorrectYearRollover_Empty(t *testing.T) {
	info := &models.StatementInfo{ReferenceYear: 2024}
	assert.Zero(t, CorrectYearRollover(info, zerolog.Nop()))
}

func TestDominantMonth(t *testing.T) {
	tests := []struct {
		name   string
		counts map[int]int
		month  int
		ok     bool
	}{
		{"empty", map[int]int{}, 0, false},
		{"single", map[int]int{3: 1}, 3, true},
		{"clear winner", map[int]int{1: 5, 2: 3, 3: 3}, 1, true},
		{"tie picks earliest", map[int]int{12: 5, 2: 3, 3: 5}, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			month, ok := dominantMonth(tt.counts)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.month, month)
		})
	}
}
