package dataset

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-parser/internal/models"
	"github.com/insightdelivered/statement-parser/internal/writer"
)

func writeDataset(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func amt(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestRead(t *testing.T) {
	input := "date|descr|amount\n" +
		"2024-01-02|Grocery Store|55.10\n" +
		"|Mystery|3.00\n" +
		"2024-01-03|No Amount|\n"

	txns, err := Read(strings.NewReader(input), '|')
	require.NoError(t, err)
	require.Len(t, txns, 3)

	assert.Equal(t, "Grocery Store", txns[0].Description)
	assert.True(t, txns[0].Amount.Decimal.Equal(decimal.RequireFromString("55.1")))
	assert.Empty(t, txns[1].Date)
	assert.False(t, txns[2].Amount.Valid)
}

func TestRead_RoundTripsWriterOutput(t *testing.T) {
	in := []models.Transaction{
		{Date: "2023-12-30", Description: "Coffee | Tea", Amount: amt("4.50")},
		{Date: "", Description: "broken", Amount: decimal.NullDecimal{}},
	}
	var buf bytes.Buffer
	require.NoError(t, (&writer.DelimitedWriter{}).Write(&buf, in))

	out, err := Read(&buf, '|')
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Coffee | Tea", out[0].Description)
	assert.False(t, out[1].Amount.Valid)
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"wrong header", "when|what|how much\n"},
		{"wrong column count", "date|descr|amount\n2024-01-01|x\n"},
		{"bad amount", "date|descr|amount\n2024-01-01|x|abc\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), '|')
			assert.Error(t, err)
		})
	}
}

func TestConcat(t *testing.T) {
	a := writeDataset(t, "jan.txt", "date|descr|amount\n2024-01-02|A|1.00\n|dropped|2.00\n")
	b := writeDataset(t, "feb.txt", "date|descr|amount\n2024-02-03|B|3.00\n")

	txns, err := Concat([]string{a, b}, '|')
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, "A", txns[0].Description)
	assert.Equal(t, "B", txns[1].Description)
}

func TestConcat_MissingFile(t *testing.T) {
	_, err := Concat([]string{filepath.Join(t.TempDir(), "nope.txt")}, '|')
	assert.Error(t, err)
}

func TestMonthlyStats(t *testing.T) {
	txns := []models.Transaction{
		{Date: "2024-01-02", Amount: amt("10")},
		{Date: "2024-01-20", Amount: amt("20")},
		{Date: "2023-12-30", Amount: amt("4.50")},
		{Date: "", Amount: amt("99")},
		{Date: "2024-01-21"},
	}

	stats := MonthlyStats(txns)
	require.Len(t, stats, 2)

	assert.Equal(t, "2023-12", stats[0].Month)
	assert.Equal(t, 1, stats[0].Count)
	assert.True(t, math.IsNaN(stats[0].Std))

	assert.Equal(t, "2024-01", stats[1].Month)
	assert.Equal(t, 2, stats[1].Count)
	assert.Equal(t, "30.00", stats[1].Sum.StringFixed(2))
	assert.Equal(t, "15.00", stats[1].Mean.StringFixed(2))
	assert.InDelta(t, 7.0711, stats[1].Std, 0.0001)
}

func TestWriteStats(t *testing.T) {
	stats := MonthlyStats([]models.Transaction{
		{Date: "2024-01-02", Amount: amt("10")},
		{Date: "2024-01-20", Amount: amt("20")},
		{Date: "2024-02-01", Amount: amt("5")},
	})

	var buf bytes.Buffer
	require.NoError(t, WriteStats(&buf, stats, '|'))

	expected := "month|count|amount_sum|amount_mean|amount_std\n" +
		"2024-01|2|30.00|15.00|7.07\n" +
		"2024-02|1|5.00|5.00|\n"
	assert.Equal(t, expected, buf.String())
}
