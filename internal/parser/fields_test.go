package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFields(t *testing.T) {
	tests := []struct {
		name      string
		row       string
		date      string
		dateErr   bool
		descr     string
		amount    string
		amountErr bool
	}{
		{
			name:   "transaction and posting date",
			row:    "Dec 30 Dec 31 COFFEE SHOP SEATTLE WA $4.50",
			date:   "2024-12-30",
			descr:  "COFFEE SHOP SEATTLE WA",
			amount: "4.5",
		},
		{
			name:   "no posting date",
			row:    "Jan 2 Grocery Store 55.10",
			date:   "2024-01-02",
			descr:  "Grocery Store",
			amount: "55.1",
		},
		{
			name:   "detached minus sign",
			row:    "Jan 9 Jan 9 CAPITAL ONE MOBILE PYMT - $250.00",
			date:   "2024-01-09",
			descr:  "CAPITAL ONE MOBILE PYMT",
			amount: "-250",
		},
		{
			name:   "attached minus sign",
			row:    "Jan 9 Jan 10 REFUND -$12.00",
			date:   "2024-01-09",
			descr:  "REFUND",
			amount: "-12",
		},
		{
			name:    "bad month keeps other fields",
			row:     "Foo 12 Bar 3 Widget 9.99",
			dateErr: true,
			descr:   "Bar 3 Widget",
			amount:  "9.99",
		},
		{
			name:      "bad amount keeps other fields",
			row:       "Mar 3 Mar 4 Widget n/a",
			date:      "2024-03-03",
			descr:     "Widget",
			amountErr: true,
		},
		{
			name:    "single token",
			row:     "12.00",
			dateErr: true,
			amount:  "12",
		},
		{
			name:   "date and amount only",
			row:    "Apr 1 3.00",
			date:   "2024-04-01",
			amount: "3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := extractFields(tt.row, 2024)

			if tt.dateErr {
				assert.Error(t, f.date.err)
			} else {
				assert.NoError(t, f.date.err)
				assert.Equal(t, tt.date, f.date.value)
			}

			assert.NoError(t, f.descr.err)
			assert.Equal(t, tt.descr, f.descr.value)

			if tt.amountErr {
				assert.Error(t, f.amount.err)
			} else {
				assert.NoError(t, f.amount.err)
				assert.Equal(t, tt.amount, f.amount.value.String())
			}
		})
	}
}

func TestExtractFields_EmptyRow(t *testing.T) {
	f := extractFields("   ", 2024)
	assert.ErrorIs(t, f.date.err, ErrEmptyRow)
	assert.ErrorIs(t, f.descr.err, ErrEmptyRow)
	assert.ErrorIs(t, f.amount.err, ErrEmptyRow)
}
