package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransaction_MarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		txn      Transaction
		expected string
	}{
		{
			name:     "amount is a number",
			txn:      Transaction{Date: "2024-01-02", Description: "Grocery Store", Amount: decimal.NewNullDecimal(decimal.RequireFromString("55.10"))},
			expected: `{"date":"2024-01-02","descr":"Grocery Store","amount":55.1}`,
		},
		{
			name:     "negative amount",
			txn:      Transaction{Date: "2024-01-03", Description: "Refund", Amount: decimal.NewNullDecimal(decimal.RequireFromString("-12"))},
			expected: `{"date":"2024-01-03","descr":"Refund","amount":-12}`,
		},
		{
			name:     "unparsed amount is null",
			txn:      Transaction{Description: "TAXI"},
			expected: `{"date":"","descr":"TAXI","amount":null}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.txn)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(got))
		})
	}
}

func TestTransaction_JSONDecodesNumber(t *testing.T) {
	var txn Transaction
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2023-12-30","descr":"Coffee Shop","amount":4.5}`), &txn))
	assert.True(t, txn.Amount.Valid)
	assert.Equal(t, "4.50", txn.Amount.Decimal.StringFixed(2))
}
