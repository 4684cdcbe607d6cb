package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Transaction represents a single statement transaction.
//
// Date is "YYYY-MM-DD" or "" when the date could not be parsed. Amount is
// not Valid when the amount could not be parsed.
type Transaction struct {
	Date        string              `json:"date"`
	Description string              `json:"descr"`
	Amount      decimal.NullDecimal `json:"amount"`
}

// MarshalJSON writes the amount as a JSON number, or null when it was not
// parsed.
func (t Transaction) MarshalJSON() ([]byte, error) {
	amount := json.RawMessage("null")
	if t.Amount.Valid {
		amount = json.RawMessage(t.Amount.Decimal.String())
	}
	return json.Marshal(struct {
		Date        string          `json:"date"`
		Description string          `json:"descr"`
		Amount      json.RawMessage `json:"amount"`
	}{t.Date, t.Description, amount})
}

// BankType represents supported bank statement formats.
type BankType string

const (
	BankCapitalOne BankType = "capitalone"
)

// Page is one page of extracted table text: ordered rows of ordered cells.
type Page struct {
	Number int   `json:"number,omitempty"`
	Rows   []Row `json:"rows"`
}

// Row is an ordered sequence of text cells.
type Row []string

// Warning records a field that could not be parsed. The record it belongs to
// still exists, with an empty placeholder for the field.
type Warning struct {
	Page  int    `json:"page"`
	Row   int    `json:"row"`
	Field string `json:"field"`
	Text  string `json:"text"`
	Err   string `json:"error"`
}

// StatementInfo holds everything assembled from one statement.
type StatementInfo struct {
	Bank          BankType      `json:"bank"`
	ReferenceYear int           `json:"referenceYear"`
	Transactions  []Transaction `json:"transactions"`
	Warnings      []Warning     `json:"warnings,omitempty"`
	// RolledOver counts December records moved to the previous year.
	RolledOver int `json:"rolledOver,omitempty"`
}
