package parser

import (
	"strings"

	"github.com/shopspring/decimal"
)

// field is the outcome of one field derivation: a value, or the error that
// prevented it. A failed field is written out as an empty placeholder.
type field[T any] struct {
	value T
	err   error
}

func (f field[T]) ok() bool {
	return f.err == nil
}

// rowFields holds the three independently derived fields of a table row.
type rowFields struct {
	date   field[string]
	descr  field[string]
	amount field[decimal.Decimal]
}

// extractFields slices an in-table row into date, description and amount.
//
// Row layout: "<Mon> <D> [<Mon> <D>] <description...> [-] <amount>", where the
// optional second date is the posting date and is not retained.
func extractFields(row string, year int) rowFields {
	tokens := splitFields(row)
	if len(tokens) == 0 {
		return rowFields{
			date:   field[string]{err: ErrEmptyRow},
			descr:  field[string]{err: ErrEmptyRow},
			amount: field[decimal.Decimal]{err: ErrEmptyRow},
		}
	}

	var out rowFields

	dateTokens := tokens
	if len(dateTokens) > 2 {
		dateTokens = dateTokens[:2]
	}
	out.date.value, out.date.err = formatDate(strings.Join(dateTokens, " "), year)

	last := len(tokens) - 1
	out.amount.value, out.amount.err = parseAmount(tokens[last])

	// A detached sign ("- $25.00") belongs to the amount, not the description.
	end := last
	if end >= 3 && tokens[end-1] == "-" {
		end--
		if out.amount.ok() {
			out.amount.value = out.amount.value.Neg()
		}
	}

	start := 2
	if len(tokens) >= 4 && isShortDate(tokens[2], tokens[3]) {
		start = 4
	}
	if end > start {
		out.descr.value = strings.Join(tokens[start:end], " ")
	}

	return out
}
