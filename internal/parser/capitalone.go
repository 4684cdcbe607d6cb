package parser

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-parser/internal/config"
	"github.com/insightdelivered/statement-parser/internal/models"
)

// CapitalOneParser handles Capital One monthly statements.
//
// The transaction table opens at the "Trans Date" header row and closes at
// any of the profile's footer banners. Rows inside look like:
//
//	Dec 30 Dec 31 COFFEE SHOP SEATTLE WA $4.50
//
// i.e. transaction date, posting date, description, amount. The year is not
// printed and comes from the reference year.
type CapitalOneParser struct {
	year   int
	layout config.Layout
	log    zerolog.Logger
}

func (p *CapitalOneParser) BankName() string {
	return "Capital One"
}

// Parse assembles every page and then applies the year rollover correction.
func (p *CapitalOneParser) Parse(pages []models.Page) (*models.StatementInfo, error) {
	info := p.Assemble(pages)
	CorrectYearRollover(info, p.log)
	return info, nil
}

// Assemble runs the table detector and field extractor over all pages in
// order, producing one record per in-table row. No cross-row correction is
// applied.
func (p *CapitalOneParser) Assemble(pages []models.Page) *models.StatementInfo {
	info := &models.StatementInfo{
		Bank:          models.BankCapitalOne,
		ReferenceYear: p.year,
		Transactions:  []models.Transaction{},
	}

	for i, page := range pages {
		num := page.Number
		if num == 0 {
			num = i + 1
		}
		p.scrapePage(num, page.Rows, info)
	}

	p.log.Debug().
		Int("pages", len(pages)).
		Int("transactions", len(info.Transactions)).
		Int("warnings", len(info.Warnings)).
		Msg("assembled statement")

	return info
}

func (p *CapitalOneParser) scrapePage(pageNum int, rows []models.Row, info *models.StatementInfo) {
	table := newTableDetector(p.layout)
	forwarded := 0

	for i, cells := range rows {
		line := flattenRow(cells)
		if !table.Next(line) {
			continue
		}
		forwarded++

		f := extractFields(line, p.year)
		txn := models.Transaction{}

		if f.date.ok() {
			txn.Date = f.date.value
		} else {
			p.warn(info, pageNum, i+1, "date", line, f.date.err)
		}
		if f.descr.ok() {
			txn.Description = f.descr.value
		} else {
			p.warn(info, pageNum, i+1, "descr", line, f.descr.err)
		}
		if f.amount.ok() {
			txn.Amount = decimal.NewNullDecimal(f.amount.value)
		} else {
			p.warn(info, pageNum, i+1, "amount", line, f.amount.err)
		}

		info.Transactions = append(info.Transactions, txn)
	}

	p.log.Debug().Int("page", pageNum).Int("rows", len(rows)).Int("inTable", forwarded).Msg("scraped page")
}

func (p *CapitalOneParser) warn(info *models.StatementInfo, page, row int, name, line string, err error) {
	info.Warnings = append(info.Warnings, models.Warning{
		Page:  page,
		Row:   row,
		Field: name,
		Text:  line,
		Err:   err.Error(),
	})
	p.log.Warn().
		Int("page", page).
		Int("row", row).
		Str("field", name).
		Str("text", line).
		Err(err).
		Msg("failed to parse field")
}
