package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/insightdelivered/statement-parser/internal/config"
	"github.com/insightdelivered/statement-parser/internal/models"
)

// Parser defines the interface for bank statement parsers.
type Parser interface {
	// Parse takes extracted table rows from PDF pages and returns structured statement data.
	Parse(pages []models.Page) (*models.StatementInfo, error)
	// BankName returns the human-readable bank name.
	BankName() string
}

type options struct {
	year   int
	layout *config.Layout
	log    zerolog.Logger
	now    func() time.Time
}

// Option configures a parser.
type Option func(*options)

// WithYear sets the reference year for dates. Zero means the current year.
func WithYear(year int) Option {
	return func(o *options) { o.year = year }
}

// WithLayout replaces the built-in keyword profile.
func WithLayout(l config.Layout) Option {
	return func(o *options) {
		n := l.Normalize()
		o.layout = &n
	}
}

// WithLogger sets the logger used for field warnings and progress.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithClock sets the clock used to pick the default reference year.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Dates are written as four-digit years.
const (
	MinYear = 1
	MaxYear = 9999
)

// CheckYear rejects reference years that cannot be written as YYYY.
func CheckYear(year int) error {
	if year < MinYear || year > MaxYear {
		return fmt.Errorf("year %d out of range %d..%d", year, MinYear, MaxYear)
	}
	return nil
}

// New returns the appropriate parser for the given bank type.
func New(bankType models.BankType, opts ...Option) (Parser, error) {
	o := options{log: zerolog.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.year == 0 {
		o.year = o.now().Year()
	}
	if err := CheckYear(o.year); err != nil {
		return nil, err
	}

	switch bankType {
	case models.BankCapitalOne:
		layout := config.CapitalOne()
		if o.layout != nil {
			layout = *o.layout
		}
		if err := layout.Validate(); err != nil {
			return nil, err
		}
		return &CapitalOneParser{year: o.year, layout: layout, log: o.log}, nil
	default:
		return nil, fmt.Errorf("unsupported bank type: %q", bankType)
	}
}

// ParseBankType maps a user-supplied name to a BankType.
func ParseBankType(name string) (models.BankType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "capitalone", "capital-one", "capital_one", "capital one":
		return models.BankCapitalOne, nil
	default:
		return "", fmt.Errorf("unknown bank type %q. Supported: capitalone", name)
	}
}

// AutoDetect tries to identify the bank from the extracted text.
func AutoDetect(pages []models.Page) (models.BankType, error) {
	var b strings.Builder
	for _, p := range pages {
		for _, row := range p.Rows {
			b.WriteString(flattenRow(row))
			b.WriteByte('\n')
		}
	}
	combined := strings.ToLower(b.String())

	if containsAny(combined, config.CapitalOne().Detect) {
		return models.BankCapitalOne, nil
	}

	return "", fmt.Errorf("could not auto-detect bank from statement content; please specify --bank flag")
}
