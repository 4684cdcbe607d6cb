package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/statement-parser/internal/config"
	"github.com/insightdelivered/statement-parser/internal/extractor"
	"github.com/insightdelivered/statement-parser/internal/logger"
	"github.com/insightdelivered/statement-parser/internal/models"
	"github.com/insightdelivered/statement-parser/internal/parser"
	"github.com/insightdelivered/statement-parser/internal/writer"
)

const version = "1.2.0"

// runConfig is everything processFile needs besides the input path.
type runConfig struct {
	bank    models.BankType
	output  string
	extract extractor.Options
	ocr     bool
	delim   rune
	year    int
	layout  *config.Layout
	log     zerolog.Logger
}

func main() {
	// CLI flags
	bankFlag := flag.String("bank", "", "Bank type: capitalone (auto-detected if omitted)")
	outputFlag := flag.String("output", "", "Output file path (defaults to input filename with .txt extension)")
	flag.StringVar(outputFlag, "o", "", "Shorthand for -output")
	pagesFlag := flag.String("pages", "all", "Pages to read: all, or a comma-separated list such as 1,2,5")
	flag.StringVar(pagesFlag, "p", "all", "Shorthand for -pages")
	areaFlag := flag.String("area", "0,0,2480,3508", "Extraction rectangle top,left,bottom,right in PDF points")
	flag.StringVar(areaFlag, "a", "0,0,2480,3508", "Shorthand for -area")
	delimFlag := flag.String("delim", "|", "Output column delimiter (single character)")
	flag.StringVar(delimFlag, "d", "|", "Shorthand for -delim")
	quietFlag := flag.Bool("quiet", false, "Only log errors")
	flag.BoolVar(quietFlag, "q", false, "Shorthand for -quiet")
	verboseFlag := flag.Bool("verbose", false, "Log per-page and per-field detail")
	yearFlag := flag.Int("year", 0, "Statement year (defaults to the current year)")
	passwordFlag := flag.String("password", "", "Password for encrypted statements")
	layoutFlag := flag.String("layout", "", "YAML layout profile overriding the built-in header/footer keywords")
	ocrFlag := flag.Bool("ocr", false, "Use OCR (pdftoppm + tesseract) for scanned statements or images")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Credit Card Statement PDF to Dataset Converter
by Insight Delivered (QEA AutoLens)

Reads the transaction table of Capital One monthly statements and writes
a delimited dataset with the columns date, descr, amount.

Usage:
  statement-parser [flags] <input.pdf> [input2.pdf ...]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Convert a statement to statement.txt
  statement-parser statement.pdf

  # December statement paid in January: pin the year
  statement-parser -year 2024 -o jan.txt jan.pdf

  # Only pages 2 and 3, comma-delimited
  statement-parser -p 2,3 -d , statement.pdf

  # Scanned statement
  statement-parser -ocr scan.pdf
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("statement-parser v%s\n", version)
		os.Exit(0)
	}

	if *helpFlag || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	log := logger.New(logger.Options{Quiet: *quietFlag, Verbose: *verboseFlag}).
		With().Str("run_id", uuid.NewString()).Logger()

	inputFiles := flag.Args()
	if *outputFlag != "" && len(inputFiles) > 1 {
		log.Fatal().Msg("-output can only be used with a single input file")
	}

	cfg := runConfig{output: *outputFlag, ocr: *ocrFlag, year: *yearFlag, log: log}
	if cfg.year != 0 {
		if err := parser.CheckYear(cfg.year); err != nil {
			log.Fatal().Err(err).Msg("invalid -year")
		}
	}

	if *bankFlag != "" {
		bank, err := parser.ParseBankType(*bankFlag)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid -bank")
		}
		cfg.bank = bank
	}

	var err error
	if cfg.extract, err = extractOptions(*pagesFlag, *areaFlag, *passwordFlag); err != nil {
		log.Fatal().Err(err).Msg("invalid extraction options")
	}
	if err := checkOCROptions(cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid -ocr options")
	}
	if cfg.delim, err = writer.ParseDelimiter(*delimFlag); err != nil {
		log.Fatal().Err(err).Msg("invalid -delim")
	}
	if *layoutFlag != "" {
		layout, err := config.LoadLayout(*layoutFlag)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid -layout")
		}
		cfg.layout = &layout
	}

	// Process each input file
	for _, inputPath := range inputFiles {
		if err := processFile(inputPath, cfg); err != nil {
			log.Error().Err(err).Str("file", inputPath).Msg("failed to process statement")
			os.Exit(1)
		}
	}
}

// extractOptions turns the page, area and password flags into extractor
// options. The default area covers the whole page and is not applied.
func extractOptions(pages, area, password string) (extractor.Options, error) {
	opts := extractor.Options{Password: password}

	var err error
	if opts.Pages, err = extractor.ParsePages(pages); err != nil {
		return opts, err
	}

	a, err := extractor.ParseArea(area)
	if err != nil {
		return opts, err
	}
	if a != extractor.DefaultArea {
		opts.Area = &a
	}
	return opts, nil
}

// checkOCROptions rejects extraction options the OCR path cannot apply.
func checkOCROptions(cfg runConfig) error {
	if !cfg.ocr {
		return nil
	}
	if cfg.extract.Area != nil {
		return fmt.Errorf("-area cannot be combined with -ocr")
	}
	if cfg.extract.Password != "" {
		return fmt.Errorf("-password cannot be combined with -ocr")
	}
	return nil
}

// defaultOutputPath replaces the input extension with .txt.
func defaultOutputPath(inputPath string) string {
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".txt"
}

func processFile(inputPath string, cfg runConfig) error {
	// Validate input file
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	ext := strings.ToLower(filepath.Ext(inputPath))
	isImage := extractor.IsImage(inputPath)
	if ext != ".pdf" && !(cfg.ocr && isImage) {
		return fmt.Errorf("expected .pdf file, got %q (images need -ocr)", ext)
	}

	log := cfg.log.With().Str("file", filepath.Base(inputPath)).Logger()
	log.Info().Msg("processing statement")

	// Extract table rows from the PDF
	var pages []models.Page
	var err error
	switch {
	case cfg.ocr && isImage:
		pages, err = extractor.ExtractImageOCR(inputPath)
	case cfg.ocr:
		pages, err = extractor.ExtractPagesOCR(inputPath, cfg.extract.Pages)
	default:
		pages, err = extractor.ExtractPages(inputPath, cfg.extract)
	}
	if err != nil {
		return fmt.Errorf("PDF extraction failed: %w", err)
	}

	log.Info().Int("pages", len(pages)).Msg("extracted text")

	// Auto-detect bank if not specified
	bank := cfg.bank
	if bank == "" {
		detected, err := parser.AutoDetect(pages)
		if err != nil {
			log.Warn().Err(err).Msg("assuming Capital One layout")
			detected = models.BankCapitalOne
		} else {
			log.Info().Str("bank", string(detected)).Msg("auto-detected bank")
		}
		bank = detected
	}

	opts := []parser.Option{parser.WithYear(cfg.year), parser.WithLogger(log)}
	if cfg.layout != nil {
		opts = append(opts, parser.WithLayout(*cfg.layout))
	}
	p, err := parser.New(bank, opts...)
	if err != nil {
		return err
	}

	log.Info().Str("parser", p.BankName()).Msg("parsing statement")

	info, err := p.Parse(pages)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	log.Info().
		Int("transactions", len(info.Transactions)).
		Int("warnings", len(info.Warnings)).
		Int("rolled_over", info.RolledOver).
		Msg("parsed statement")

	if len(info.Transactions) == 0 {
		log.Warn().Msg("no transactions found; the PDF may not contain a 'Trans Date' table or needs -ocr")
	}

	outPath := cfg.output
	if outPath == "" {
		outPath = defaultOutputPath(inputPath)
	}

	w := &writer.DelimitedWriter{Delimiter: cfg.delim}
	if err := w.WriteToFile(outPath, info.Transactions); err != nil {
		return fmt.Errorf("output write failed: %w", err)
	}

	log.Info().Str("output", outPath).Msg("done")
	return nil
}
