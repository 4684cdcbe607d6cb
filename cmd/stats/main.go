package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/insightdelivered/statement-parser/internal/dataset"
	"github.com/insightdelivered/statement-parser/internal/logger"
	"github.com/insightdelivered/statement-parser/internal/writer"
)

func main() {
	delimFlag := flag.String("delim", "|", "Column delimiter of the input and output datasets")
	outputFlag := flag.String("o", "", "Output file (defaults to stdout)")
	concatFlag := flag.Bool("concat", false, "Write the concatenated dataset instead of monthly stats")
	quietFlag := flag.Bool("quiet", false, "Only log errors")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Combine converted statement datasets.

Usage:
  stats [flags] <jan.txt> [feb.txt ...]

By default prints count, sum, mean and standard deviation of amounts per
month. With -concat, writes the combined dataset, dropping rows whose date
could not be parsed.

Flags:
`)
		flag.PrintDefaults()
	}
	flag.Parse()

	log := logger.New(logger.Options{Quiet: *quietFlag})

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	delim, err := writer.ParseDelimiter(*delimFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid -delim")
	}

	if err := run(flag.Args(), *outputFlag, delim, *concatFlag); err != nil {
		log.Fatal().Err(err).Msg("stats failed")
	}
	log.Info().Int("files", flag.NArg()).Msg("done")
}

func run(paths []string, output string, delim rune, concat bool) error {
	txns, err := dataset.Concat(paths, delim)
	if err != nil {
		return err
	}

	write := func(out io.Writer) error {
		if concat {
			w := &writer.DelimitedWriter{Delimiter: delim}
			return w.Write(out, txns)
		}
		return dataset.WriteStats(out, dataset.MonthlyStats(txns), delim)
	}

	if output == "" {
		return write(os.Stdout)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", output, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
