// Command sheetcat prints a rectangular window of a delimited text file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/meigma/sheet"
)

type config struct {
	rowStart int64
	rowCount int
	colStart int64
	colCount int
	delim    string
	warm     int
	noHeader bool
	verbose  bool
}

func parseFlags() (config, string) {
	var cfg config
	flag.Int64Var(&cfg.rowStart, "row-start", 0, "first row of the window")
	flag.IntVar(&cfg.rowCount, "rows", 20, "number of rows in the window")
	flag.Int64Var(&cfg.colStart, "col-start", 0, "first column of the window")
	flag.IntVar(&cfg.colCount, "cols", 8, "number of columns in the window")
	flag.StringVar(&cfg.delim, "d", ",", "field delimiter (single byte)")
	flag.IntVar(&cfg.warm, "warm", 0, "pre-fault pages with this many workers before querying")
	flag.BoolVar(&cfg.noHeader, "no-header", false, "omit the alphabetic column header")
	flag.BoolVar(&cfg.verbose, "v", false, "enable debug logging")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: sheetcat [flags] <file>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if len(cfg.delim) != 1 {
		log.Fatalf("delimiter must be a single byte, got %q", cfg.delim)
	}
	return cfg, flag.Arg(0)
}

func main() {
	cfg, path := parseFlags()

	opts := []sheet.Option{sheet.WithDelimiter(cfg.delim[0])}
	if cfg.verbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		opts = append(opts, sheet.WithLogger(logger))
	}

	s, err := sheet.Open(path, opts...)
	if err != nil {
		log.Fatal(err)
	}
	defer s.Close()

	if cfg.warm > 0 {
		if err := s.Warm(context.Background(), cfg.warm); err != nil {
			log.Fatal(err)
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	if !cfg.noHeader {
		fmt.Fprint(w, "\t")
		for _, name := range s.GetHeaderChunk(cfg.colStart, cfg.colCount) {
			fmt.Fprintf(w, "%s\t", name)
		}
		fmt.Fprintln(w)
	}

	for _, row := range s.GetGridChunk(cfg.rowStart, cfg.rowCount, cfg.colStart, cfg.colCount) {
		fmt.Fprintf(w, "%d\t", row.Index)
		for _, cell := range row.Cells {
			fmt.Fprintf(w, "%s\t", cell)
		}
		fmt.Fprintln(w)
	}
}
