// Command extract pulls normalized financial statements out of EDGAR
// filings, either from one local submission file or in bulk over a range
// of quarters.
//
//	extract -file 0000320193-94-000016.txt -format html
//	extract -tickers AAPL,IBM -from 1994Q1 -to 1996Q4 -form 10-Q
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"finstatements/pkg/core/edgar"
	"finstatements/pkg/core/ingest"
	"finstatements/pkg/core/store"
	"finstatements/pkg/core/utils"

	"github.com/joho/godotenv"
)

func main() {
	var (
		file    = flag.String("file", "", "parse one local submission file")
		format  = flag.String("format", "md", "output for -file: md, html or json")
		kinds   = flag.String("kinds", "", "comma-separated statement kinds (default all)")
		tickers = flag.String("tickers", "", "comma-separated tickers for a bulk run")
		ciks    = flag.String("ciks", "", "comma-separated CIKs for a bulk run")
		from    = flag.String("from", "", "first quarter of a bulk run, e.g. 1994Q1")
		to      = flag.String("to", "", "last quarter of a bulk run (default last complete quarter)")
		form    = flag.String("form", "10-Q", "form type for a bulk run")
	)
	flag.Parse()
	log.SetFlags(log.LstdFlags)

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}

	cfg := edgar.DefaultConfig()
	if path := os.Getenv("EDGAR_RULES_FILE"); path != "" {
		var err error
		if cfg, err = edgar.LoadConfig(path); err != nil {
			log.Fatalf("Error: %v", err)
		}
	}
	selected, err := parseKinds(*kinds)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	parser := edgar.NewReportParser(cfg, selected...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch {
	case *file != "":
		if err := extractFile(parser, *file, *format); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case *from != "":
		if err := bulk(ctx, parser, *tickers, *ciks, *from, *to, *form); err != nil {
			log.Fatalf("Error: %v", err)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func parseKinds(s string) ([]edgar.StatementKind, error) {
	var out []edgar.StatementKind
	for _, name := range splitList(s) {
		k, err := edgar.ParseKind(name)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func extractFile(parser *edgar.ReportParser, path, format string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read filing: %w", err)
	}
	filing, rep, err := parser.ParseFiling(string(raw))
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s %s", filepath.Base(path), filing.Form)
	if !filing.PeriodOfReport.IsZero() {
		title += " for period " + filing.PeriodOfReport.Format("2006-01-02")
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(store.NewRecord("", "", "", path, filing, rep))
	case "html":
		html, err := utils.MarkdownToHTML(utils.ReportMarkdown(title, rep))
		if err != nil {
			return err
		}
		fmt.Print(html)
	default:
		fmt.Print(utils.ReportMarkdown(title, rep))
	}
	return nil
}

// parseQuarter reads "1994Q1" or "1994-1".
func parseQuarter(s string) (ingest.Quarter, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	i := strings.IndexAny(s, "Q-")
	if i < 0 {
		return ingest.Quarter{}, fmt.Errorf("invalid quarter %q, want e.g. 1994Q1", s)
	}
	year, err := strconv.Atoi(s[:i])
	if err != nil {
		return ingest.Quarter{}, fmt.Errorf("invalid quarter %q: %w", s, err)
	}
	q, err := strconv.Atoi(s[i+1:])
	if err != nil {
		return ingest.Quarter{}, fmt.Errorf("invalid quarter %q: %w", s, err)
	}
	return ingest.Quarter{Year: year, Q: q}, nil
}

func bulk(ctx context.Context, parser *edgar.ReportParser, tickers, ciks, fromArg, toArg, form string) error {
	first, err := parseQuarter(fromArg)
	if err != nil {
		return err
	}
	last := ingest.LastComplete(time.Now())
	if toArg != "" {
		if last, err = parseQuarter(toArg); err != nil {
			return err
		}
	}
	quarters, err := ingest.Quarters(first, last, time.Now())
	if err != nil {
		return err
	}

	dataDir := os.Getenv("EDGAR_DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	cache, err := ingest.NewDocumentCache(filepath.Join(dataDir, "filings"))
	if err != nil {
		return err
	}
	fetcher := ingest.NewFetcher(os.Getenv("EDGAR_USER_AGENT"), cache)
	index, err := ingest.NewQuarterIndexStore(dataDir, fetcher)
	if err != nil {
		return err
	}

	ids := splitList(ciks)
	if t := splitList(tickers); len(t) > 0 {
		mapping, err := fetcher.LookupCIKs(ctx, t)
		if err != nil {
			return err
		}
		for _, ticker := range t {
			cik, ok := mapping[strings.ToUpper(ticker)]
			if !ok {
				log.Printf("Warning: ticker %s not found in SEC database", ticker)
				continue
			}
			ids = append(ids, cik)
		}
	}
	if len(ids) == 0 {
		return fmt.Errorf("no companies given, use -tickers or -ciks")
	}

	results, err := openStore(ctx, filepath.Join(dataDir, "results"))
	if err != nil {
		return err
	}

	workers, _ := strconv.Atoi(os.Getenv("EDGAR_WORKERS"))
	runner := &ingest.BulkRunner{
		Fetcher:   fetcher,
		Index:     index,
		Extractor: parser,
		Sink:      results,
		Form:      strings.ToUpper(form),
		Workers:   workers,
	}
	sum, err := runner.Run(ctx, quarters, ids)
	if err != nil {
		return err
	}
	fmt.Printf("run %s: %d parsed, %d missing, %d failed (%v)\n",
		sum.RunID, sum.Parsed, sum.Missing, len(sum.Failures), sum.Elapsed.Round(time.Millisecond))
	for _, f := range sum.Failures {
		fmt.Printf("  %v\n", f)
	}
	return nil
}

// openStore uses Postgres when DATABASE_URL is set and JSON files in dir
// otherwise.
func openStore(ctx context.Context, dir string) (*store.ResultStore, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return store.NewResultStore(nil, dir)
	}
	pool, err := store.OpenPool(ctx, dbURL)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(ctx, pool); err != nil {
		return nil, err
	}
	return store.NewResultStore(pool, "")
}
