package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"finstatements/pkg/core/edgar"
	"finstatements/pkg/core/store"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ErrMultipleFilings is returned for a company with more than one filing
// of the requested form in a quarter.
var ErrMultipleFilings = errors.New("multiple filings for one company and form in a quarter")

// Extractor parses a full submission. *edgar.ReportParser satisfies it.
type Extractor interface {
	ParseFiling(raw string) (*edgar.Filing, *edgar.Report, error)
}

// Sink receives extraction records. *store.ResultStore satisfies it.
type Sink interface {
	Save(ctx context.Context, rec *store.Record) error
}

// Failure is one company-quarter that could not be processed.
type Failure struct {
	CIK     string
	Quarter Quarter
	Err     error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s in %s: %v", f.CIK, f.Quarter, f.Err)
}

// Summary reports the outcome of a bulk run.
type Summary struct {
	RunID    string
	Parsed   int
	Missing  int
	Failures []Failure
	Elapsed  time.Duration
}

// BulkRunner fetches, parses and stores the filings of a set of companies
// over a range of quarters, one document per worker.
type BulkRunner struct {
	Fetcher   *Fetcher
	Index     *QuarterIndexStore
	Extractor Extractor
	Sink      Sink
	Form      string
	Workers   int
}

// Run processes every company for every quarter. Per-company failures
// are collected in the summary and never stop the run; only a quarter
// whose index cannot be loaded or a cancelled context returns an error.
func (r *BulkRunner) Run(ctx context.Context, quarters []Quarter, ciks []string) (*Summary, error) {
	start := time.Now()
	sum := &Summary{RunID: uuid.NewString()}
	form := r.Form
	if form == "" {
		form = "10-Q"
	}
	workers := r.Workers
	if workers < 1 {
		workers = 1
	}

	var mu sync.Mutex
	for _, q := range quarters {
		idx, err := r.Index.Load(ctx, q)
		if err != nil {
			return sum, err
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for _, cik := range ciks {
			urls := idx.Filings(cik, form)
			switch {
			case len(urls) == 0:
				log.Printf("[BulkRunner] no %s for %s in %s", form, cik, q)
				mu.Lock()
				sum.Missing++
				mu.Unlock()
				continue
			case len(urls) > 1:
				log.Printf("[BulkRunner] %d %s filings for %s in %s: %v", len(urls), form, cik, q, urls)
				mu.Lock()
				sum.Failures = append(sum.Failures, Failure{CIK: cik, Quarter: q, Err: ErrMultipleFilings})
				mu.Unlock()
				continue
			}

			g.Go(func() error {
				err := r.process(gctx, sum.RunID, cik, q, urls[0])
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					log.Printf("[BulkRunner] failed %s in %s: %v", cik, q, err)
					sum.Failures = append(sum.Failures, Failure{CIK: cik, Quarter: q, Err: err})
				} else {
					sum.Parsed++
				}
				return nil
			})
		}
		g.Wait()
		if err := ctx.Err(); err != nil {
			return sum, err
		}
	}
	sum.Elapsed = time.Since(start)
	log.Printf("[BulkRunner] run %s: %d parsed, %d missing, %d failed in %v",
		sum.RunID, sum.Parsed, sum.Missing, len(sum.Failures), sum.Elapsed)
	return sum, nil
}

func (r *BulkRunner) process(ctx context.Context, runID, cik string, q Quarter, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := r.Fetcher.Document(ctx, url)
	if err != nil {
		return err
	}
	filing, rep, err := r.Extractor.ParseFiling(raw)
	if err != nil {
		return fmt.Errorf("failed to split %s: %w", url, err)
	}
	if r.Sink == nil {
		return nil
	}
	return r.Sink.Save(ctx, store.NewRecord(runID, cik, q.String(), url, filing, rep))
}
