// Package ingest retrieves EDGAR filings for the extraction engine: the
// quarterly master index, the raw submissions it points to, and a bulk
// runner that feeds them through the report parser.
// API Documentation: https://www.sec.gov/developer
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	// ArchivesURL is the root every master index Filename is relative to.
	ArchivesURL = "https://www.sec.gov/Archives"
	// TickersURL maps ticker symbols to CIKs.
	TickersURL = "https://www.sec.gov/files/company_tickers.json"

	masterIndexPath = "/edgar/full-index/%d/QTR%d/master.idx"

	// DefaultUserAgent is sent when none is configured. SEC rejects
	// requests without a contact address.
	DefaultUserAgent = "FinStatements/1.0 (contact@example.com)"
)

// MasterIndexURL returns the master.idx location for a quarter under
// archives.
func MasterIndexURL(archives string, q Quarter) string {
	return strings.TrimSuffix(archives, "/") + fmt.Sprintf(masterIndexPath, q.Year, q.Q)
}

// =============================================================================
// TICKER LOOKUP
// =============================================================================

// LookupCIKs resolves ticker symbols to unpadded CIKs as they appear in
// the master index. Unknown tickers are left out of the result.
func (f *Fetcher) LookupCIKs(ctx context.Context, tickers []string) (map[string]string, error) {
	body, err := f.Get(ctx, f.tickersURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ticker mapping: %w", err)
	}

	// { "0": {"cik_str": 320193, "ticker": "AAPL", "title": "..."}, ... }
	var mapping map[string]struct {
		CIK    int    `json:"cik_str"`
		Ticker string `json:"ticker"`
		Title  string `json:"title"`
	}
	if err := json.Unmarshal(body, &mapping); err != nil {
		return nil, fmt.Errorf("failed to parse ticker mapping: %w", err)
	}

	wanted := make(map[string]bool, len(tickers))
	for _, t := range tickers {
		wanted[strings.ToUpper(t)] = true
	}
	out := make(map[string]string)
	for _, entry := range mapping {
		if wanted[entry.Ticker] {
			out[entry.Ticker] = fmt.Sprintf("%d", entry.CIK)
		}
	}
	return out, nil
}
