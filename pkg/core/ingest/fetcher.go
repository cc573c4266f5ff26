package ingest

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Fetcher downloads EDGAR resources with the User-Agent SEC requires and
// keeps raw submissions in a DocumentCache.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	archives   string
	tickersURL string
	cache      *DocumentCache
}

// NewFetcher creates a fetcher. An empty userAgent falls back to
// DefaultUserAgent; a nil cache disables caching.
func NewFetcher(userAgent string, cache *DocumentCache) *Fetcher {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		userAgent:  userAgent,
		archives:   ArchivesURL,
		tickersURL: TickersURL,
		cache:      cache,
	}
}

// WithEndpoints points the fetcher at another archive root and ticker
// mapping, such as a mirror or a test server.
func (f *Fetcher) WithEndpoints(archives, tickers string) *Fetcher {
	f.archives = archives
	f.tickersURL = tickers
	return f
}

// Archives returns the archive root the fetcher reads from.
func (f *Fetcher) Archives() string { return f.archives }

// Get downloads url.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("SEC returned status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}
	return body, nil
}

// Document returns a raw submission, reading the cache first and writing
// fetched content back to it.
func (f *Fetcher) Document(ctx context.Context, url string) (string, error) {
	if f.cache != nil {
		content, ok, err := f.cache.Get(url)
		if err != nil {
			return "", err
		}
		if ok {
			return content, nil
		}
	}

	body, err := f.Get(ctx, url)
	if err != nil {
		return "", err
	}
	content := string(body)

	if f.cache != nil {
		if err := f.cache.Put(url, content); err != nil {
			// another worker fetched the same document
			log.Printf("[Fetcher] cache write skipped for %s: %v", url, err)
		}
	}
	return content, nil
}
