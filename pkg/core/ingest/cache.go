package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"
)

// DocumentCache stores raw submissions on disk, keyed by the last path
// segment of their URL. Files are written once and never modified.
type DocumentCache struct {
	dir string
}

// NewDocumentCache creates a cache in dir.
func NewDocumentCache(dir string) (*DocumentCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}
	return &DocumentCache{dir: dir}, nil
}

// filePath returns the file a URL is cached in.
func (c *DocumentCache) filePath(url string) string {
	return filepath.Join(c.dir, path.Base(url))
}

// Get returns the cached content for url and whether it was present.
func (c *DocumentCache) Get(url string) (string, bool, error) {
	data, err := os.ReadFile(c.filePath(url))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read cached %s: %w", url, err)
	}
	return string(data), true, nil
}

// Put writes content for url. It fails if the file already exists.
// Content is written to a temporary file and linked into place, so Get
// never sees a partial document.
func (c *DocumentCache) Put(url, content string) error {
	tmp, err := os.CreateTemp(c.dir, ".partial-*")
	if err != nil {
		return fmt.Errorf("failed to cache %s: %w", url, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to cache %s: %w", url, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to cache %s: %w", url, err)
	}
	if err := os.Link(tmp.Name(), c.filePath(url)); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("the file %s already exists", path.Base(url))
		}
		return fmt.Errorf("failed to cache %s: %w", url, err)
	}
	return nil
}

// =============================================================================
// QUARTER INDEX STORE
// =============================================================================

// QuarterIndexStore keeps parsed master indexes as {year}_{quarter}.index.json
// files, fetching a quarter's master.idx the first time it is asked for.
type QuarterIndexStore struct {
	dir     string
	fetcher *Fetcher
}

// NewQuarterIndexStore creates a store in dir backed by fetcher.
func NewQuarterIndexStore(dir string, fetcher *Fetcher) (*QuarterIndexStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create index dir: %w", err)
	}
	return &QuarterIndexStore{dir: dir, fetcher: fetcher}, nil
}

func (s *QuarterIndexStore) filePath(q Quarter) string {
	return filepath.Join(s.dir, fmt.Sprintf("%d_%d.index.json", q.Year, q.Q))
}

// Load returns the index of quarter q.
func (s *QuarterIndexStore) Load(ctx context.Context, q Quarter) (QuarterIndex, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	p := s.filePath(q)
	if data, err := os.ReadFile(p); err == nil {
		var idx QuarterIndex
		if err := json.Unmarshal(data, &idx); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", p, err)
		}
		return idx, nil
	}

	log.Printf("[QuarterIndex] fetching master index for %s", q)
	body, err := s.fetcher.Get(ctx, MasterIndexURL(s.fetcher.Archives(), q))
	if err != nil {
		return nil, fmt.Errorf("failed to get index for %s: %w", q, err)
	}
	idx, err := ParseMasterIndex(bytes.NewReader(body), s.fetcher.Archives())
	if err != nil {
		return nil, fmt.Errorf("index for %s: %w", q, err)
	}

	data, err := json.Marshal(idx)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal index: %w", err)
	}
	if err := os.WriteFile(p, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", p, err)
	}
	return idx, nil
}
