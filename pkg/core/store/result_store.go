package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"finstatements/pkg/core/edgar"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Record is the extraction result of one filing.
type Record struct {
	ID             string                  `json:"id"`
	RunID          string                  `json:"run_id,omitempty"`
	CIK            string                  `json:"cik"`
	Form           string                  `json:"form_type"`
	Quarter        string                  `json:"quarter"`
	SourceURL      string                  `json:"source_url"`
	PeriodOfReport time.Time               `json:"period_of_report"`
	Statements     map[string]*edgar.Table `json:"statements"`
	Failures       map[string]string       `json:"failures,omitempty"`
	ExtractedAt    time.Time               `json:"extracted_at"`
}

// NewRecord builds the record of a parsed filing.
func NewRecord(runID, cik, quarter, sourceURL string, f *edgar.Filing, rep *edgar.Report) *Record {
	return &Record{
		ID:             uuid.NewString(),
		RunID:          runID,
		CIK:            cik,
		Form:           f.Form,
		Quarter:        quarter,
		SourceURL:      sourceURL,
		PeriodOfReport: f.PeriodOfReport,
		Statements:     rep.Tables(),
		Failures:       rep.FailureMessages(),
		ExtractedAt:    time.Now().UTC(),
	}
}

// ResultStore persists extraction records.
// Postgres is used when a pool is configured, JSON files in dir otherwise.
type ResultStore struct {
	pool    *pgxpool.Pool
	fileDir string
}

// NewResultStore creates a store. If pool is nil and dir is empty, files
// go to .cache/edgar/results.
func NewResultStore(pool *pgxpool.Pool, dir string) (*ResultStore, error) {
	if pool == nil && dir == "" {
		dir = filepath.Join(".cache", "edgar", "results")
	}
	if pool == nil {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create results dir: %w", err)
		}
	}
	return &ResultStore{pool: pool, fileDir: dir}, nil
}

// Save stores rec, replacing any earlier record for the same source URL.
func (s *ResultStore) Save(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	if s.pool != nil {
		var period *time.Time
		if !rec.PeriodOfReport.IsZero() {
			period = &rec.PeriodOfReport
		}
		query := `
			INSERT INTO statement_extractions (
				id, run_id, cik, form_type, quarter, source_url, period_of_report, data
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (source_url)
			DO UPDATE SET
				run_id = EXCLUDED.run_id,
				data = EXCLUDED.data,
				updated_at = NOW()
		`
		_, err = s.pool.Exec(ctx, query,
			rec.ID, rec.RunID, rec.CIK, rec.Form, rec.Quarter, rec.SourceURL, period, data,
		)
		if err != nil {
			return fmt.Errorf("failed to save record to db: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(s.recordPath(rec.SourceURL), data, 0644); err != nil {
		return fmt.Errorf("failed to save record file: %w", err)
	}
	return nil
}

// Load returns the record for a source URL, or nil when none is stored.
func (s *ResultStore) Load(ctx context.Context, sourceURL string) (*Record, error) {
	var data []byte
	if s.pool != nil {
		err := s.pool.QueryRow(ctx,
			`SELECT data FROM statement_extractions WHERE source_url = $1`, sourceURL,
		).Scan(&data)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load record: %w", err)
		}
	} else {
		var err error
		data, err = os.ReadFile(s.recordPath(sourceURL))
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record file: %w", err)
		}
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return &rec, nil
}

// Exists reports whether a record for sourceURL is stored.
func (s *ResultStore) Exists(ctx context.Context, sourceURL string) bool {
	if s.pool != nil {
		var one int
		err := s.pool.QueryRow(ctx,
			`SELECT 1 FROM statement_extractions WHERE source_url = $1 LIMIT 1`, sourceURL,
		).Scan(&one)
		return err == nil
	}
	_, err := os.Stat(s.recordPath(sourceURL))
	return err == nil
}

// recordPath names the file of a submission: 0000320193-94-000016.txt
// is stored as 0000320193-94-000016.json.
func (s *ResultStore) recordPath(sourceURL string) string {
	base := strings.TrimSuffix(path.Base(sourceURL), path.Ext(sourceURL))
	return filepath.Join(s.fileDir, base+".json")
}
