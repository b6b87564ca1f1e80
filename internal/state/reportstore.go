// Package state persists pipeline run reports for build history.
package state

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Report is the persisted summary of one pipeline run.
type Report struct {
	RunID       string
	StartedAt   time.Time
	Documents   int
	Errors      int
	TotalRefs   int
	ValidRefs   int
	BrokenRefs  int
	SuccessRate float64
	DurationMS  int64
}

// ReportStore stores run reports in SQLite. Use ":memory:" for an in-memory
// database, or a file path for persistent storage.
type ReportStore struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (and initializes) the report database.
func Open(path string) (*ReportStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &ReportStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *ReportStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		documents INTEGER NOT NULL,
		errors INTEGER NOT NULL,
		total_refs INTEGER NOT NULL,
		valid_refs INTEGER NOT NULL,
		broken_refs INTEGER NOT NULL,
		success_rate REAL NOT NULL,
		duration_ms INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_run_id ON runs(run_id);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save appends a run report.
func (s *ReportStore) Save(ctx context.Context, r *Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, started_at, documents, errors, total_refs,
			valid_refs, broken_refs, success_rate, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.StartedAt.UnixMilli(), r.Documents, r.Errors,
		r.TotalRefs, r.ValidRefs, r.BrokenRefs, r.SuccessRate, r.DurationMS)
	if err != nil {
		return fmt.Errorf("save run report: %w", err)
	}
	return nil
}

// Recent returns the n most recent reports, newest first.
func (s *ReportStore) Recent(ctx context.Context, n int) ([]Report, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, started_at, documents, errors, total_refs,
			valid_refs, broken_refs, success_rate, duration_ms
		FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query run reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var reports []Report
	for rows.Next() {
		var r Report
		var startedMs int64
		if err := rows.Scan(&r.RunID, &startedMs, &r.Documents, &r.Errors,
			&r.TotalRefs, &r.ValidRefs, &r.BrokenRefs, &r.SuccessRate,
			&r.DurationMS); err != nil {
			return nil, fmt.Errorf("scan run report: %w", err)
		}
		r.StartedAt = time.UnixMilli(startedMs)
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// Close closes the underlying database.
func (s *ReportStore) Close() error { return s.db.Close() }
