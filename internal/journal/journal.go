// Package journal keeps a local SQLite ledger of solver invocations, so a
// long campaign can be audited after the fact: which windows ran, on which
// cases, how long they took and how they ended.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/parafoam/pkg/foam"
)

// schemaSQL is applied on every open; the table is keyed by a time-ordered
// uuid so listings stay stable across clock skew.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
    run_id      TEXT PRIMARY KEY,
    case_dir    TEXT NOT NULL,
    solver      TEXT NOT NULL,
    start_time  REAL NOT NULL,
    end_time    REAL NOT NULL,
    delta_t     REAL NOT NULL,
    status      TEXT NOT NULL,
    error       TEXT NOT NULL DEFAULT '',
    began_at    TEXT NOT NULL,
    duration_ms INTEGER NOT NULL,
    log_dir     TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_runs_began_at ON runs (began_at);
`

// Run is one recorded solver invocation.
type Run struct {
	RunID    string
	Case     string
	Solver   string
	Start    float64
	End      float64
	Dt       float64
	Status   string
	Error    string
	Began    time.Time
	Duration time.Duration
	LogDir   string
}

// Journal is a SQLite-backed ledger of solver runs. It implements
// foam.RunRecorder. Safe for use from multiple goroutines.
type Journal struct {
	mu sync.Mutex
	db *sql.DB
}

// Open creates or opens the journal database at path, creating parent
// directories as needed.
func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close releases the database handle. Idempotent.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return nil
	}
	err := j.db.Close()
	j.db = nil
	return err
}

// generateRunID returns a UUID v7 so run ids sort by creation time.
func generateRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fall back to v4 if the clock source misbehaves.
		return uuid.New().String()
	}
	return id.String()
}

// RecordRun implements foam.RunRecorder.
func (j *Journal) RecordRun(ctx context.Context, rec foam.RunRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return fmt.Errorf("journal is closed")
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, case_dir, solver, start_time, end_time, delta_t,
		                   status, error, began_at, duration_ms, log_dir)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		generateRunID(), rec.Case, rec.Solver, rec.Start, rec.End, rec.Dt,
		rec.Status, rec.Error, rec.Began.UTC().Format(time.RFC3339Nano),
		rec.Duration.Milliseconds(), rec.LogDir)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// List returns up to limit runs, newest first. A limit of zero or less
// returns everything.
func (j *Journal) List(ctx context.Context, limit int) ([]Run, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return nil, fmt.Errorf("journal is closed")
	}
	query := `SELECT run_id, case_dir, solver, start_time, end_time, delta_t,
	                 status, error, began_at, duration_ms, log_dir
	          FROM runs ORDER BY run_id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var began string
		var durMS int64
		if err := rows.Scan(&r.RunID, &r.Case, &r.Solver, &r.Start, &r.End, &r.Dt,
			&r.Status, &r.Error, &began, &durMS, &r.LogDir); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		t, err := time.Parse(time.RFC3339Nano, began)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp %q: %w", began, err)
		}
		r.Began = t
		r.Duration = time.Duration(durMS) * time.Millisecond
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
