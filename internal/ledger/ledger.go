// Package ledger records batch runs and their per-subject outcomes in a
// SQLite database so past runs can be listed with `lgd-hemis history`.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"lgdhemis/internal/batch"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id          TEXT PRIMARY KEY,
    input_dir   TEXT NOT NULL,
    output_dir  TEXT NOT NULL,
    pattern     TEXT NOT NULL,
    workers     INTEGER NOT NULL,
    started_at  TEXT NOT NULL,
    finished_at TEXT NOT NULL,
    succeeded   INTEGER NOT NULL,
    failed      INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS subjects (
    run_id       TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    segmentation TEXT NOT NULL,
    reference    TEXT,
    state        TEXT NOT NULL,
    failed_at    TEXT,
    error        TEXT,
    duration_ms  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_subjects_run ON subjects(run_id);
`

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store persists run history.
type Store struct {
	db   *sql.DB
	path string
}

// RunInfo describes the invocation a summary belongs to.
type RunInfo struct {
	InputDir  string
	OutputDir string
	Pattern   string
}

// Run is one stored batch run.
type Run struct {
	ID        string
	InputDir  string
	OutputDir string
	Pattern   string
	Workers   int
	Started   time.Time
	Finished  time.Time
	Succeeded int
	Failed    int
}

// Subject is one stored per-subject outcome.
type Subject struct {
	Segmentation string
	Reference    string
	State        string
	FailedAt     string
	Error        string
	Duration     time.Duration
}

// Open creates or opens the ledger database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure ledger directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply ledger schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record stores a finished batch run and all of its subject results.
func (s *Store) Record(ctx context.Context, info RunInfo, summary batch.Summary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ledger transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, input_dir, output_dir, pattern, workers, started_at, finished_at, succeeded, failed)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.RunID,
		info.InputDir,
		info.OutputDir,
		info.Pattern,
		summary.Workers,
		summary.Started.UTC().Format(timeLayout),
		summary.Finished.UTC().Format(timeLayout),
		summary.Succeeded(),
		summary.Failed(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO subjects (run_id, segmentation, reference, state, failed_at, error, duration_ms)
         VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare subject insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range summary.Results {
		var failedAt, errText sql.NullString
		if !r.OK() {
			failedAt = sql.NullString{String: r.FailedAt.String(), Valid: true}
		}
		if r.Err != nil {
			errText = sql.NullString{String: r.Err.Error(), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			summary.RunID,
			r.Pair.Input,
			nullable(r.Reference),
			r.State.String(),
			failedAt,
			errText,
			r.Duration.Milliseconds(),
		); err != nil {
			return fmt.Errorf("insert subject %s: %w", r.Pair.Input, err)
		}
	}
	return tx.Commit()
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, input_dir, output_dir, pattern, workers, started_at, finished_at, succeeded, failed
         FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.ID, &r.InputDir, &r.OutputDir, &r.Pattern, &r.Workers, &started, &finished, &r.Succeeded, &r.Failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Started = parseTime(started)
		r.Finished = parseTime(finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Subjects returns the stored subject results for a run in insertion order.
func (s *Store) Subjects(ctx context.Context, runID string) ([]Subject, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT segmentation, reference, state, failed_at, error, duration_ms
         FROM subjects WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("query subjects: %w", err)
	}
	defer rows.Close()

	var out []Subject
	for rows.Next() {
		var sub Subject
		var ref, failedAt, errText sql.NullString
		var ms int64
		if err := rows.Scan(&sub.Segmentation, &ref, &sub.State, &failedAt, &errText, &ms); err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		sub.Reference = ref.String
		sub.FailedAt = failedAt.String
		sub.Error = errText.String
		sub.Duration = time.Duration(ms) * time.Millisecond
		out = append(out, sub)
	}
	return out, rows.Err()
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTime(value string) time.Time {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
