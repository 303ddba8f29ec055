// Package history persists completed run summaries in SQLite so past edits
// stay inspectable after the process exits.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"scrub/internal/types"
)

// Store manages run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Entry is one recorded run.
type Entry struct {
	ID         string
	Input      string
	Output     string
	FinishedAt time.Time
	Report     types.EditReport
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	input TEXT NOT NULL,
	output TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	segment_count INTEGER NOT NULL,
	total_removed REAL NOT NULL,
	cues_before INTEGER NOT NULL,
	cues_after INTEGER NOT NULL,
	warnings INTEGER NOT NULL,
	removals_json TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_finished_at ON runs(finished_at DESC);
`

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
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
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts one completed run.
func (s *Store) Record(ctx context.Context, e Entry) error {
	removals, err := json.Marshal(e.Report.Removals)
	if err != nil {
		return fmt.Errorf("marshal removals: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, input, output, finished_at, segment_count,
			total_removed, cues_before, cues_after, warnings, removals_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Input, e.Output, e.FinishedAt.UTC().Format(time.RFC3339),
		e.Report.SegmentCount, e.Report.TotalRemoved,
		e.Report.CuesBefore, e.Report.CuesAfter, e.Report.Warnings,
		string(removals),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, input, output, finished_at, segment_count, total_removed,
			cues_before, cues_after, warnings, removals_json
		FROM runs ORDER BY finished_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var finished, removals string
		if err := rows.Scan(&e.ID, &e.Input, &e.Output, &finished,
			&e.Report.SegmentCount, &e.Report.TotalRemoved,
			&e.Report.CuesBefore, &e.Report.CuesAfter, &e.Report.Warnings,
			&removals); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if t, perr := time.Parse(time.RFC3339, finished); perr == nil {
			e.FinishedAt = t
		}
		if err := json.Unmarshal([]byte(removals), &e.Report.Removals); err != nil {
			return nil, fmt.Errorf("unmarshal removals: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
