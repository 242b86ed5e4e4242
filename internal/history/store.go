// Package history persists one record per supervised run to a local sqlite
// database, so past objectives and their final metrics survive restarts.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/swarmdeck/swarmdeck/internal/models"
)

// Store wraps the runs database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at dbPath and applies the
// schema.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		objective TEXT NOT NULL,
		started_at TIMESTAMP NOT NULL,
		ended_at TIMESTAMP,
		status TEXT NOT NULL DEFAULT 'running',
		iterations INTEGER NOT NULL DEFAULT 0,
		total_tokens INTEGER NOT NULL DEFAULT 0,
		model TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// StartRun inserts a record for a run beginning now and fills in its ID.
func (s *Store) StartRun(run *models.RunRecord) error {
	result, err := s.db.Exec(
		`INSERT INTO runs (objective, started_at, status) VALUES (?, ?, ?)`,
		run.Objective, run.StartedAt, run.Status,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("run id: %w", err)
	}
	run.ID = id
	return nil
}

// FinishRun stamps the end time and writes the final status and metrics.
func (s *Store) FinishRun(run *models.RunRecord) error {
	now := time.Now().UTC()
	run.EndedAt = &now

	_, err := s.db.Exec(
		`UPDATE runs SET ended_at = ?, status = ?, iterations = ?, total_tokens = ?, model = ? WHERE id = ?`,
		run.EndedAt, run.Status, run.Iterations, run.TotalTokens, run.Model, run.ID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]*models.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, objective, started_at, ended_at, status, iterations, total_tokens, model
		 FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.RunRecord
	for rows.Next() {
		var run models.RunRecord
		var endedAt sql.NullTime

		if err := rows.Scan(
			&run.ID, &run.Objective, &run.StartedAt, &endedAt,
			&run.Status, &run.Iterations, &run.TotalTokens, &run.Model,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if endedAt.Valid {
			t := endedAt.Time
			run.EndedAt = &t
		}
		runs = append(runs, &run)
	}

	return runs, rows.Err()
}
