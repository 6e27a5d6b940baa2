// Package sqlite implements storage.Store backed by a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/typedrill/typedrill/internal/quiz"
	"github.com/typedrill/typedrill/internal/storage"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements storage.Store backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path and runs
// migrations. Use ":memory:" for an in-memory database (useful for testing).
func Open(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// SQLite allows one writer; a single pooled connection also keeps
	// ":memory:" databases from splitting across connections.
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run *storage.Run, answers []storage.Answer) error {
	run.CreatedAt = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, mode, score, total, answered, quit, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Mode, run.Score, run.Total, run.Answered, boolInt(run.Quit),
		run.Duration.Milliseconds(), run.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	for _, a := range answers {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_answers (run_id, item_id, title, level, attempts, correct)
			VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, a.ItemID, a.Title, string(a.Level), a.Attempts, boolInt(a.Correct),
		)
		if err != nil {
			return fmt.Errorf("inserting answer: %w", err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*storage.Run, error) {
	run, err := s.getRunExact(ctx, id)
	if err == nil {
		return run, nil
	}

	// Prefix match
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, mode, score, total, answered, quit, duration_ms, created_at
		FROM runs WHERE id LIKE ? || '%'`, id)
	if err != nil {
		return nil, fmt.Errorf("querying run: %w", err)
	}
	defer rows.Close()

	var matches []*storage.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, run)
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("run not found: %s", id)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("ambiguous run prefix %q matches %d runs", id, len(matches))
	}
}

func (s *SQLiteStore) getRunExact(ctx context.Context, id string) (*storage.Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, mode, score, total, answered, quit, duration_ms, created_at
		FROM runs WHERE id = ?`, id)
	return scanRunRow(row)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, opts storage.RunListOptions) ([]storage.Run, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, mode, score, total, answered, quit, duration_ms, created_at FROM runs`
	var args []any

	if opts.Mode != "" {
		query += ` WHERE mode = ?`
		args = append(args, opts.Mode)
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []storage.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) ListAnswers(ctx context.Context, runID string) ([]storage.Answer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, item_id, title, level, attempts, correct
		FROM run_answers WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("listing answers: %w", err)
	}
	defer rows.Close()

	var answers []storage.Answer
	for rows.Next() {
		var (
			a       storage.Answer
			level   string
			correct int
		)
		if err := rows.Scan(&a.RunID, &a.ItemID, &a.Title, &level, &a.Attempts, &correct); err != nil {
			return nil, fmt.Errorf("scanning answer: %w", err)
		}
		a.Level = quiz.Level(level)
		a.Correct = correct != 0
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

func (s *SQLiteStore) DeleteRun(ctx context.Context, id string) error {
	run, err := s.GetRun(ctx, id)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM run_answers WHERE run_id = ?`, run.ID); err != nil {
		return fmt.Errorf("deleting answers: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, run.ID); err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(r rowScanner) (*storage.Run, error) {
	var (
		run        storage.Run
		quit       int
		durationMS int64
		createdAt  string
	)
	if err := r.Scan(&run.ID, &run.Mode, &run.Score, &run.Total, &run.Answered,
		&quit, &durationMS, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("run not found")
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}
	run.Quit = quit != 0
	run.Duration = time.Duration(durationMS) * time.Millisecond
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		run.CreatedAt = t
	}
	return &run, nil
}

func scanRunRow(r *sql.Row) (*storage.Run, error) { return scanRun(r) }

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
