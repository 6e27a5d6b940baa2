// Package storage persists finished training runs so players can track
// progress across sessions.
package storage

import (
	"context"
	"time"

	"github.com/typedrill/typedrill/internal/quiz"
)

// Run is the stored record of one training session.
type Run struct {
	ID        string        `json:"id"`
	Mode      string        `json:"mode"`
	Score     int           `json:"score"`
	Total     int           `json:"total"`
	Answered  int           `json:"answered"`
	Quit      bool          `json:"quit"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"created_at"`
}

// Answer is one item outcome within a run.
type Answer struct {
	RunID    string     `json:"run_id"`
	ItemID   string     `json:"item_id"`
	Title    string     `json:"title"`
	Level    quiz.Level `json:"level"`
	Attempts int        `json:"attempts"`
	Correct  bool       `json:"correct"`
}

// RunListOptions controls filtering and pagination for ListRuns.
type RunListOptions struct {
	Mode   string
	Limit  int
	Offset int
}

// Store is the persistence interface for runs and their answers.
type Store interface {
	// SaveRun inserts a run together with its answers. The ID field must be
	// set by the caller.
	SaveRun(ctx context.Context, run *Run, answers []Answer) error

	// GetRun returns a run by ID or ID prefix.
	GetRun(ctx context.Context, id string) (*Run, error)

	// ListRuns returns runs ordered by created_at descending.
	ListRuns(ctx context.Context, opts RunListOptions) ([]Run, error)

	// ListAnswers returns the answers recorded for a run.
	ListAnswers(ctx context.Context, runID string) ([]Answer, error)

	// DeleteRun removes a run and its answers.
	DeleteRun(ctx context.Context, id string) error

	// Close releases resources.
	Close() error
}
