package sqlite

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/typedrill/typedrill/internal/quiz"
	"github.com/typedrill/typedrill/internal/storage"
)

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening memory db: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun(id, mode string) *storage.Run {
	return &storage.Run{
		ID:       id,
		Mode:     mode,
		Score:    3,
		Total:    5,
		Answered: 5,
		Quit:     false,
		Duration: 90 * time.Second,
	}
}

func TestSaveAndGetRun(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	run := sampleRun("abc12345-0000-0000-0000-000000000000", "easy")
	answers := []storage.Answer{
		{RunID: run.ID, ItemID: "none_is", Title: "The nothing value", Level: quiz.LevelEasy, Attempts: 1, Correct: true},
		{RunID: run.ID, ItemID: "list_copy", Title: "An independent copy", Level: quiz.LevelHard, Attempts: 2, Correct: false},
	}

	if err := s.SaveRun(ctx, run, answers); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := s.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}

	if got.Mode != "easy" {
		t.Errorf("mode = %q, want %q", got.Mode, "easy")
	}
	if got.Score != 3 || got.Total != 5 {
		t.Errorf("score = %d/%d, want 3/5", got.Score, got.Total)
	}
	if got.Duration != 90*time.Second {
		t.Errorf("duration = %v, want 90s", got.Duration)
	}
	if got.CreatedAt.IsZero() {
		t.Error("created_at should not be zero")
	}
}

func TestGetRunByPrefix(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	run := sampleRun("abc12345-0000-0000-0000-000000000000", "mixed")
	if err := s.SaveRun(ctx, run, nil); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := s.GetRun(ctx, "abc12345")
	if err != nil {
		t.Fatalf("GetRun by prefix: %v", err)
	}
	if got.ID != run.ID {
		t.Errorf("got ID %q, want %q", got.ID, run.ID)
	}
}

func TestGetRunAmbiguousPrefix(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for _, id := range []string{
		"abc11111-0000-0000-0000-000000000000",
		"abc22222-0000-0000-0000-000000000000",
	} {
		if err := s.SaveRun(ctx, sampleRun(id, "easy"), nil); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}

	_, err := s.GetRun(ctx, "abc")
	if err == nil {
		t.Fatal("expected error for ambiguous prefix")
	}
	if !strings.Contains(err.Error(), "ambiguous") {
		t.Errorf("error = %q, want ambiguous prefix error", err)
	}
}

func TestGetRunNotFound(t *testing.T) {
	s := testStore(t)

	_, err := s.GetRun(context.Background(), "nope")
	if err == nil {
		t.Fatal("expected error for missing run")
	}
}

func TestListRuns(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.SaveRun(ctx, sampleRun("aaa11111-0000-0000-0000-000000000000", "easy"), nil); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := s.SaveRun(ctx, sampleRun("bbb22222-0000-0000-0000-000000000000", "hard"), nil); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	runs, err := s.ListRuns(ctx, storage.RunListOptions{})
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}

	runs, err = s.ListRuns(ctx, storage.RunListOptions{Mode: "hard"})
	if err != nil {
		t.Fatalf("ListRuns filtered: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d hard runs, want 1", len(runs))
	}
	if runs[0].Mode != "hard" {
		t.Errorf("mode = %q, want %q", runs[0].Mode, "hard")
	}
}

func TestListAnswers(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	run := sampleRun("ccc33333-0000-0000-0000-000000000000", "easy")
	answers := []storage.Answer{
		{RunID: run.ID, ItemID: "bool_truth", Title: "Truthiness", Level: quiz.LevelEasy, Attempts: 1, Correct: true},
		{RunID: run.ID, ItemID: "sum_gauss", Title: "A big sum", Level: quiz.LevelEasy, Attempts: 3, Correct: true},
	}
	if err := s.SaveRun(ctx, run, answers); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := s.ListAnswers(ctx, run.ID)
	if err != nil {
		t.Fatalf("ListAnswers: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d answers, want 2", len(got))
	}
	if got[0].ItemID != "bool_truth" {
		t.Errorf("first item = %q, want %q (insertion order)", got[0].ItemID, "bool_truth")
	}
	if got[1].Attempts != 3 {
		t.Errorf("attempts = %d, want 3", got[1].Attempts)
	}
}

func TestDeleteRunCascades(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	run := sampleRun("ddd44444-0000-0000-0000-000000000000", "easy")
	answers := []storage.Answer{
		{RunID: run.ID, ItemID: "set_dedup", Title: "No duplicates", Level: quiz.LevelEasy, Attempts: 1, Correct: true},
	}
	if err := s.SaveRun(ctx, run, answers); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	if err := s.DeleteRun(ctx, "ddd44444"); err != nil {
		t.Fatalf("DeleteRun: %v", err)
	}

	if _, err := s.GetRun(ctx, run.ID); err == nil {
		t.Error("run should be gone after delete")
	}
	got, err := s.ListAnswers(ctx, run.ID)
	if err != nil {
		t.Fatalf("ListAnswers: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d answers after delete, want 0", len(got))
	}
}
