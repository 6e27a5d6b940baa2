package server

import (
	"math/rand"
	"testing"

	"github.com/typedrill/typedrill/internal/quiz"
	"github.com/typedrill/typedrill/internal/trainer"
)

func testQuiz(id, mode string) *ActiveQuiz {
	catalog := quiz.NewCatalog()
	rng := rand.New(rand.NewSource(1))
	return &ActiveQuiz{
		ID:      id,
		Mode:    mode,
		Pool:    catalog.Pool(mode, rng),
		Summary: trainer.Summary{Mode: mode},
	}
}

func TestQuizManager_AddAndGet(t *testing.T) {
	qm := NewQuizManager()
	defer qm.CloseAll()

	aq := testQuiz("quiz-1", "easy")
	qm.Add(aq, func() {})

	got, ok := qm.Get("quiz-1")
	if !ok {
		t.Fatal("expected quiz to exist")
	}
	if got != aq {
		t.Error("expected same ActiveQuiz instance")
	}
}

func TestQuizManager_RemoveClosesConnection(t *testing.T) {
	qm := NewQuizManager()

	closed := false
	qm.Add(testQuiz("quiz-2", "easy"), func() { closed = true })

	qm.Remove("quiz-2")

	if !closed {
		t.Error("expected close function to run on remove")
	}
	if _, ok := qm.Get("quiz-2"); ok {
		t.Error("expected quiz to be removed")
	}
}

func TestQuizManager_CloseAll(t *testing.T) {
	qm := NewQuizManager()

	var closed int
	for _, id := range []string{"a", "b", "c"} {
		qm.Add(testQuiz(id, "mixed"), func() { closed++ })
	}

	qm.CloseAll()

	if closed != 3 {
		t.Errorf("closed %d quizzes, want 3", closed)
	}
	if _, ok := qm.Get("a"); ok {
		t.Error("expected all quizzes to be cleared")
	}
}

func TestActiveQuizCurrent(t *testing.T) {
	aq := testQuiz("quiz-3", "easy")
	if len(aq.Pool) == 0 {
		t.Fatal("expected non-empty easy pool")
	}

	item, ok := aq.Current()
	if !ok {
		t.Fatal("expected a current item")
	}
	if item.ID != aq.Pool[0].ID {
		t.Errorf("current item = %q, want %q", item.ID, aq.Pool[0].ID)
	}

	aq.Next = len(aq.Pool)
	if _, ok := aq.Current(); ok {
		t.Error("expected no current item past the end of the pool")
	}
}
