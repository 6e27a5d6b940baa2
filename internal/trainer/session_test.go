package trainer

import (
	"io"
	"strings"
	"testing"

	"github.com/typedrill/typedrill/internal/quiz"
)

// scriptReader feeds a fixed sequence of input lines.
type scriptReader struct {
	lines []string
	i     int
}

func (r *scriptReader) ReadLine(prompt string) (string, error) {
	if r.i >= len(r.lines) {
		return "", io.EOF
	}
	line := r.lines[r.i]
	r.i++
	return line, nil
}

func testPool() []quiz.Item {
	return []quiz.Item{
		{ID: "one", Title: "First", Level: quiz.LevelEasy, Prompt: "1+1?", Hint: "two", Check: quiz.Exact("2")},
		{ID: "two", Title: "Second", Level: quiz.LevelEasy, Prompt: "2+2?", Hint: "four", Check: quiz.Exact("4")},
	}
}

func runSession(t *testing.T, lines []string) (Summary, string) {
	t.Helper()
	var out strings.Builder
	s := New(&scriptReader{lines: lines}, &out, "easy")
	sum, err := s.Run(testPool())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return sum, out.String()
}

func TestAllCorrect(t *testing.T) {
	sum, out := runSession(t, []string{"2", "4"})
	if sum.Score != 2 || sum.Total != 2 {
		t.Errorf("score = %d/%d, want 2/2", sum.Score, sum.Total)
	}
	if !strings.Contains(out, "Perfect!") {
		t.Errorf("output should contain the perfect grade:\n%s", out)
	}
}

func TestHintDoesNotConsumeAttempt(t *testing.T) {
	sum, out := runSession(t, []string{"?", "2", "4"})
	if sum.Score != 2 {
		t.Errorf("score = %d, want 2", sum.Score)
	}
	if !strings.Contains(out, "Hint: two") {
		t.Errorf("hint not shown:\n%s", out)
	}
	if sum.Answers[0].Attempts != 1 {
		t.Errorf("attempts = %d, want 1 (hint is free)", sum.Answers[0].Attempts)
	}
}

func TestRetryFlow(t *testing.T) {
	// Wrong, retry yes, correct; then wrong, retry no.
	sum, _ := runSession(t, []string{"9", "y", "2", "9", "n"})
	if sum.Score != 1 {
		t.Errorf("score = %d, want 1", sum.Score)
	}
	if sum.Answers[0].Attempts != 2 {
		t.Errorf("first item attempts = %d, want 2", sum.Answers[0].Attempts)
	}
	if sum.Answers[1].Correct {
		t.Error("second item should be wrong")
	}
}

func TestQuitReportsPartialScore(t *testing.T) {
	sum, out := runSession(t, []string{"2", "q"})
	if !sum.Quit {
		t.Error("session should be marked quit")
	}
	if sum.Score != 1 || sum.Answered != 1 {
		t.Errorf("score = %d/%d answered, want 1/1", sum.Score, sum.Answered)
	}
	if !strings.Contains(out, "Score so far: 1/1") {
		t.Errorf("partial score not reported:\n%s", out)
	}
}

func TestEOFEndsSession(t *testing.T) {
	sum, _ := runSession(t, []string{"2"})
	if !sum.Quit {
		t.Error("EOF should end the session like a quit")
	}
	if sum.Score != 1 {
		t.Errorf("score = %d, want 1", sum.Score)
	}
}
