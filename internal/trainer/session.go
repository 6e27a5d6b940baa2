// Package trainer drives an interactive quiz session: it walks a shuffled
// item pool, dispatches each answer to the item's checker, offers hints and
// retries, and tallies the score. Input and output go through small
// interfaces so the engine is testable without a terminal.
package trainer

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/typedrill/typedrill/internal/quiz"
)

// LineReader supplies one line of user input per call. The CLI wires a
// readline instance; tests wire a scripted reader.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// AnswerRecord captures the outcome of one item within a session.
type AnswerRecord struct {
	ItemID   string
	Title    string
	Level    quiz.Level
	Attempts int
	Correct  bool
	Message  string
}

// Summary is the result of a completed or quit session.
type Summary struct {
	Mode     string
	Score    int
	Total    int
	Answered int
	Quit     bool
	Duration time.Duration
	Answers  []AnswerRecord
}

// Grade returns the closing remark for a summary, mirroring the trainer's
// score thresholds.
func (s Summary) Grade() string {
	switch {
	case s.Total == 0:
		return "Nothing to do."
	case s.Score == s.Total:
		return "Perfect!"
	case float64(s.Score)/float64(s.Total) >= 0.7:
		return "Great result!"
	}
	return "A good start - keep practicing."
}

// Session runs one pass over an item pool.
type Session struct {
	in   LineReader
	out  io.Writer
	mode string
}

// New creates a session engine writing prompts and verdicts to out.
func New(in LineReader, out io.Writer, mode string) *Session {
	return &Session{in: in, out: out, mode: mode}
}

// Run walks the pool item by item. Per item: print the prompt, read answers
// until one passes or the user gives up. A "?" answer prints the hint
// without consuming an attempt; a "q" answer ends the session early with a
// partial score.
func (s *Session) Run(pool []quiz.Item) (Summary, error) {
	start := time.Now()
	sum := Summary{Mode: s.mode, Total: len(pool)}

	fmt.Fprintf(s.out, "\nStarting! %d items. Type ? for a hint, q to quit.\n\n", len(pool))

	for i, item := range pool {
		fmt.Fprintf(s.out, "[%d/%d] %s\n", i+1, len(pool), item.Title)
		fmt.Fprintln(s.out, indent(item.Prompt, "  "))

		rec, quit, err := s.runItem(item)
		if err != nil {
			return sum, err
		}
		if quit {
			sum.Quit = true
			sum.Duration = time.Since(start)
			fmt.Fprintf(s.out, "Leaving the trainer. Thanks for playing!\nScore so far: %d/%d\n", sum.Score, sum.Answered)
			return sum, nil
		}
		sum.Answers = append(sum.Answers, rec)
		sum.Answered++
		if rec.Correct {
			sum.Score++
		}
		fmt.Fprintln(s.out, strings.Repeat("-", 60))
	}

	sum.Duration = time.Since(start)
	fmt.Fprintf(s.out, "Done! Your score: %d/%d\n%s\n", sum.Score, sum.Total, sum.Grade())
	return sum, nil
}

// runItem reads answers for one item until it is resolved. The second
// return is true when the user quit the session.
func (s *Session) runItem(item quiz.Item) (AnswerRecord, bool, error) {
	rec := AnswerRecord{ItemID: item.ID, Title: item.Title, Level: item.Level}
	for {
		answer, err := s.in.ReadLine("Your answer: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return rec, true, nil
			}
			return rec, false, err
		}

		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "q":
			return rec, true, nil
		case "?":
			// Hints are free: no attempt is consumed.
			fmt.Fprintf(s.out, "Hint: %s\n", item.Hint)
			continue
		}

		rec.Attempts++
		verdict := item.Check(answer)
		fmt.Fprintln(s.out, verdict.Message)
		rec.Message = verdict.Message
		if verdict.Passed {
			rec.Correct = true
			return rec, false, nil
		}

		retry, err := s.in.ReadLine("Try again? (y/n): ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return rec, true, nil
			}
			return rec, false, err
		}
		if strings.ToLower(strings.TrimSpace(retry)) != "y" {
			return rec, false, nil
		}
	}
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
