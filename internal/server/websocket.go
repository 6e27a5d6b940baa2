package server

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/typedrill/typedrill/internal/quiz"
	"github.com/typedrill/typedrill/internal/storage"
	"github.com/typedrill/typedrill/internal/trainer"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local trainer, no cross-origin concerns
	},
}

// wsIncoming is a message from the client.
type wsIncoming struct {
	Type    string `json:"type"` // "answer", "hint", "skip" or "quit"
	Content string `json:"content"`
}

// wsOutgoing is a message to the client.
type wsOutgoing struct {
	Type    string     `json:"type"`
	Content string     `json:"content,omitempty"`
	Item    *quiz.Item `json:"item,omitempty"`
	Index   int        `json:"index,omitempty"`
	Total   int        `json:"total,omitempty"`
	Passed  bool       `json:"passed,omitempty"`
	Summary any        `json:"summary,omitempty"`
}

// handleQuizWS runs one quiz session over a websocket connection. The
// protocol mirrors the CLI loop: the server sends an item, the client
// answers (or asks for a hint, skips, or quits), and the server replies
// with a verdict before advancing.
func (s *Server) handleQuizWS(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = s.cfg.Quiz.Mode
	}
	switch mode {
	case "easy", "hard", "mixed":
	default:
		http.Error(w, "invalid mode", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	aq := &ActiveQuiz{
		ID:      uuid.New().String(),
		Mode:    mode,
		Pool:    s.catalog.Pool(mode, rng),
		Summary: trainer.Summary{Mode: mode},
	}
	aq.Summary.Total = len(aq.Pool)
	s.quizzes.Add(aq, func() { conn.Close() })
	defer s.quizzes.Remove(aq.ID)

	start := time.Now()

	item, ok := aq.Current()
	if !ok {
		s.finish(conn, aq, start)
		return
	}
	s.sendCurrentItem(conn, aq)
	rec := newRecord(item)

	for {
		var msg wsIncoming
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return
			}
			log.Printf("websocket read error: %v", err)
			return
		}

		item, ok := aq.Current()
		if !ok {
			wsWriteJSON(conn, wsOutgoing{Type: "error", Content: "quiz is over"})
			continue
		}

		switch msg.Type {
		case "hint":
			// Hints are free: no attempt is consumed.
			wsWriteJSON(conn, wsOutgoing{Type: "hint", Content: item.Hint})

		case "answer":
			rec.Attempts++
			verdict := item.Check(msg.Content)
			rec.Message = verdict.Message
			wsWriteJSON(conn, wsOutgoing{Type: "verdict", Passed: verdict.Passed, Content: verdict.Message})
			if verdict.Passed {
				rec.Correct = true
				rec = s.advance(conn, aq, rec, start)
			}

		case "skip":
			rec = s.advance(conn, aq, rec, start)

		case "quit":
			aq.Summary.Quit = true
			s.finish(conn, aq, start)
			return

		default:
			wsWriteJSON(conn, wsOutgoing{Type: "error", Content: "invalid message"})
		}

		if _, ok := aq.Current(); !ok && !aq.Summary.Quit {
			return
		}
	}
}

func newRecord(item quiz.Item) trainer.AnswerRecord {
	return trainer.AnswerRecord{ItemID: item.ID, Title: item.Title, Level: item.Level}
}

// advance records the outcome of the current item, moves to the next one
// and sends it (or the final summary). It returns the record for the new
// current item.
func (s *Server) advance(conn *websocket.Conn, aq *ActiveQuiz, rec trainer.AnswerRecord, start time.Time) trainer.AnswerRecord {
	aq.Summary.Answers = append(aq.Summary.Answers, rec)
	aq.Summary.Answered++
	if rec.Correct {
		aq.Summary.Score++
	}
	aq.Next++

	item, ok := aq.Current()
	if !ok {
		s.finish(conn, aq, start)
		return trainer.AnswerRecord{}
	}
	s.sendCurrentItem(conn, aq)
	return newRecord(item)
}

func (s *Server) sendCurrentItem(conn *websocket.Conn, aq *ActiveQuiz) {
	item, ok := aq.Current()
	if !ok {
		return
	}
	wsWriteJSON(conn, wsOutgoing{
		Type:  "item",
		Item:  &item,
		Index: aq.Next + 1,
		Total: len(aq.Pool),
	})
}

// finish sends the summary and persists the run.
func (s *Server) finish(conn *websocket.Conn, aq *ActiveQuiz, start time.Time) {
	aq.Summary.Duration = time.Since(start)

	run := &storage.Run{
		ID:       aq.ID,
		Mode:     aq.Mode,
		Score:    aq.Summary.Score,
		Total:    aq.Summary.Total,
		Answered: aq.Summary.Answered,
		Quit:     aq.Summary.Quit,
		Duration: aq.Summary.Duration,
	}
	answers := make([]storage.Answer, 0, len(aq.Summary.Answers))
	for _, a := range aq.Summary.Answers {
		answers = append(answers, storage.Answer{
			RunID:    aq.ID,
			ItemID:   a.ItemID,
			Title:    a.Title,
			Level:    a.Level,
			Attempts: a.Attempts,
			Correct:  a.Correct,
		})
	}
	if err := s.store.SaveRun(context.Background(), run, answers); err != nil {
		log.Printf("failed to save run %s: %v", aq.ID, err)
	}

	wsWriteJSON(conn, wsOutgoing{
		Type:    "summary",
		Content: aq.Summary.Grade(),
		Summary: aq.Summary,
	})
}

func wsWriteJSON(conn *websocket.Conn, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("websocket marshal error: %v", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Printf("websocket write error: %v", err)
	}
}
