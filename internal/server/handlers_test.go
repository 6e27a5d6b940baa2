package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"

	"github.com/typedrill/typedrill/internal/config"
	"github.com/typedrill/typedrill/internal/quiz"
	"github.com/typedrill/typedrill/internal/storage"
	"github.com/typedrill/typedrill/internal/storage/sqlite"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	store, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("opening memory db: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := &config.Config{
		Quiz:   config.QuizConfig{Mode: "mixed"},
		Server: config.ServerConfig{Port: 0},
	}
	return New(cfg, store, quiz.NewCatalog())
}

func doRequest(t *testing.T, s *Server, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestListItems(t *testing.T) {
	s := testServer(t)

	w := doRequest(t, s, http.MethodGet, "/api/items", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var items []quiz.Item
	if err := json.NewDecoder(w.Body).Decode(&items); err != nil {
		t.Fatalf("decoding items: %v", err)
	}
	if len(items) == 0 {
		t.Fatal("expected catalog items")
	}

	w = doRequest(t, s, http.MethodGet, "/api/items?level=hard", "")
	if err := json.NewDecoder(w.Body).Decode(&items); err != nil {
		t.Fatalf("decoding filtered items: %v", err)
	}
	for _, it := range items {
		if it.Level != quiz.LevelHard {
			t.Errorf("item %s has level %q, want hard", it.ID, it.Level)
		}
	}
}

func TestGetItem(t *testing.T) {
	s := testServer(t)

	w := doRequest(t, s, http.MethodGet, "/api/items/none_is", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var item quiz.Item
	if err := json.NewDecoder(w.Body).Decode(&item); err != nil {
		t.Fatalf("decoding item: %v", err)
	}
	if item.ID != "none_is" {
		t.Errorf("id = %q, want none_is", item.ID)
	}

	w = doRequest(t, s, http.MethodGet, "/api/items/no_such_item", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestCheckAnswer(t *testing.T) {
	s := testServer(t)

	w := doRequest(t, s, http.MethodPost, "/api/check", `{"item_id":"none_is","answer":"x is None"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var v quiz.Verdict
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decoding verdict: %v", err)
	}
	if !v.Passed {
		t.Errorf("verdict = %+v, want passed", v)
	}

	w = doRequest(t, s, http.MethodPost, "/api/check", `{"item_id":"none_is","answer":"x is not None"}`)
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decoding verdict: %v", err)
	}
	if v.Passed {
		t.Error("a False-valued expression should not pass")
	}
}

func TestCheckValidation(t *testing.T) {
	s := testServer(t)

	w := doRequest(t, s, http.MethodPost, "/api/check", `{"answer":"1+1"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing item_id: status = %d, want 400", w.Code)
	}

	w = doRequest(t, s, http.MethodPost, "/api/check", `{"item_id":"nope","answer":"1"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown item: status = %d, want 404", w.Code)
	}

	w = doRequest(t, s, http.MethodPost, "/api/check", `not json`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad json: status = %d, want 400", w.Code)
	}
}

func TestResultsEndpoints(t *testing.T) {
	s := testServer(t)

	run := &storage.Run{
		ID:       "abc12345-0000-0000-0000-000000000000",
		Mode:     "easy",
		Score:    2,
		Total:    3,
		Answered: 3,
		Duration: time.Minute,
	}
	answers := []storage.Answer{
		{RunID: run.ID, ItemID: "none_is", Title: "Testing for None", Level: quiz.LevelEasy, Attempts: 1, Correct: true},
	}
	if err := s.store.SaveRun(context.Background(), run, answers); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	w := doRequest(t, s, http.MethodGet, "/api/results", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", w.Code)
	}
	var runs []storage.Run
	if err := json.NewDecoder(w.Body).Decode(&runs); err != nil {
		t.Fatalf("decoding runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}

	w = doRequest(t, s, http.MethodGet, "/api/results/abc12345", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", w.Code)
	}
	var detail runDetail
	if err := json.NewDecoder(w.Body).Decode(&detail); err != nil {
		t.Fatalf("decoding detail: %v", err)
	}
	if detail.Run.ID != run.ID {
		t.Errorf("run ID = %q, want %q", detail.Run.ID, run.ID)
	}
	if len(detail.Answers) != 1 {
		t.Errorf("got %d answers, want 1", len(detail.Answers))
	}

	w = doRequest(t, s, http.MethodDelete, "/api/results/"+run.ID, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", w.Code)
	}
	w = doRequest(t, s, http.MethodGet, "/api/results/"+run.ID, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete: status = %d, want 404", w.Code)
	}
}

func TestQuizWebSocket(t *testing.T) {
	s := testServer(t)

	ts := httptest.NewServer(s.router)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/quiz/ws?mode=easy"
	conn, _, err := gws.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing websocket: %v", err)
	}
	defer conn.Close()

	var first wsOutgoing
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("reading first item: %v", err)
	}
	if first.Type != "item" || first.Item == nil {
		t.Fatalf("first message = %+v, want an item", first)
	}
	total := first.Total

	// A hint must not advance the quiz.
	if err := conn.WriteJSON(wsIncoming{Type: "hint"}); err != nil {
		t.Fatalf("sending hint request: %v", err)
	}
	var hint wsOutgoing
	if err := conn.ReadJSON(&hint); err != nil {
		t.Fatalf("reading hint: %v", err)
	}
	if hint.Type != "hint" || hint.Content != first.Item.Hint {
		t.Errorf("hint = %+v, want %q", hint, first.Item.Hint)
	}

	// Skip through the whole pool and expect a summary.
	var last wsOutgoing
	for i := 0; i < total; i++ {
		if err := conn.WriteJSON(wsIncoming{Type: "skip"}); err != nil {
			t.Fatalf("sending skip: %v", err)
		}
		if err := conn.ReadJSON(&last); err != nil {
			t.Fatalf("reading after skip %d: %v", i, err)
		}
	}
	if last.Type != "summary" {
		t.Fatalf("final message type = %q, want summary", last.Type)
	}

	// The finished run is persisted.
	runs, err := s.store.ListRuns(context.Background(), storage.RunListOptions{})
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d stored runs, want 1", len(runs))
	}
	if runs[0].Answered != total || runs[0].Score != 0 {
		t.Errorf("stored run = %+v, want %d answered with score 0", runs[0], total)
	}
}
