package server

import (
	"sync"

	"github.com/typedrill/typedrill/internal/quiz"
	"github.com/typedrill/typedrill/internal/trainer"
)

// ActiveQuiz tracks one in-flight websocket quiz session.
type ActiveQuiz struct {
	ID      string
	Mode    string
	Pool    []quiz.Item
	Next    int             // index of the item currently being asked
	Summary trainer.Summary // running tally, including resolved answers

	close func()     // closes the websocket connection
	mu    sync.Mutex // one client message at a time per quiz
}

// Current returns the item the quiz is waiting on, or false when the pool
// is exhausted.
func (aq *ActiveQuiz) Current() (quiz.Item, bool) {
	if aq.Next >= len(aq.Pool) {
		return quiz.Item{}, false
	}
	return aq.Pool[aq.Next], true
}

// QuizManager tracks which websocket connections have a quiz in flight, so
// shutdown can close them all.
type QuizManager struct {
	mu      sync.RWMutex
	quizzes map[string]*ActiveQuiz
}

// NewQuizManager creates a new QuizManager.
func NewQuizManager() *QuizManager {
	return &QuizManager{
		quizzes: make(map[string]*ActiveQuiz),
	}
}

// Get returns an active quiz if it exists.
func (qm *QuizManager) Get(id string) (*ActiveQuiz, bool) {
	qm.mu.RLock()
	defer qm.mu.RUnlock()
	aq, ok := qm.quizzes[id]
	return aq, ok
}

// Add registers a quiz under its ID. The close function is invoked when the
// quiz is removed or the manager shuts down.
func (qm *QuizManager) Add(aq *ActiveQuiz, close func()) {
	qm.mu.Lock()
	defer qm.mu.Unlock()
	aq.close = close
	qm.quizzes[aq.ID] = aq
}

// Remove removes an active quiz and closes its connection.
func (qm *QuizManager) Remove(id string) {
	qm.mu.Lock()
	defer qm.mu.Unlock()
	if aq, ok := qm.quizzes[id]; ok {
		if aq.close != nil {
			aq.close()
		}
		delete(qm.quizzes, id)
	}
}

// CloseAll closes every active quiz.
func (qm *QuizManager) CloseAll() {
	qm.mu.Lock()
	defer qm.mu.Unlock()
	for id, aq := range qm.quizzes {
		if aq.close != nil {
			aq.close()
		}
		delete(qm.quizzes, id)
	}
}
