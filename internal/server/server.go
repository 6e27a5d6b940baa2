// Package server exposes the trainer over HTTP: a JSON API for items,
// one-shot answer checks and stored results, plus a websocket endpoint that
// runs a live quiz session per connection.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/typedrill/typedrill/internal/config"
	"github.com/typedrill/typedrill/internal/quiz"
	"github.com/typedrill/typedrill/internal/storage"
)

// Server is the HTTP server for the trainer web API.
type Server struct {
	cfg     *config.Config
	store   storage.Store
	catalog *quiz.Catalog
	quizzes *QuizManager
	router  chi.Router
	http    *http.Server
}

// New creates a new Server.
func New(cfg *config.Config, store storage.Store, catalog *quiz.Catalog) *Server {
	s := &Server{
		cfg:     cfg,
		store:   store,
		catalog: catalog,
		quizzes: NewQuizManager(),
		router:  chi.NewRouter(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.router

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(jsonContentType)

		// Items
		r.Get("/items", s.handleListItems)
		r.Get("/items/{id}", s.handleGetItem)

		// One-shot answer check
		r.Post("/check", s.handleCheck)

		// Stored results
		r.Get("/results", s.handleListRuns)
		r.Get("/results/{id}", s.handleGetRun)
		r.Delete("/results/{id}", s.handleDeleteRun)

		// WebSocket (no JSON content-type)
		r.Get("/quiz/ws", s.handleQuizWS)
	})
}

// jsonContentType sets Content-Type to application/json for API routes.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// Start begins listening on the given port.
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.http = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	log.Printf("typedrill server starting on http://localhost%s", addr)
	return s.http.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down server...")
	s.quizzes.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return s.http.Shutdown(shutdownCtx)
}
