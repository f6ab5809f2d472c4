// Package server provides the HTTP REST API for the cold-call
// verification workflow.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/coldcall/internal/questions"
	"github.com/jonathan/coldcall/internal/session"
	"github.com/jonathan/coldcall/internal/store"
)

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	store      store.Store
	questions  questions.Client
	logger     *zap.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*session.Session
}

// Config holds server configuration.
type Config struct {
	Port      int
	Store     store.Store
	Questions questions.Client
	Logger    *zap.Logger
}

// New creates a new server instance.
func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("verification store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		store:     cfg.Store,
		questions: cfg.Questions,
		logger:    logger,
		sessions:  make(map[uuid.UUID]*session.Session),
	}

	mux := http.NewServeMux()

	// Session lifecycle
	mux.HandleFunc("POST /candidates/{id}/verification", s.handleStartSession)
	mux.HandleFunc("GET /sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /sessions/{id}", s.handleCloseSession)

	// Question generation
	mux.HandleFunc("POST /sessions/{id}/questions", s.handleRequestQuestions)

	// Field actions
	mux.HandleFunc("POST /sessions/{id}/fields/{field}/answer", s.handleAnswerField)
	mux.HandleFunc("POST /sessions/{id}/fields/{field}/skip", s.handleSkipField)
	mux.HandleFunc("POST /sessions/{id}/fields/{field}/ask-later", s.handleAskLaterField)

	// Navigation
	mux.HandleFunc("PUT /sessions/{id}/view", s.handleSetViewMode)
	mux.HandleFunc("POST /sessions/{id}/focus/next", s.handleFocusNext)
	mux.HandleFunc("POST /sessions/{id}/focus/previous", s.handleFocusPrevious)

	// Verification history
	mux.HandleFunc("GET /candidates/{id}/fields/{field}/history", s.handleFieldHistory)

	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the server's HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-stop
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if err := s.store.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// withCORS adds permissive CORS headers for the dashboard frontend.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// lookupSession parses the session ID path value and finds the session.
func (s *Server) lookupSession(r *http.Request) (*session.Session, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return nil, &ErrInvalidSessionID{Raw: r.PathValue("id")}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, &ErrSessionNotFound{ID: id}
	}
	return sess, nil
}
