// Package server exposes health, metrics and pipeline status over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/metrics"
	"github.com/nguyentantai21042004/minutes-flow/internal/processor"
	"github.com/nguyentantai21042004/minutes-flow/internal/storage"
)

// Tracker reports in-flight runs.
type Tracker interface {
	Active() []processor.Run
}

type Server struct {
	router  chi.Router
	http    *http.Server
	storage storage.Storage
	tracker Tracker
	logger  logger.Logger
	started time.Time
}

// New creates the status server. It does not listen until Start.
func New(addr string, store storage.Storage, tracker Tracker, m *metrics.Metrics, log logger.Logger) *Server {
	srv := &Server{
		storage: store,
		tracker: tracker,
		logger:  log,
		started: time.Now(),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Get("/healthz", srv.handleHealth)
	r.Handle("/metrics", m.Handler())
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", srv.handleStatus)
		r.Get("/runs", srv.handleRuns)
	})

	srv.router = r
	srv.http = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return srv
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves in a goroutine.
func (s *Server) Start(ctx context.Context) {
	go func() {
		s.logger.Info(ctx, "Status server listening on %s", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(ctx, "Status server error: %v", err)
		}
	}()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.storage.Stats()
	if err != nil {
		s.logger.Error(r.Context(), "Storage stats failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"uptime_seconds": int(time.Since(s.started).Seconds()),
		"in_flight":      len(s.tracker.Active()),
		"storage":        st,
	})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	runs := s.tracker.Active()
	if runs == nil {
		runs = []processor.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
