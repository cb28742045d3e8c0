// Package server exposes a running simulation over HTTP: Prometheus metrics, a health probe
// and the report of the last finished run.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/healthdes"
	"github.com/aretw0/healthdes/internal/logging"
)

// Server holds the state shared by the handlers.
type Server struct {
	mu     sync.RWMutex
	report *healthdes.Report
	logger *slog.Logger
}

// New creates a server with no report yet.
func New(logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Server{logger: logger}
}

// SetReport publishes the report served on /report.
func (s *Server) SetReport(r *healthdes.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = r
}

// Handler returns the router. Metrics are gathered from g.
func (s *Server) Handler(g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	r.Get("/healthz", s.health)
	r.Get("/report", s.getReport)
	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getReport(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	report := s.report
	s.mu.RUnlock()

	if report == nil {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "running"})
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}
