// Package http exposes the session registry over a REST API. One
// simulation per URL id; the flow document travels in the start
// request body, so the server needs no filesystem access.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/botwalk/botwalk/internal/logging"
	"github.com/botwalk/botwalk/internal/validator"
	"github.com/botwalk/botwalk/pkg/flow"
	"github.com/botwalk/botwalk/pkg/session"
)

// Server wires HTTP routes onto a session registry.
type Server struct {
	registry *session.Registry
	logger   *slog.Logger
	gatherer prometheus.Gatherer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithGatherer exposes the given metrics registry on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// NewServer creates the HTTP adapter.
func NewServer(registry *session.Registry, opts ...Option) *Server {
	s := &Server{
		registry: registry,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/healthz", s.handleHealth)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/simulations", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/{id}/start", s.handleStart)
		r.Post("/{id}/input", s.handleInput)
		r.Delete("/{id}", s.handleEnd)
	})

	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// startRequest is the flow document carried by a start call.
type startRequest struct {
	Name  string      `json:"name"`
	Nodes []flow.Node `json:"nodes"`
	Edges []flow.Edge `json:"edges"`
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body startRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		s.logger.Warn("start: invalid request body", "simulation_id", id, "err", err)
		return
	}

	g, err := flow.NewGraph(body.Nodes, body.Edges)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if report := validator.ValidateGraph(g); !report.OK() {
		http.Error(w, report.Err().Error(), http.StatusBadRequest)
		return
	}

	resp, err := s.registry.Start(r.Context(), id, g)
	if err != nil {
		s.writeError(w, id, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// inputRequest mirrors flow.Input on the wire.
type inputRequest struct {
	Text     string `json:"text,omitempty"`
	ButtonID string `json:"button_id,omitempty"`
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body inputRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		s.logger.Warn("input: invalid request body", "simulation_id", id, "err", err)
		return
	}

	resp, err := s.registry.SendInput(r.Context(), id, flow.Input{Text: body.Text, ButtonID: body.ButtonID})
	if err != nil {
		s.writeError(w, id, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.registry.End(r.Context(), id); err != nil {
		s.writeError(w, id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ids, err := s.registry.List(r.Context())
	if err != nil {
		http.Error(w, "failed to list simulations", http.StatusInternalServerError)
		s.logger.Error("list failed", "err", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"simulations": ids})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeError(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, flow.ErrSessionNotFound) {
		http.Error(w, "simulation not found", http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
	s.logger.Error("request failed", "simulation_id", id, "err", err)
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
