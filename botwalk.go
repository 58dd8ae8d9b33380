package botwalk

import (
	"context"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/botwalk/botwalk/internal/loader"
	"github.com/botwalk/botwalk/internal/metrics"
	"github.com/botwalk/botwalk/internal/runtime"
	"github.com/botwalk/botwalk/internal/validator"
	"github.com/botwalk/botwalk/pkg/adapters/memory"
	"github.com/botwalk/botwalk/pkg/flow"
	"github.com/botwalk/botwalk/pkg/ports"
	"github.com/botwalk/botwalk/pkg/session"
)

// Version is the library version reported by the CLI and the MCP
// server handshake.
const Version = "0.1.0"

// Flow is a named, parsed flow definition ready to simulate.
type Flow struct {
	Name  string
	Graph *flow.Graph
}

// LoadFlow reads a flow document (JSON or YAML) from disk.
func LoadFlow(path string) (*Flow, error) {
	doc, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	return &Flow{Name: doc.Name, Graph: doc.Graph}, nil
}

// ParseFlow decodes a flow document from bytes.
func ParseFlow(data []byte) (*Flow, error) {
	doc, err := loader.Parse(data)
	if err != nil {
		return nil, err
	}
	return &Flow{Name: doc.Name, Graph: doc.Graph}, nil
}

// Validate statically checks a graph. The returned warnings flag
// constructs that run but rarely mean what the author intended
// (shadowed handles, unreachable nodes); the error covers defects
// that would abort a simulation.
func Validate(g *flow.Graph) (warnings []string, err error) {
	report := validator.ValidateGraph(g)
	return report.Warnings, report.Err()
}

// Simulator is the high-level entry point for the library. It wraps
// the session registry and provides a simplified API for embedding
// flow simulations in other programs.
type Simulator struct {
	registry *session.Registry
	logger   *slog.Logger
}

// Option configures the Simulator.
type Option func(*config)

type config struct {
	store      ports.StateStore
	locker     ports.Locker
	logger     *slog.Logger
	registerer prometheus.Registerer
	maxSteps   int
}

// WithLogger sets a structured logger (default: discard).
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithStore injects a state store (default: in-memory).
func WithStore(store ports.StateStore) Option {
	return func(c *config) { c.store = store }
}

// WithLocker enables cross-process locking around store access.
func WithLocker(locker ports.Locker) Option {
	return func(c *config) { c.locker = locker }
}

// WithMetrics registers Prometheus instruments with the given
// registerer.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *config) { c.registerer = reg }
}

// WithMaxSteps bounds how many nodes a single walk may visit before
// it is declared a runaway (default 100).
func WithMaxSteps(n int) Option {
	return func(c *config) { c.maxSteps = n }
}

// New initializes a Simulator.
func New(opts ...Option) *Simulator {
	cfg := &config{
		maxSteps: runtime.DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.store == nil {
		cfg.store = memory.NewStore()
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	stats := metrics.NewNop()
	if cfg.registerer != nil {
		stats = metrics.New(cfg.registerer)
	}

	engine := runtime.NewEngine(
		runtime.WithLogger(cfg.logger),
		runtime.WithMaxSteps(cfg.maxSteps),
	)

	regOpts := []session.Option{
		session.WithLogger(cfg.logger),
		session.WithEngine(engine),
		session.WithMetrics(stats),
	}
	if cfg.locker != nil {
		regOpts = append(regOpts, session.WithLocker(cfg.locker))
	}

	return &Simulator{
		registry: session.NewRegistry(cfg.store, regOpts...),
		logger:   cfg.logger,
	}
}

// Start begins (or restarts) the simulation identified by id on the
// given flow. The response carries every message the bot emits before
// it first blocks or finishes.
func (s *Simulator) Start(ctx context.Context, id string, f *Flow) (*flow.Response, error) {
	return s.registry.Start(ctx, id, f.Graph)
}

// SendInput delivers one user turn to a waiting simulation. The
// response carries only the messages produced by this turn.
func (s *Simulator) SendInput(ctx context.Context, id string, input flow.Input) (*flow.Response, error) {
	return s.registry.SendInput(ctx, id, input)
}

// End discards the simulation and its state.
func (s *Simulator) End(ctx context.Context, id string) error {
	return s.registry.End(ctx, id)
}

// List returns the ids of live simulations.
func (s *Simulator) List(ctx context.Context) ([]string, error) {
	return s.registry.List(ctx)
}

// Registry exposes the underlying session registry for adapters that
// need it directly (HTTP, MCP).
func (s *Simulator) Registry() *session.Registry {
	return s.registry
}
