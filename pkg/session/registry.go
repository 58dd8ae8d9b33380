// Package session manages live simulations: one frozen graph snapshot
// and one mutable execution state per simulation id, with per-id
// serialization of driver calls.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/botwalk/botwalk/internal/logging"
	"github.com/botwalk/botwalk/internal/metrics"
	"github.com/botwalk/botwalk/internal/runtime"
	"github.com/botwalk/botwalk/pkg/flow"
	"github.com/botwalk/botwalk/pkg/ports"
)

// lockEntry pairs a mutex with a reference count so idle locks can be
// garbage collected.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Registry is the session service. It owns the graph snapshots, runs
// the engine, and persists execution state through the injected store.
// Construct one per process and share it across adapters.
type Registry struct {
	store  ports.StateStore
	engine *runtime.Engine
	logger *slog.Logger
	locker ports.Locker
	stats  *metrics.Metrics

	mu     sync.Mutex
	locks  map[string]*lockEntry
	graphs map[string]*flow.Graph
}

// Option configures the Registry.
type Option func(*Registry)

// WithLogger sets a structured logger (default: no-op).
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithLocker enables cross-process locking around store access.
func WithLocker(locker ports.Locker) Option {
	return func(r *Registry) { r.locker = locker }
}

// WithEngine replaces the default engine (tests inject deterministic
// clocks and id generators this way).
func WithEngine(engine *runtime.Engine) Option {
	return func(r *Registry) { r.engine = engine }
}

// WithMetrics wires Prometheus instruments.
func WithMetrics(stats *metrics.Metrics) Option {
	return func(r *Registry) { r.stats = stats }
}

// NewRegistry creates a session registry on the given state store.
func NewRegistry(store ports.StateStore, opts ...Option) *Registry {
	r := &Registry{
		store:  store,
		engine: runtime.NewEngine(),
		logger: logging.NewNop(),
		stats:  metrics.NewNop(),
		locks:  make(map[string]*lockEntry),
		graphs: make(map[string]*flow.Graph),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create initializes a pending session for the graph, positioned at
// its unique start node. Calling Create for an existing id replaces
// the session.
func (r *Registry) Create(ctx context.Context, simulationID string, g *flow.Graph) error {
	start, err := g.StartNode()
	if err != nil {
		return fmt.Errorf("create session %s: %w", simulationID, err)
	}

	return r.withLock(ctx, simulationID, func(ctx context.Context) error {
		r.setGraph(simulationID, g)
		if err := r.store.Save(ctx, simulationID, flow.NewState(start.ID)); err != nil {
			return fmt.Errorf("create session %s: %w", simulationID, err)
		}
		r.stats.ActiveSessions.Inc()
		return nil
	})
}

// Start runs the simulation from its start node until it blocks or
// finishes. A session is created on the fly when none exists for the
// id; an existing session keeps its original graph snapshot and is
// restarted with a cleared transcript. The response carries the full
// message log of this run.
func (r *Registry) Start(ctx context.Context, simulationID string, g *flow.Graph) (*flow.Response, error) {
	var resp *flow.Response
	err := r.withLock(ctx, simulationID, func(ctx context.Context) error {
		graph := r.graph(simulationID)
		state, err := r.store.Load(ctx, simulationID)

		switch {
		case err == nil && graph != nil:
			// Restart: keep the frozen snapshot, drop prior output.
		case errors.Is(err, flow.ErrSessionNotFound) || graph == nil:
			if g == nil {
				return fmt.Errorf("start %s: %w", simulationID, flow.ErrSessionNotFound)
			}
			start, serr := g.StartNode()
			if serr != nil {
				return fmt.Errorf("start %s: %w", simulationID, serr)
			}
			graph = g
			r.setGraph(simulationID, g)
			state = flow.NewState(start.ID)
			r.stats.ActiveSessions.Inc()
		default:
			return fmt.Errorf("start %s: %w", simulationID, err)
		}

		state.Status = flow.StatusRunning
		state.Messages = []flow.Message{}

		r.engine.Run(state, graph)
		r.observe(state, len(state.Messages))

		if err := r.store.Save(ctx, simulationID, state); err != nil {
			return fmt.Errorf("start %s: %w", simulationID, err)
		}

		r.stats.SimulationsStarted.Inc()
		resp = r.response(simulationID, state, state.Messages)
		return nil
	})
	return resp, err
}

// SendInput applies one user turn to a waiting simulation and resumes
// the walk. The response carries only the messages appended by this
// call; drivers accumulate history themselves.
func (r *Registry) SendInput(ctx context.Context, simulationID string, input flow.Input) (*flow.Response, error) {
	var resp *flow.Response
	err := r.withLock(ctx, simulationID, func(ctx context.Context) error {
		graph := r.graph(simulationID)
		if graph == nil {
			return fmt.Errorf("send input %s: %w", simulationID, flow.ErrSessionNotFound)
		}
		state, err := r.store.Load(ctx, simulationID)
		if err != nil {
			return fmt.Errorf("send input %s: %w", simulationID, err)
		}

		before := len(state.Messages)
		r.engine.Resume(state, graph, input)
		r.stats.InputsReceived.Inc()
		r.observe(state, len(state.Messages)-before)

		if err := r.store.Save(ctx, simulationID, state); err != nil {
			return fmt.Errorf("send input %s: %w", simulationID, err)
		}

		resp = r.response(simulationID, state, state.Messages[before:])
		return nil
	})
	return resp, err
}

// End discards the session. Ending an unknown id is a no-op.
func (r *Registry) End(ctx context.Context, simulationID string) error {
	return r.withLock(ctx, simulationID, func(ctx context.Context) error {
		if r.graph(simulationID) == nil {
			return nil
		}
		r.dropGraph(simulationID)
		r.stats.ActiveSessions.Dec()
		if err := r.store.Delete(ctx, simulationID); err != nil {
			return fmt.Errorf("end %s: %w", simulationID, err)
		}
		return nil
	})
}

// List returns the live simulation ids.
func (r *Registry) List(ctx context.Context) ([]string, error) {
	return r.store.List(ctx)
}

func (r *Registry) response(simulationID string, state *flow.State, msgs []flow.Message) *flow.Response {
	out := make([]flow.Message, len(msgs))
	copy(out, msgs)

	vars := make(map[string]any, len(state.Variables))
	for k, v := range state.Variables {
		vars[k] = v
	}

	return &flow.Response{
		SimulationID:    simulationID,
		Status:          state.Status,
		CurrentNodeID:   state.CurrentNodeID,
		Messages:        out,
		WaitingForInput: state.Status == flow.StatusWaitingInput,
		Variables:       vars,
	}
}

func (r *Registry) observe(state *flow.State, emitted int) {
	if emitted > 0 {
		r.stats.MessagesEmitted.Add(float64(emitted))
	}
	switch state.Status {
	case flow.StatusCompleted:
		r.stats.SimulationsCompleted.Inc()
	case flow.StatusError:
		r.stats.SimulationsErrored.Inc()
	}
}

func (r *Registry) graph(simulationID string) *flow.Graph {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.graphs[simulationID]
}

func (r *Registry) setGraph(simulationID string, g *flow.Graph) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.graphs[simulationID] = g
}

func (r *Registry) dropGraph(simulationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.graphs, simulationID)
}

// acquire gets or creates the lock entry for the id and bumps its
// reference count.
func (r *Registry) acquire(simulationID string) *lockEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.locks[simulationID]
	if !ok {
		entry = &lockEntry{}
		r.locks[simulationID] = entry
	}
	entry.refs++
	return entry
}

// release drops the reference and deletes the entry at zero.
func (r *Registry) release(simulationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.locks[simulationID]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(r.locks, simulationID)
	}
}

// withLock serializes fn against other calls for the same id, taking
// the distributed lock too when one is configured.
func (r *Registry) withLock(ctx context.Context, simulationID string, fn func(context.Context) error) error {
	entry := r.acquire(simulationID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		r.release(simulationID)
	}()

	if r.locker != nil {
		unlock, err := r.locker.Lock(ctx, simulationID, 30*time.Second)
		if err != nil {
			return fmt.Errorf("acquire lock %s: %w", simulationID, err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				r.logger.Warn("failed to release lock, TTL will expire it",
					"simulation_id", simulationID, "err", err)
			}
		}()
	}

	return fn(ctx)
}
