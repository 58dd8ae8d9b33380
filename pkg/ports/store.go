package ports

import (
	"context"

	"github.com/botwalk/botwalk/pkg/flow"
)

// StateStore persists simulation state per simulation id. The graph
// snapshot is not stored here; it stays with the session registry.
type StateStore interface {
	// Save persists the state for a simulation id.
	Save(ctx context.Context, simulationID string, state *flow.State) error

	// Load retrieves the state for a simulation id.
	// Returns flow.ErrSessionNotFound if absent.
	Load(ctx context.Context, simulationID string) (*flow.State, error)

	// Delete removes the state for a simulation id.
	Delete(ctx context.Context, simulationID string) error

	// List returns the ids of stored simulations.
	List(ctx context.Context) ([]string, error)
}
