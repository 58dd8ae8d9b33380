// Package memory provides an in-process StateStore. This is the
// default for local simulations: state lives exactly as long as the
// process, which matches the client-side simulator it replaces.
package memory

import (
	"context"
	"sync"

	"github.com/botwalk/botwalk/pkg/flow"
)

// Store implements ports.StateStore in memory. Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	data map[string]*flow.State
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{data: make(map[string]*flow.State)}
}

// Save stores a deep copy so later caller mutations don't leak in.
func (s *Store) Save(ctx context.Context, simulationID string, state *flow.State) error {
	copied := state.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[simulationID] = copied
	return nil
}

// Load returns a copy so the caller can't mutate stored state.
func (s *Store) Load(ctx context.Context, simulationID string) (*flow.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.data[simulationID]
	if !ok {
		return nil, flow.ErrSessionNotFound
	}
	return state.Clone(), nil
}

// Delete removes the state; deleting an absent id is a no-op.
func (s *Store) Delete(ctx context.Context, simulationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, simulationID)
	return nil
}

// List returns the stored simulation ids.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}
