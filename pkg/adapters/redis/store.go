// Package redis provides a Redis-backed StateStore and Locker for
// deployments where several processes share simulation state.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/botwalk/botwalk/pkg/flow"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.StateStore on Redis, serializing state as JSON.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures the Store.
type Option func(*Store)

// WithTTL sets an expiration for stored simulations (default: none).
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// WithPrefix sets the key prefix (default "botwalk:sim:").
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// New creates a store with its own client.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a store on an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: "botwalk:sim:",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Client exposes the underlying client so a Locker can share the
// connection pool.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(simulationID string) string {
	return s.prefix + simulationID
}

// Save serializes and stores the state, refreshing the TTL if set.
func (s *Store) Save(ctx context.Context, simulationID string, state *flow.State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("serialize state: %w", err)
	}
	if err := s.client.Set(ctx, s.key(simulationID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Load retrieves and deserializes the state.
func (s *Store) Load(ctx context.Context, simulationID string) (*flow.State, error) {
	payload, err := s.client.Get(ctx, s.key(simulationID)).Bytes()
	if err == backend.Nil {
		return nil, flow.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var state flow.State
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("deserialize state: %w", err)
	}
	if state.Variables == nil {
		state.Variables = make(map[string]any)
	}
	return &state, nil
}

// Delete removes the state.
func (s *Store) Delete(ctx context.Context, simulationID string) error {
	if err := s.client.Del(ctx, s.key(simulationID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// List scans for stored simulation ids under the prefix.
func (s *Store) List(ctx context.Context) ([]string, error) {
	var (
		ids    []string
		cursor uint64
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan: %w", err)
		}
		for _, k := range keys {
			ids = append(ids, k[len(s.prefix):])
		}
		cursor = next
		if cursor == 0 {
			return ids, nil
		}
	}
}
