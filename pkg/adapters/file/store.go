// Package file provides a filesystem StateStore: one JSON document
// per simulation. It suits single-host deployments that want sessions
// to survive restarts without running Redis.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/botwalk/botwalk/pkg/flow"
)

// Store implements ports.StateStore on the local filesystem.
type Store struct {
	BasePath string
}

// New creates a Store rooted at basePath (default ".botwalk/sessions").
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".botwalk", "sessions")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(simulationID string) string {
	return filepath.Join(s.BasePath, simulationID+".json")
}

// Save writes the state atomically: temp file, fsync, rename.
func (s *Store) Save(ctx context.Context, simulationID string, state *flow.State) error {
	if simulationID == "" {
		return fmt.Errorf("simulation id cannot be empty")
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("ensure session directory: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	// Temp file in the same directory, so the rename stays on one
	// filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+simulationID+"-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("fsync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	destPath := s.path(simulationID)
	// os.Rename fails on Windows when dest exists; a delete window is
	// preferable to a partially written session file.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("remove existing session file: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads and unmarshals the state.
func (s *Store) Load(ctx context.Context, simulationID string) (*flow.State, error) {
	if simulationID == "" {
		return nil, fmt.Errorf("simulation id cannot be empty")
	}

	data, err := os.ReadFile(s.path(simulationID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, flow.ErrSessionNotFound
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var state flow.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("unmarshal session state: %w", err)
	}
	if state.Variables == nil {
		state.Variables = make(map[string]any)
	}
	return &state, nil
}

// Delete removes the session file; absent files are not an error.
func (s *Store) Delete(ctx context.Context, simulationID string) error {
	if simulationID == "" {
		return fmt.Errorf("simulation id cannot be empty")
	}

	err := os.Remove(s.path(simulationID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete session file: %w", err)
	}
	return nil
}

// List returns the stored simulation ids.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, "tmp-") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}
