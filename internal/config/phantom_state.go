package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// phantomState is the on-disk shape of the persisted phantom-route set
type phantomState struct {
	Destinations []string  `json:"destinations"`
	LastUpdate   time.Time `json:"last_update"`
}

const DefaultStateFile = "/tmp/routepilot_phantom_state.json"

// PhantomStore persists the set of destinations believed to carry drop
// semantics. A missing or empty file reads back as an empty set.
type PhantomStore struct {
	Path string
}

// NewPhantomStore creates a store backed by the given file path
func NewPhantomStore(path string) *PhantomStore {
	if path == "" {
		path = DefaultStateFile
	}
	return &PhantomStore{Path: path}
}

// Load reads the persisted destination set
func (s *PhantomStore) Load() ([]string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			// First run, return empty state
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read phantom state: %w", err)
	}

	var state phantomState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse phantom state: %w", err)
	}

	return state.Destinations, nil
}

// Save writes the destination set back to disk
func (s *PhantomStore) Save(destinations []string) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	state := phantomState{
		Destinations: destinations,
		LastUpdate:   time.Now(),
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal phantom state: %w", err)
	}

	if err := os.WriteFile(s.Path, data, 0644); err != nil {
		return fmt.Errorf("failed to write phantom state: %w", err)
	}

	return nil
}
