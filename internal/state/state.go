// Package state serializes step-state snapshots between turns.
//
// The engine core discards step state at run completion; when an external
// reasoning process drives a workflow turn by turn, the caller persists the
// state between turns and resubmits it. This package owns that snapshot
// document: a small YAML file naming the workflow, the step to resume at,
// and the accumulated step state.
package state

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the snapshot location used when no explicit path is
// configured, relative to the working directory.
const DefaultPath = ".skillrun/state.yaml"

// Snapshot is the serialized form of a run's progress between turns.
type Snapshot struct {
	// Workflow names the workflow being driven.
	Workflow string `yaml:"workflow"`

	// Step is the id of the step the next turn should execute.
	Step string `yaml:"step"`

	// State is the accumulated step state, threaded by replacement.
	State map[string]any `yaml:"state,omitempty"`
}

// Encode serializes a snapshot to YAML.
func Encode(s *Snapshot) ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a YAML snapshot.
func Decode(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &s, nil
}

// Load reads a snapshot file. A missing file is not an error: it returns a
// nil snapshot, meaning the run has not started.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return Decode(data)
}

// Save writes a snapshot file, creating parent directories as needed.
func Save(path string, s *Snapshot) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}
	data, err := Encode(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}
