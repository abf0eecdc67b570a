// SPDX-License-Identifier: MPL-2.0

// Package state persists the previously selected page between runs.
package state

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the default state file name inside the config directory.
const FileName = "state.toml"

type (
	// State is what survives a restart.
	State struct {
		PreviousKey string    `toml:"previous_key"`
		UpdatedAt   time.Time `toml:"updated_at"`
	}

	// Store reads and writes one TOML state file. The zero value is not
	// usable; use NewStore.
	Store struct {
		mu   sync.Mutex
		path string
		now  func() time.Time
	}
)

// NewStore returns a store for path. An empty path gives a store that keeps
// nothing.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load reads the state. A missing file is the zero State.
func (s *Store) Load() (State, error) {
	if s.path == "" {
		return State{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("read state: %w", err)
	}

	var st State
	if err := toml.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("decode state %s: %w", s.path, err)
	}
	return st, nil
}

// SaveKey records key as the previous selection.
func (s *Store) SaveKey(key string) error {
	return s.Save(State{PreviousKey: key, UpdatedAt: s.now().UTC().Truncate(time.Second)})
}

// Save writes st, replacing the file atomically.
func (s *Store) Save(st State) error {
	if s.path == "" {
		return nil
	}

	data, err := toml.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".state-*.toml")
	if err != nil {
		return fmt.Errorf("create state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
