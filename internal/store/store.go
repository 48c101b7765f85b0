// Package store keeps the live match on disk between runs.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/riky97/volleyball-scoreboard/internal/match"
)

// FileName is the persisted match document inside the data directory.
const FileName = "matchState.v1.json"

// Store reads and writes a single match document.
type Store struct {
	mu   sync.Mutex
	path string
}

// New returns a Store that keeps its file in dir.
func New(dir string) *Store {
	return &Store{path: filepath.Join(dir, FileName)}
}

// Path is the file the store writes to.
func (s *Store) Path() string { return s.path }

// Load returns the saved match. A missing, unreadable or malformed document
// yields (nil, nil) so the caller starts a fresh match; only I/O failures
// other than "not found" are reported.
func (s *Store) Load() (*match.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read match state: %w", err)
	}

	var shape map[string]json.RawMessage
	if err := json.Unmarshal(data, &shape); err != nil {
		return nil, nil
	}
	for _, key := range []string{"currentSet", "rules", "home", "away"} {
		if v, ok := shape[key]; !ok || string(v) == "null" {
			return nil, nil
		}
	}

	var st match.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, nil
	}
	st = st.Clone()
	if st.Status == "" {
		st.Status = match.StatusInProgress
	}
	return &st, nil
}

// Save writes st, creating the data directory when needed.
func (s *Store) Save(st match.State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("save match state: %w", err)
	}
	return nil
}

// Clear removes the saved match. Clearing an absent file is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear match state: %w", err)
	}
	return nil
}
