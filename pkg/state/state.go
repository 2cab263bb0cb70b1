// Package state keeps cross-run editor state, such as recently opened
// projects, in ~/.spriteedit/state.yml.
package state

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// MaxRecentFiles bounds the recent project list.
const MaxRecentFiles = 10

// State is the persisted editor state.
type State struct {
	RecentFiles []string `yaml:"recent_files"`
}

// Store binds a State to the file it is saved in.
type Store struct {
	path  string
	State State
}

// DefaultPath returns the path of the state file.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".spriteedit", "state.yml"), nil
}

// Open loads the state at path. A missing file yields an empty state.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}
	if err := yaml.Unmarshal(data, &s.State); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}
	return s, nil
}

// Path returns the file backing the store.
func (s *Store) Path() string { return s.path }

// Save writes the state, creating its directory if needed.
func (s *Store) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	data, err := yaml.Marshal(s.State)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

// AddRecent moves path to the front of the recent list.
func (s *State) AddRecent(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	out := []string{path}
	for _, p := range s.RecentFiles {
		if p != path && len(out) < MaxRecentFiles {
			out = append(out, p)
		}
	}
	s.RecentFiles = out
}

// Touch records path as the most recently used project and saves.
func (s *Store) Touch(path string) error {
	s.State.AddRecent(path)
	return s.Save()
}
