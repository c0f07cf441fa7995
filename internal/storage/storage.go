// Package storage is the local persistence adapter: the authoritative
// application state lives in a single JSON file under the data directory.
package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vonshlovens/fretlog/internal/model"
)

// StateFileName is the fixed key the full state snapshot is stored under
const StateFileName = "guitar-maintenance-app.json"

// FileStore reads and writes the application state file
type FileStore struct {
	path string
}

// NewFileStore creates a store rooted at the given data directory
func NewFileStore(dataDir string) *FileStore {
	return &FileStore{path: filepath.Join(dataDir, StateFileName)}
}

// Path returns the location of the state file
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the persisted state. A missing file or a file that fails to
// parse yields an empty state rather than an error; a reload must never
// take the application down. Date fields rehydrate to time.Time values
// through JSON decoding.
func (s *FileStore) Load() model.AppState {
	empty := model.AppState{
		Guitars:         []model.Guitar{},
		MaintenanceLogs: []model.MaintenanceLog{},
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to read state file", "path", s.path, "error", err)
		}
		return empty
	}

	state := model.AppState{}
	if err := json.Unmarshal(data, &state); err != nil {
		slog.Warn("failed to parse state file, starting empty", "path", s.path, "error", err)
		return empty
	}

	if state.Guitars == nil {
		state.Guitars = []model.Guitar{}
	}
	if state.MaintenanceLogs == nil {
		state.MaintenanceLogs = []model.MaintenanceLog{}
	}

	return state
}

// Save writes the full state snapshot. Errors are returned so the caller
// can log them, but a failed save only degrades that session to
// in-memory state; it is never fatal.
func (s *FileStore) Save(state model.AppState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}
