package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/vonshlovens/fretlog/internal/model"
)

// BackupPattern matches exported backup files in a backup directory
const BackupPattern = "guitar-maintenance-data-*.json"

// ExportFileName returns the date-stamped name for a backup file
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("guitar-maintenance-data-%s.json", now.Format("2006-01-02"))
}

// Export writes the state as an indented JSON document to the given path
func Export(state model.AppState, path string) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

// importDoc detects missing collections: a nil pointer after decoding
// means the key was absent from the document.
type importDoc struct {
	Guitars         *[]model.Guitar         `json:"guitars"`
	MaintenanceLogs *[]model.MaintenanceLog `json:"maintenanceLogs"`
}

// Import parses a previously exported backup file. The document must
// carry both the guitars and maintenanceLogs collections with parseable
// dates; anything else is rejected wholesale so the current state is
// never partially replaced.
func Import(path string) (model.AppState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.AppState{}, fmt.Errorf("failed to read import file: %w", err)
	}

	doc := importDoc{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.AppState{}, fmt.Errorf("invalid backup file: %w", err)
	}

	if doc.Guitars == nil || doc.MaintenanceLogs == nil {
		return model.AppState{}, fmt.Errorf("invalid backup file: missing guitars or maintenanceLogs collection")
	}

	return model.AppState{
		Guitars:         *doc.Guitars,
		MaintenanceLogs: *doc.MaintenanceLogs,
	}, nil
}

// ListBackups returns the backup files in a directory, sorted by name.
// The date-stamped naming makes the sort chronological.
func ListBackups(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matched, err := doublestar.Match(BackupPattern, entry.Name())
		if err != nil {
			continue
		}
		if matched {
			backups = append(backups, entry.Name())
		}
	}

	sort.Strings(backups)
	return backups, nil
}
