package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestExportFileName(t *testing.T) {
	now := time.Date(2026, 8, 31, 23, 59, 0, 0, time.UTC)

	got := ExportFileName(now)
	want := "guitar-maintenance-data-2026-08-31.json"
	if got != want {
		t.Errorf("ExportFileName = %q, want %q", got, want)
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backup.json")
	state := sampleState()

	if err := Export(state, path); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	imported, err := Import(path)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if len(imported.Guitars) != len(state.Guitars) {
		t.Errorf("guitar count changed: %d != %d", len(imported.Guitars), len(state.Guitars))
	}
	if len(imported.MaintenanceLogs) != len(state.MaintenanceLogs) {
		t.Errorf("log count changed: %d != %d",
			len(imported.MaintenanceLogs), len(state.MaintenanceLogs))
	}
	if !imported.Guitars[0].CreatedAt.Equal(state.Guitars[0].CreatedAt) {
		t.Errorf("dates did not survive export/import: %v != %v",
			imported.Guitars[0].CreatedAt, state.Guitars[0].CreatedAt)
	}
}

func TestImport_MissingLogsKeyRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")

	if err := os.WriteFile(path, []byte(`{"guitars": []}`), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := Import(path); err == nil {
		t.Fatal("import without maintenanceLogs key should be rejected")
	}
}

func TestImport_MissingGuitarsKeyRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")

	if err := os.WriteFile(path, []byte(`{"maintenanceLogs": []}`), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := Import(path); err == nil {
		t.Fatal("import without guitars key should be rejected")
	}
}

func TestImport_UnparseableDateRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")

	doc := `{
		"guitars": [{"id": "1", "maker": "Fender", "model": "Strat", "createdAt": "not-a-date", "updatedAt": "also-not"}],
		"maintenanceLogs": []
	}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := Import(path); err == nil {
		t.Fatal("import with unparseable dates should be rejected")
	}
}

func TestImport_NonArrayCollectionRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")

	doc := `{"guitars": {}, "maintenanceLogs": []}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := Import(path); err == nil {
		t.Fatal("non-array guitars collection should be rejected")
	}
}

func TestImport_MissingFile(t *testing.T) {
	if _, err := Import(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestListBackups(t *testing.T) {
	dir := t.TempDir()

	files := []string{
		"guitar-maintenance-data-2026-01-01.json",
		"guitar-maintenance-data-2026-03-15.json",
		"unrelated.txt",
		"state.json",
	}
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "guitar-maintenance-data-2026-05-05.json"), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}

	backups, err := ListBackups(dir)
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}

	want := []string{
		"guitar-maintenance-data-2026-01-01.json",
		"guitar-maintenance-data-2026-03-15.json",
	}
	if len(backups) != len(want) {
		t.Fatalf("expected %v, got %v", want, backups)
	}
	for i := range want {
		if backups[i] != want[i] {
			t.Errorf("backups[%d] = %q, want %q", i, backups[i], want[i])
		}
	}
}

func TestListBackups_MissingDir(t *testing.T) {
	if _, err := ListBackups(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
