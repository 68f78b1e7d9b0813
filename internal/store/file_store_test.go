package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/andywolf/orcaspine/internal/state"
)

func TestFileStore_LoadMissingReturnsNilNil(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(filepath.Join(dir, "project.json"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	s, err := fs.Load(context.Background())
	if err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}
	if s != nil {
		t.Errorf("Load on missing file = %v, want nil", s)
	}
}

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "project.json")
	fs, err := NewFileStore(filePath)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	original := &state.ProjectState{
		ProjectID: "p1",
		Phase:     state.PhasePlanning,
		Version:   3,
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
		Goal:      "ship a scheduler",
		Plans:     map[string]state.PlanSnapshot{},
	}

	if err := fs.Save(context.Background(), original); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := os.Stat(filePath); err != nil {
		t.Fatalf("expected state file to exist: %v", err)
	}

	fs2, err := NewFileStore(filePath)
	if err != nil {
		t.Fatalf("NewFileStore (reload): %v", err)
	}
	got, err := fs2.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil {
		t.Fatal("Load() = nil, want the saved state")
	}
	if got.ProjectID != original.ProjectID || got.Phase != original.Phase || got.Version != original.Version {
		t.Errorf("Load() = %+v, want it to round-trip %+v", got, original)
	}
}

func TestFileStore_SaveLeavesNoTempFilesBehind(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(filepath.Join(dir, "project.json"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if err := fs.Save(context.Background(), &state.ProjectState{ProjectID: "p1", Plans: map[string]state.PlanSnapshot{}}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestFileStore_SaveOverwritesPreviousVersion(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "project.json")
	fs, err := NewFileStore(filePath)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	ctx := context.Background()
	if err := fs.Save(ctx, &state.ProjectState{ProjectID: "p1", Version: 1, Plans: map[string]state.PlanSnapshot{}}); err != nil {
		t.Fatalf("Save v1: %v", err)
	}
	if err := fs.Save(ctx, &state.ProjectState{ProjectID: "p1", Version: 2, Plans: map[string]state.PlanSnapshot{}}); err != nil {
		t.Fatalf("Save v2: %v", err)
	}

	got, err := fs.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Version != 2 {
		t.Errorf("Load().Version = %d, want 2", got.Version)
	}
}
