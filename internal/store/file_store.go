package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/andywolf/orcaspine/internal/state"
)

// FileStore persists ProjectState as a single JSON document, writing
// through a temp file and renaming into place so a reader never
// observes a half-written file. This is the default store for local,
// single-host use — the spec's non-goal of multi-host coordination
// means a single os.File is always enough.
type FileStore struct {
	mu       sync.Mutex
	filePath string
}

// NewFileStore returns a FileStore persisting at filePath, creating its
// parent directory if needed.
func NewFileStore(filePath string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return nil, fmt.Errorf("store: create state directory: %w", err)
	}
	return &FileStore{filePath: filePath}, nil
}

func (f *FileStore) Load(_ context.Context) (*state.ProjectState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read state file: %w", err)
	}

	if err := validateStateDocument(data); err != nil {
		return nil, err
	}

	var s state.ProjectState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("store: parse state file: %w", err)
	}
	return &s, nil
}

func (f *FileStore) Save(_ context.Context, s *state.ProjectState) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.filePath), ".state-*.tmp")
	if err != nil {
		return fmt.Errorf("store: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("store: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, f.filePath); err != nil {
		return fmt.Errorf("store: rename temp file into place: %w", err)
	}
	return nil
}
