// Package store persists a single ProjectState per store instance. The
// façade is the only caller; no other process should hold a writer
// against the same path or key.
package store

import (
	"context"

	"github.com/andywolf/orcaspine/internal/state"
)

// Store loads and saves the one ProjectState it owns. Load returns
// (nil, nil) on first run — a missing file or key is not an error.
type Store interface {
	Load(ctx context.Context) (*state.ProjectState, error)
	Save(ctx context.Context, s *state.ProjectState) error
}
