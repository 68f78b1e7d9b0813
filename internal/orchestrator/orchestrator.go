// Package orchestrator is the façade (C5): the single entry point that
// loads state, serializes intent handling, persists before effects run,
// and exposes the lifecycle API everything else (CLI, dashboard, MCP
// surface) calls through.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/andywolf/orcaspine/internal/dispatch"
	"github.com/andywolf/orcaspine/internal/state"
	"github.com/andywolf/orcaspine/internal/store"
	"github.com/andywolf/orcaspine/internal/telemetry"
)

// StateTransitionResult is returned from every HandleIntent call.
type StateTransitionResult struct {
	State   *state.ProjectState
	Effects []state.Effect
}

// Facade owns the one ProjectState backing its store. Intents are
// serialized through mu: at most one is in flight, and any internally
// generated follow-up intent (an agent_result produced by dispatching
// an effect) is processed to completion before mu is released.
type Facade struct {
	mu         sync.Mutex
	store      store.Store
	dispatcher *dispatch.Dispatcher
	logger     *telemetry.Logger
	metrics    *telemetry.Metrics
	now        func() time.Time

	state *state.ProjectState
}

// New builds a Facade. now defaults to time.Now().UTC if nil.
func New(st store.Store, dispatcher *dispatch.Dispatcher, logger *telemetry.Logger, metrics *telemetry.Metrics, now func() time.Time) *Facade {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Facade{store: st, dispatcher: dispatcher, logger: logger, metrics: metrics, now: now}
}

// Initialize loads the project from the store, if any, and caches it.
// It returns (nil, nil) on first run.
func (f *Facade) Initialize(ctx context.Context) (*state.ProjectState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	loaded, err := f.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: load state: %w", err)
	}
	f.state = loaded
	return f.state.Clone(), nil
}

// GetState returns a detached snapshot of the current in-memory state.
func (f *Facade) GetState() *state.ProjectState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.Clone()
}

// HandleIntent is the single entry point for advancing the project.
// Concurrent callers queue on mu; each intent (and every follow-up
// agent_result it produces via dispatch) runs to completion before the
// next caller's intent is accepted.
func (f *Facade) HandleIntent(ctx context.Context, intent state.Intent) (*StateTransitionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.handleIntentLocked(ctx, intent)
}

func (f *Facade) handleIntentLocked(ctx context.Context, intent state.Intent) (*StateTransitionResult, error) {
	if f.state == nil && intent.Type != state.IntentCreateProject {
		return nil, state.ErrNotInitialized
	}
	if f.state != nil && intent.Type == state.IntentCreateProject {
		return nil, state.ErrAlreadyInitialized
	}

	now := f.now()
	previous := f.state

	var next *state.ProjectState
	var effects []state.Effect
	if f.state == nil {
		next, effects = state.Bootstrap(intent, now)
	} else {
		next, effects = state.Transit(f.state, intent, now)
	}

	if err := f.store.Save(ctx, next); err != nil {
		// PersistenceFailure: the intent is considered not applied, and
		// in-memory state rolls back to the pre-call snapshot.
		f.state = previous
		return nil, fmt.Errorf("orchestrator: persist state: %w", err)
	}
	f.state = next

	if f.logger != nil {
		f.logger.SetVersion(next.Version)
		f.logger.Transition(string(intent.Type), string(transitionFrom(previous, next)), string(next.Phase))
	}
	if f.metrics != nil {
		f.metrics.Transitions.WithLabelValues(string(intent.Type), string(next.Phase)).Inc()
		f.metrics.StateVersion.Set(float64(next.Version))
	}

	if f.dispatcher != nil && len(effects) > 0 {
		followUps := f.dispatcher.Execute(ctx, effects)
		for _, followUp := range followUps {
			if _, err := f.handleIntentLocked(ctx, followUp); err != nil {
				if f.logger != nil {
					f.logger.Warn("follow-up intent failed", map[string]any{"error": err.Error()})
				}
			}
		}
	}

	return &StateTransitionResult{State: f.state.Clone(), Effects: effects}, nil
}

func transitionFrom(previous, next *state.ProjectState) state.Phase {
	if previous == nil {
		return state.PhaseIdle
	}
	_ = next
	return previous.Phase
}
