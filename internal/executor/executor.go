// Package executor defines the boundary between a dispatched execution
// AgentTask and whatever actually runs it. The orchestrator core only
// ever sees the Executor interface; concrete backends (a local Docker
// container, a remote GitHub-App-authenticated dispatch) live here as
// collaborators, never imported by internal/state.
package executor

import "context"

// TaskEnvelope is the wire shape sent to a backend for one execution task.
type TaskEnvelope struct {
	TaskID          string         `json:"task_id"`
	Inputs          map[string]any `json:"inputs"`
	Constraints     map[string]any `json:"constraints,omitempty"`
	ExpectedOutputs []string       `json:"expected_outputs,omitempty"`
}

// ResultEnvelope is the wire shape a backend reports back. A backend
// that returns free, non-JSON text is treated by the caller as a
// success whose sole artifact is that text — ResultEnvelope itself is
// always the already-interpreted form.
type ResultEnvelope struct {
	TaskID    string   `json:"task_id"`
	Status    string   `json:"status"` // "success" | "failure"
	Artifacts []string `json:"artifacts,omitempty"`
	Logs      []string `json:"logs,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// Executor runs one execution task and reports its outcome. Run must
// never panic on a task failure — a failing task is a normal
// ResultEnvelope with Status "failure", not a Go error; a Go error
// return means the backend itself could not be reached at all.
type Executor interface {
	Run(ctx context.Context, task TaskEnvelope) (ResultEnvelope, error)
}
