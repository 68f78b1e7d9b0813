// Package state defines the canonical project aggregate and the pure
// transition function that mutates it. Nothing in this package performs
// I/O; persistence, dispatch, and collaborator calls live in sibling
// packages that wrap the values this package produces.
package state

import "time"

// Phase is the project's current lifecycle stage.
type Phase string

const (
	PhaseIdle                      Phase = "idle"
	PhasePlanning                  Phase = "planning"
	PhaseAwaitingClarification     Phase = "awaiting_clarification"
	PhaseAwaitingApproval          Phase = "awaiting_approval"
	PhaseAwaitingExecutionApproval Phase = "awaiting_execution_approval"
	PhaseExecuting                 Phase = "executing"
	PhasePaused                    Phase = "paused"
	PhaseCompleted                 Phase = "completed"
	PhaseError                     Phase = "error"
)

// AgentTaskType distinguishes planning dispatches from execution dispatches.
type AgentTaskType string

const (
	AgentTaskPlanning  AgentTaskType = "planning"
	AgentTaskExecution AgentTaskType = "execution"
)

// AgentTaskStatus tracks an AgentTask through its lifecycle.
type AgentTaskStatus string

const (
	TaskPending    AgentTaskStatus = "pending"
	TaskInProgress AgentTaskStatus = "in_progress"
	TaskCompleted  AgentTaskStatus = "completed"
	TaskFailed     AgentTaskStatus = "failed"
)

// ApprovalType names what an ApprovalRequest gates.
type ApprovalType string

const (
	ApprovalPlan           ApprovalType = "plan"
	ApprovalExecutionStart ApprovalType = "execution_start"
	ApprovalExecutionRetry ApprovalType = "execution_retry"
)

// ClarificationStatus tracks a ClarificationRecord through its lifecycle.
type ClarificationStatus string

const (
	ClarificationOpen     ClarificationStatus = "open"
	ClarificationAnswered ClarificationStatus = "answered"
	ClarificationResolved ClarificationStatus = "resolved"
)

// DiscussionType categorizes a DiscussionEntry.
type DiscussionType string

const (
	DiscussionClarification DiscussionType = "clarification"
	DiscussionPlan          DiscussionType = "plan"
	DiscussionExecution     DiscussionType = "execution"
	DiscussionSystem        DiscussionType = "system"
)

// ProjectContext captures the structured facts a planner needs before it
// can produce a final plan. Each field also has a keyword-based fallback
// in the readiness package, sourced from answered clarifications.
type ProjectContext struct {
	ICP          string   `json:"icp,omitempty"`
	TechStack    []string `json:"techStack,omitempty"`
	Constraints  []string `json:"constraints,omitempty"`
	CoreFeatures []string `json:"coreFeatures,omitempty"`
}

// Settings are per-project toggles merged over defaults at creation time.
type Settings struct {
	RequireExecutionApproval bool `json:"requireExecutionApproval"`
	RequireRetryApproval     bool `json:"requireRetryApproval"`
}

// DefaultSettings returns the baseline settings create_project merges
// caller-supplied overrides over.
func DefaultSettings() Settings {
	return Settings{
		RequireExecutionApproval: false,
		RequireRetryApproval:     true,
	}
}

// SettingsOverride carries only the settings a create_project caller
// actually wants to change; nil fields keep the default.
type SettingsOverride struct {
	RequireExecutionApproval *bool `json:"requireExecutionApproval,omitempty"`
	RequireRetryApproval     *bool `json:"requireRetryApproval,omitempty"`
}

// AgentTask is a unit of work handed to the planner or executor backend.
// Once DispatchedAt is set it never changes; re-dispatch creates a new
// AgentTask rather than mutating this one.
type AgentTask struct {
	ID           string          `json:"id"`
	Type         AgentTaskType   `json:"type"`
	Status       AgentTaskStatus `json:"status"`
	Input        map[string]any  `json:"input,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	DispatchedAt *time.Time      `json:"dispatchedAt,omitempty"`
	PlanID       string          `json:"planId,omitempty"`
	DefinitionID string          `json:"definitionId,omitempty"`
}

// ClarificationRecord is a planner-raised question loop gating the
// transition to final planning. Questions and answers are aligned by
// index once Status becomes answered.
type ClarificationRecord struct {
	ID         string              `json:"id"`
	Questions  []string            `json:"questions"`
	Answers    []string            `json:"answers,omitempty"`
	Status     ClarificationStatus `json:"status"`
	CreatedAt  time.Time           `json:"createdAt"`
	ResolvedAt *time.Time          `json:"resolvedAt,omitempty"`
}

// Milestone is a roadmap entry inside a PlanSnapshot.
type Milestone struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	TargetDate  string `json:"targetDate,omitempty"`
}

// Feature is a scoped capability inside a PlanSnapshot.
type Feature struct {
	ID           string   `json:"id,omitempty"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
	Owners       []string `json:"owners,omitempty"`
}

// ExecutionTaskDef is a unit of planned work inside a PlanSnapshot. Role
// is an open string; the prompt templater suggests a fixed list but the
// schema tolerates any value (spec Open Question (c)).
type ExecutionTaskDef struct {
	ID          string         `json:"id,omitempty"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Role        string         `json:"role,omitempty"`
	DependsOn   []string       `json:"dependsOn,omitempty"`
	Payload     map[string]any `json:"payload,omitempty"`
}

// PlanSnapshot is an immutable, content-addressed plan. Its ID is a hash
// of its normalized content, so re-normalizing identical content always
// yields the same snapshot and duplicate inserts are no-ops.
type PlanSnapshot struct {
	ID        string             `json:"id"`
	CreatedAt time.Time          `json:"createdAt"`
	Roadmap   []Milestone        `json:"roadmap"`
	Features  []Feature          `json:"features"`
	Tasks     []ExecutionTaskDef `json:"tasks"`
	Rationale string             `json:"rationale,omitempty"`
}

// ApprovalRequest is a user gate that must be consumed exactly once
// before the machine proceeds.
type ApprovalRequest struct {
	ID          string         `json:"id"`
	Type        ApprovalType   `json:"type"`
	RequestedAt time.Time      `json:"requestedAt"`
	Details     map[string]any `json:"details,omitempty"`
	PlanID      string         `json:"planId,omitempty"`
	TaskIDs     []string       `json:"taskIds,omitempty"`
}

// AgentResultStatus is the outcome of a single dispatched AgentTask.
type AgentResultStatus string

const (
	ResultSuccess AgentResultStatus = "success"
	ResultFailure AgentResultStatus = "failure"
)

// AgentResult is how an external collaborator reports the outcome of a
// dispatched AgentTask back into the machine via an agent_result intent.
type AgentResult struct {
	TaskID    string            `json:"taskId"`
	Status    AgentResultStatus `json:"status"`
	Output    any               `json:"output,omitempty"`
	Artifacts []string          `json:"artifacts,omitempty"`
	Logs      []string          `json:"logs,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// ExecutionSummary is derived, never primary: it is recomputed in full
// from PendingTasks and Results on every execution update.
type ExecutionSummary struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
	InProgress int `json:"inProgress"`
}

// ExecutionFailure pairs a failed task with its recorded reason.
type ExecutionFailure struct {
	TaskID string `json:"taskId"`
	Reason string `json:"reason"`
}

// ExecutionState is the derived view over execution AgentTasks.
type ExecutionState struct {
	Results  map[string]AgentResult `json:"results,omitempty"`
	Summary  ExecutionSummary       `json:"summary"`
	Failures []ExecutionFailure     `json:"failures,omitempty"`
}

// DiscussionEntry is an append-only timeline event. Its ID is
// content-addressed, so two entries with identical type/message/
// timestamp/metadata collapse to the same ID — this is intentional
// per-event deduplication, not a bug.
type DiscussionEntry struct {
	ID        string         `json:"id"`
	Type      DiscussionType `json:"type"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// TransitionRecord is an append-only audit entry for one accepted intent.
type TransitionRecord struct {
	Timestamp time.Time `json:"timestamp"`
	IntentType string   `json:"intentType"`
	From      Phase      `json:"from"`
	To        Phase      `json:"to"`
}

// ProjectState is the root aggregate: exactly one per store, mutated
// exclusively by the façade through transit.
type ProjectState struct {
	ProjectID      string                 `json:"projectId"`
	Phase          Phase                  `json:"phase"`
	Version        int                    `json:"version"`
	UpdatedAt      time.Time              `json:"updatedAt"`
	Goal           string                 `json:"goal,omitempty"`
	Context        *ProjectContext        `json:"context,omitempty"`
	Plans          map[string]PlanSnapshot `json:"plans"`
	CurrentPlanID  string                 `json:"currentPlanId,omitempty"`
	PendingTasks   []AgentTask            `json:"pendingTasks"`
	Approvals      []ApprovalRequest      `json:"approvals"`
	Clarifications []ClarificationRecord  `json:"clarifications"`
	Discussion     []DiscussionEntry      `json:"discussion"`
	Execution      *ExecutionState        `json:"execution,omitempty"`
	Settings       Settings               `json:"settings"`
	History        []TransitionRecord     `json:"history"`
}
