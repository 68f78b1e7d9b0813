package orchestrator

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/andywolf/orcaspine/internal/dispatch"
	"github.com/andywolf/orcaspine/internal/executor"
	"github.com/andywolf/orcaspine/internal/llmclient"
	"github.com/andywolf/orcaspine/internal/state"
	"github.com/andywolf/orcaspine/internal/store"
	"github.com/stretchr/testify/require"
)

func newFacade(t *testing.T, planner *llmclient.FakePlanner, exec *executor.FakeExecutor) (*Facade, func() time.Time) {
	t.Helper()
	st, err := store.NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { now = now.Add(time.Minute); return now }

	d := &dispatch.Dispatcher{Planner: planner, Executor: exec, Now: clock}
	return New(st, d, nil, nil, clock), clock
}

// TestScenarioGoalToExecutionToCompletion walks S1-style full happy path:
// create_project -> planner asks one clarifying question -> answer ->
// planner proposes a plan -> approve_plan -> tasks dispatch and complete.
func TestScenarioGoalToExecutionToCompletion(t *testing.T) {
	planner := &llmclient.FakePlanner{Responses: []string{
		`{"questions": ["Who is the primary user?"]}`,
		`{"plan": {"roadmap": [{"title": "MVP"}], "features": [{"title": "Login"}], "tasks": [{"title": "Scaffold repo", "role": "execution"}]}}`,
	}}
	exec := &executor.FakeExecutor{}
	f, _ := newFacade(t, planner, exec)
	ctx := context.Background()

	_, err := f.Initialize(ctx)
	require.NoError(t, err)

	res, err := f.HandleIntent(ctx, state.Intent{Type: state.IntentCreateProject, ProjectID: "p1", Goal: "Build a scheduling tool"})
	require.NoError(t, err)
	require.Equal(t, state.PhaseAwaitingClarification, res.State.Phase)
	require.Len(t, res.State.Clarifications, 1)

	clarificationID := res.State.Clarifications[0].ID
	res, err = f.HandleIntent(ctx, state.Intent{
		Type:            state.IntentAnswerClarifications,
		ClarificationID: clarificationID,
		Answers:         []string{"ops managers at logistics firms"},
	})
	require.NoError(t, err)
	require.Equal(t, state.PhaseAwaitingApproval, res.State.Phase)
	require.Len(t, res.State.Approvals, 1)

	approval := res.State.Approvals[0]
	res, err = f.HandleIntent(ctx, state.Intent{Type: state.IntentApprovePlan, ApprovalID: approval.ID, PlanID: approval.PlanID})
	require.NoError(t, err)
	require.Equal(t, state.PhaseCompleted, res.State.Phase)
	require.Equal(t, 1, res.State.Execution.Summary.Total)
	require.Equal(t, 1, res.State.Execution.Summary.Completed)
	require.NotEmpty(t, exec.Calls)
}

// TestScenarioExecutionApprovalGate exercises RequireExecutionApproval:
// approve_plan should stop at awaiting_execution_approval rather than
// dispatching tasks immediately.
func TestScenarioExecutionApprovalGate(t *testing.T) {
	planner := &llmclient.FakePlanner{Responses: []string{
		`{"plan": {"roadmap": [{"title": "MVP"}], "features": [{"title": "Login"}], "tasks": [{"title": "Scaffold repo"}]}}`,
	}}
	exec := &executor.FakeExecutor{}
	f, _ := newFacade(t, planner, exec)
	ctx := context.Background()

	_, err := f.Initialize(ctx)
	require.NoError(t, err)

	requireApproval := true
	res, err := f.HandleIntent(ctx, state.Intent{
		Type: state.IntentCreateProject, ProjectID: "p1", Goal: "Build a tool",
		Context: &state.ProjectContext{ICP: "x", TechStack: []string{"x"}, Constraints: []string{"x"}, CoreFeatures: []string{"x"}},
		Settings: &state.SettingsOverride{RequireExecutionApproval: &requireApproval},
	})
	require.NoError(t, err)
	require.Equal(t, state.PhaseAwaitingApproval, res.State.Phase)

	approval := res.State.Approvals[0]
	res, err = f.HandleIntent(ctx, state.Intent{Type: state.IntentApprovePlan, ApprovalID: approval.ID, PlanID: approval.PlanID})
	require.NoError(t, err)
	require.Equal(t, state.PhaseAwaitingExecutionApproval, res.State.Phase)
	require.Empty(t, exec.Calls, "execution must not dispatch before execution approval")

	execApproval := res.State.Approvals[0]
	res, err = f.HandleIntent(ctx, state.Intent{Type: state.IntentApproveExecution, ApprovalID: execApproval.ID})
	require.NoError(t, err)
	require.Equal(t, state.PhaseCompleted, res.State.Phase)
	require.NotEmpty(t, exec.Calls)
}

// alwaysFailExecutor reports every execution task as a backend failure,
// for exercising the retry-approval gate.
type alwaysFailExecutor struct{}

func (alwaysFailExecutor) Run(_ context.Context, task executor.TaskEnvelope) (executor.ResultEnvelope, error) {
	return executor.ResultEnvelope{TaskID: task.TaskID, Status: "failure", Error: "backend exploded"}, nil
}

// TestScenarioRetryRequiresApprovalByDefault exercises the default
// RequireRetryApproval=true gate: a failed task's retry must pause for
// approval before re-dispatching.
func TestScenarioRetryRequiresApprovalByDefault(t *testing.T) {
	planner := &llmclient.FakePlanner{Responses: []string{
		`{"plan": {"roadmap": [{"title": "MVP"}], "features": [{"title": "Login"}], "tasks": [{"title": "Scaffold repo"}]}}`,
	}}
	f, _ := newFacade(t, planner, nil)
	f.dispatcher.Executor = alwaysFailExecutor{}
	ctx := context.Background()

	_, err := f.Initialize(ctx)
	require.NoError(t, err)

	res, err := f.HandleIntent(ctx, state.Intent{
		Type: state.IntentCreateProject, ProjectID: "p1", Goal: "Build a tool",
		Context: &state.ProjectContext{ICP: "x", TechStack: []string{"x"}, Constraints: []string{"x"}, CoreFeatures: []string{"x"}},
	})
	require.NoError(t, err)
	approval := res.State.Approvals[0]

	res, err = f.HandleIntent(ctx, state.Intent{Type: state.IntentApprovePlan, ApprovalID: approval.ID, PlanID: approval.PlanID})
	require.NoError(t, err)
	require.Equal(t, state.PhaseError, res.State.Phase)
	require.Equal(t, 1, res.State.Execution.Summary.Failed)

	res, err = f.HandleIntent(ctx, state.Intent{Type: state.IntentRetryTasks})
	require.NoError(t, err)
	require.Equal(t, state.PhaseAwaitingExecutionApproval, res.State.Phase, "retry must pause for approval since RequireRetryApproval defaults true")

	retryApproval := res.State.Approvals[0]
	require.Equal(t, state.ApprovalExecutionRetry, retryApproval.Type)

	res, err = f.HandleIntent(ctx, state.Intent{Type: state.IntentApproveExecution, ApprovalID: retryApproval.ID})
	require.NoError(t, err)
	require.Equal(t, state.PhaseError, res.State.Phase, "alwaysFailExecutor fails the retry too")
}

func TestScenarioUnknownApprovalIDIsRejectedAsASystemError(t *testing.T) {
	planner := &llmclient.FakePlanner{}
	exec := &executor.FakeExecutor{}
	f, _ := newFacade(t, planner, exec)
	ctx := context.Background()

	_, err := f.Initialize(ctx)
	require.NoError(t, err)

	_, err = f.HandleIntent(ctx, state.Intent{Type: state.IntentCreateProject, ProjectID: "p1", Goal: "Build a tool"})
	require.NoError(t, err)

	res, err := f.HandleIntent(ctx, state.Intent{Type: state.IntentApprovePlan, ApprovalID: "does-not-exist", PlanID: "none"})
	require.NoError(t, err)
	require.Equal(t, state.PhaseError, res.State.Phase)
}

func TestHandleIntentBeforeInitializeIsRejected(t *testing.T) {
	planner := &llmclient.FakePlanner{}
	exec := &executor.FakeExecutor{}
	f, _ := newFacade(t, planner, exec)
	ctx := context.Background()

	_, err := f.HandleIntent(ctx, state.Intent{Type: state.IntentAddFeature, Description: "x"})
	require.ErrorIs(t, err, state.ErrNotInitialized)
}

func TestDoubleCreateProjectIsRejected(t *testing.T) {
	planner := &llmclient.FakePlanner{}
	exec := &executor.FakeExecutor{}
	f, _ := newFacade(t, planner, exec)
	ctx := context.Background()

	_, err := f.Initialize(ctx)
	require.NoError(t, err)

	_, err = f.HandleIntent(ctx, state.Intent{Type: state.IntentCreateProject, ProjectID: "p1", Goal: "first"})
	require.NoError(t, err)

	_, err = f.HandleIntent(ctx, state.Intent{Type: state.IntentCreateProject, ProjectID: "p1", Goal: "second"})
	require.ErrorIs(t, err, state.ErrAlreadyInitialized)
}

func TestStatePersistsAcrossFacadeReload(t *testing.T) {
	planner := &llmclient.FakePlanner{}
	exec := &executor.FakeExecutor{}
	dir := t.TempDir()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { now = now.Add(time.Minute); return now }

	st, err := store.NewFileStore(filepath.Join(dir, "state.json"))
	require.NoError(t, err)
	f1 := New(st, &dispatch.Dispatcher{Planner: planner, Executor: exec, Now: clock}, nil, nil, clock)
	ctx := context.Background()
	_, err = f1.Initialize(ctx)
	require.NoError(t, err)
	_, err = f1.HandleIntent(ctx, state.Intent{Type: state.IntentCreateProject, ProjectID: "p1", Goal: "persisted goal"})
	require.NoError(t, err)

	st2, err := store.NewFileStore(filepath.Join(dir, "state.json"))
	require.NoError(t, err)
	f2 := New(st2, &dispatch.Dispatcher{Planner: planner, Executor: exec, Now: clock}, nil, nil, clock)
	loaded, err := f2.Initialize(ctx)
	require.NoError(t, err)
	require.Equal(t, "persisted goal", loaded.Goal)
}
