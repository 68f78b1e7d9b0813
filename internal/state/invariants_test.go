package state

import (
	"testing"
	"time"

	"github.com/andywolf/orcaspine/internal/planning"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genIntentStep picks one of the non-bootstrap intent types and fills
// in just enough of its fields, pulled from whatever ids the sequence
// so far has actually produced, to exercise both the accepted and the
// rejected branch of each transit* function roughly evenly.
type intentStep struct {
	kind    IntentType
	useReal bool // reference a real pending id rather than a garbage one
	success bool // for agent_result, whether the reported status is success
}

func genIntentStep() gopter.Gen {
	return gopter.CombineGens(
		gen.OneConstOf(
			IntentAddFeature,
			IntentRequestClarifications,
			IntentAnswerClarifications,
			IntentFinalizeScope,
			IntentApprovePlan,
			IntentApproveExecution,
			IntentReplan,
			IntentRunTasks,
			IntentRetryTasks,
			IntentPauseExecution,
			IntentAgentResult,
		),
		gen.Bool(),
		gen.Bool(),
	).Map(func(vals []any) intentStep {
		return intentStep{
			kind:    vals[0].(IntentType),
			useReal: vals[1].(bool),
			success: vals[2].(bool),
		}
	})
}

// buildIntent turns a step into a concrete Intent, resolving "real" ids
// against whatever the aggregate currently holds so accepted-branch
// coverage isn't left entirely to chance.
func buildIntent(s *ProjectState, step intentStep) Intent {
	switch step.kind {
	case IntentAddFeature:
		return Intent{Type: IntentAddFeature, Description: "more scope"}
	case IntentRequestClarifications:
		return Intent{Type: IntentRequestClarifications, Questions: []string{"who is this for?"}}
	case IntentAnswerClarifications:
		id := "missing"
		if step.useReal {
			if idx := firstOpenClarification(s); idx >= 0 {
				id = s.Clarifications[idx].ID
			}
		}
		return Intent{Type: IntentAnswerClarifications, ClarificationID: id, Answers: []string{"ops teams"}}
	case IntentFinalizeScope:
		return Intent{Type: IntentFinalizeScope, Note: "lock it in"}
	case IntentApprovePlan:
		approvalID, planID := "missing", "missing"
		if step.useReal {
			if idx := firstApprovalOfType(s, ApprovalPlan); idx >= 0 {
				approvalID = s.Approvals[idx].ID
				planID = s.Approvals[idx].PlanID
			}
		}
		return Intent{Type: IntentApprovePlan, ApprovalID: approvalID, PlanID: planID}
	case IntentApproveExecution:
		approvalID := "missing"
		if step.useReal {
			if idx := firstApprovalOfType(s, ApprovalExecutionStart); idx >= 0 {
				approvalID = s.Approvals[idx].ID
			} else if idx := firstApprovalOfType(s, ApprovalExecutionRetry); idx >= 0 {
				approvalID = s.Approvals[idx].ID
			}
		}
		return Intent{Type: IntentApproveExecution, ApprovalID: approvalID}
	case IntentReplan:
		return Intent{Type: IntentReplan, Reason: "priorities changed"}
	case IntentRunTasks:
		return Intent{Type: IntentRunTasks}
	case IntentRetryTasks:
		return Intent{Type: IntentRetryTasks}
	case IntentPauseExecution:
		return Intent{Type: IntentPauseExecution, Reason: "operator paused"}
	case IntentAgentResult:
		taskID := "missing"
		if step.useReal {
			if idx := firstInProgressTask(s); idx >= 0 {
				taskID = s.PendingTasks[idx].ID
			}
		}
		status := ResultFailure
		var output any
		if step.success {
			status = ResultSuccess
			output = examplePlanningOutput()
		}
		return Intent{Type: IntentAgentResult, Result: &AgentResult{TaskID: taskID, Status: status, Error: "boom", Output: output}}
	default:
		return Intent{Type: step.kind}
	}
}

func firstOpenClarification(s *ProjectState) int {
	for i, c := range s.Clarifications {
		if c.Status == ClarificationOpen {
			return i
		}
	}
	return -1
}

func firstApprovalOfType(s *ProjectState, t ApprovalType) int {
	for i, a := range s.Approvals {
		if a.Type == t {
			return i
		}
	}
	return -1
}

func firstInProgressTask(s *ProjectState) int {
	for i, t := range s.PendingTasks {
		if t.Status == TaskInProgress {
			return i
		}
	}
	return -1
}

// TestInvariantsHoldAcrossRandomIntentSequences generates random
// sequences of intents against a freshly bootstrapped project and
// checks invariants 1-6 from the testable-properties list after every
// accepted transition.
func TestInvariantsHoldAcrossRandomIntentSequences(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("version/history/phase/reference invariants hold after every step", prop.ForAll(
		func(steps []intentStep, requireEA bool, requireRA bool) bool {
			now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
			tick := func() time.Time { now = now.Add(time.Minute); return now }

			s, _ := Bootstrap(Intent{
				Type:      IntentCreateProject,
				ProjectID: "p1",
				Goal:      "build something",
				Settings: &SettingsOverride{
					RequireExecutionApproval: &requireEA,
					RequireRetryApproval:     &requireRA,
				},
			}, tick())
			if !checkInvariants(s) {
				return false
			}

			for _, step := range steps {
				prev := s
				intent := buildIntent(prev, step)
				next, _ := Transit(prev, intent, tick())
				if next == nil {
					return false
				}
				// Every call either leaves version untouched (a rejected
				// intent or an idempotent no-op) or bumps it by exactly
				// one - transit never applies more than one transition
				// per call.
				if next.Version != prev.Version && next.Version != prev.Version+1 {
					return false
				}
				if !checkInvariants(next) {
					return false
				}
				s = next
			}
			return true
		},
		gen.SliceOfN(12, genIntentStep()),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

// checkInvariants asserts invariants 1 through 6 from the testable
// properties list against a single snapshot.
func checkInvariants(s *ProjectState) bool {
	// 1. version == len(history)
	if s.Version != len(s.History) {
		return false
	}
	// 2. phase is one of the enumerated values
	switch s.Phase {
	case PhaseIdle, PhasePlanning, PhaseAwaitingClarification, PhaseAwaitingApproval,
		PhaseAwaitingExecutionApproval, PhaseExecuting, PhasePaused, PhaseCompleted, PhaseError:
	default:
		return false
	}
	// 3. every approval's planId, when set, refers to a plan present in plans
	for _, a := range s.Approvals {
		if a.PlanID != "" {
			if _, ok := s.Plans[a.PlanID]; !ok {
				return false
			}
		}
	}
	// 4. currentPlanId, when set, refers to a plan present in plans
	if s.CurrentPlanID != "" {
		if _, ok := s.Plans[s.CurrentPlanID]; !ok {
			return false
		}
	}
	// 5. every completed/failed execution task has a matching result
	if s.Execution != nil {
		for _, task := range s.PendingTasks {
			if task.Type != AgentTaskExecution {
				continue
			}
			if task.Status != TaskCompleted && task.Status != TaskFailed {
				continue
			}
			result, ok := s.Execution.Results[task.ID]
			if !ok {
				return false
			}
			wantStatus := ResultSuccess
			if task.Status == TaskFailed {
				wantStatus = ResultFailure
			}
			if result.Status != wantStatus {
				return false
			}
		}
	}
	// 6. summary.total equals the number of execution entries in
	// pendingTasks; completed+failed+inProgress <= total
	execCount := 0
	for _, task := range s.PendingTasks {
		if task.Type == AgentTaskExecution {
			execCount++
		}
	}
	if s.Execution != nil {
		sum := s.Execution.Summary
		if sum.Total != execCount {
			return false
		}
		if sum.Completed+sum.Failed+sum.InProgress > sum.Total {
			return false
		}
	}
	return true
}

func examplePlanningOutput() *planning.PlanningOutput {
	return &planning.PlanningOutput{
		Plan: &planning.PlanDraft{
			Roadmap:  []planning.MilestoneDraft{{Title: "M1"}},
			Features: []planning.FeatureDraft{{Title: "F1"}},
			Tasks:    []planning.TaskDraft{{Title: "T1", Role: "backend"}},
		},
	}
}

// TestDeterministicIDStability covers invariant 7: normalizing the same
// plan content twice, or deriving a clarification id from the same
// questions and timestamp twice, must yield the same id.
func TestDeterministicIDStability(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	id1 := planID(
		[]Milestone{{Title: "M1", Description: "d"}},
		[]Feature{{Title: "F1", Owners: []string{"a", "b"}}},
		[]ExecutionTaskDef{{Title: "T1", Role: "backend"}},
		"because reasons",
	)
	id2 := planID(
		[]Milestone{{Title: "M1", Description: "d"}},
		[]Feature{{Title: "F1", Owners: []string{"a", "b"}}},
		[]ExecutionTaskDef{{Title: "T1", Role: "backend"}},
		"because reasons",
	)
	if id1 != id2 {
		t.Fatalf("planID not stable: %q != %q", id1, id2)
	}

	questions := []string{"who is this for?", "what's the budget?"}
	cid1 := clarificationID(questions, now)
	cid2 := clarificationID(questions, now)
	if cid1 != cid2 {
		t.Fatalf("clarificationID not stable: %q != %q", cid1, cid2)
	}
}

// TestAgentResultIsIdempotent covers invariant 8: feeding the same
// agent_result twice leaves state unchanged after the first
// application, because the task is already terminal.
func TestAgentResultIsIdempotent(t *testing.T) {
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	s, _ := Bootstrap(Intent{Type: IntentCreateProject, ProjectID: "p1", Goal: "g"}, now)

	planningTaskID := s.PendingTasks[0].ID
	result := &AgentResult{TaskID: planningTaskID, Status: ResultSuccess, Output: examplePlanningOutput()}

	once, _ := Transit(s, Intent{Type: IntentAgentResult, Result: result}, now.Add(time.Minute))
	twice, _ := Transit(once, Intent{Type: IntentAgentResult, Result: result}, now.Add(2*time.Minute))

	if once.Version != twice.Version {
		t.Fatalf("idempotent agent_result bumped version: %d -> %d", once.Version, twice.Version)
	}
	if once.Phase != twice.Phase {
		t.Fatalf("idempotent agent_result changed phase: %s -> %s", once.Phase, twice.Phase)
	}
	if len(once.Approvals) != len(twice.Approvals) {
		t.Fatalf("idempotent agent_result changed approval count: %d -> %d", len(once.Approvals), len(twice.Approvals))
	}
}

// TestRetryTasksWithNothingToRetryIsANoOp covers the boundary behavior
// in §8: retry_tasks with no failed tasks does not even bump version.
func TestRetryTasksWithNothingToRetryIsANoOp(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	s, _ := Bootstrap(Intent{Type: IntentCreateProject, ProjectID: "p1", Goal: "g"}, now)

	next, effects := Transit(s, Intent{Type: IntentRetryTasks}, now.Add(time.Minute))
	if next != s {
		t.Fatalf("retry_tasks with nothing to retry should return the identical pointer")
	}
	if effects != nil {
		t.Fatalf("retry_tasks with nothing to retry should produce no effects")
	}
}
