package state

import (
	"time"

	"github.com/andywolf/orcaspine/internal/planning"
)

func transitAgentResult(s *ProjectState, intent Intent, now time.Time) (*ProjectState, []Effect) {
	result := intent.Result
	if result == nil {
		appendSystemFailure(s, "agent_result: missing result payload", now)
		applyTransition(s, PhaseError, IntentAgentResult, now)
		return s, nil
	}

	idx := findTask(s, result.TaskID)
	if idx < 0 {
		appendSystemFailure(s, "agent_result: unknown task id "+result.TaskID, now)
		applyTransition(s, PhaseError, IntentAgentResult, now)
		return s, nil
	}

	task := s.PendingTasks[idx]
	if task.Status == TaskCompleted || task.Status == TaskFailed {
		// Idempotence: a terminal task re-reporting the same result is a
		// true no-op, not a second transition.
		return s, nil
	}

	if result.Status == ResultSuccess {
		s.PendingTasks[idx].Status = TaskCompleted
	} else {
		s.PendingTasks[idx].Status = TaskFailed
	}

	if task.Type == AgentTaskExecution {
		return transitExecutionResult(s, *result, now)
	}
	return transitPlanningResult(s, *result, now)
}

func transitExecutionResult(s *ProjectState, result AgentResult, now time.Time) (*ProjectState, []Effect) {
	if s.Execution == nil {
		s.Execution = &ExecutionState{Results: map[string]AgentResult{}}
	}
	s.Execution.Results[result.TaskID] = result
	recomputeExecution(s)

	phase := executionTerminalPhase(s, s.Phase)
	applyTransition(s, phase, IntentAgentResult, now)
	return s, nil
}

func transitPlanningResult(s *ProjectState, result AgentResult, now time.Time) (*ProjectState, []Effect) {
	if result.Status != ResultSuccess {
		appendSystemFailure(s, "planning task failed: "+result.Error, now)
		applyTransition(s, PhaseError, IntentAgentResult, now)
		return s, nil
	}

	output, ok := result.Output.(*planning.PlanningOutput)
	if !ok {
		appendDiscussion(s, DiscussionSystem, "planner output was neither questions nor a plan", now, nil)
		applyTransition(s, PhasePlanning, IntentAgentResult, now)
		return s, nil
	}

	foldDiscussion(s, output.Discussion, now)

	switch {
	case len(output.Questions) > 0:
		record := ClarificationRecord{
			ID:        clarificationID(output.Questions, now),
			Questions: output.Questions,
			Status:    ClarificationOpen,
			CreatedAt: now,
		}
		s.Clarifications = append(s.Clarifications, record)
		appendDiscussion(s, DiscussionClarification, output.Questions[0], now, map[string]any{"clarificationId": record.ID})
		applyTransition(s, PhaseAwaitingClarification, IntentAgentResult, now)
		return s, nil

	case output.Plan != nil:
		snapshot := normalizePlan(output.Plan, now)
		if _, exists := s.Plans[snapshot.ID]; !exists {
			s.Plans[snapshot.ID] = snapshot
		}
		s.CurrentPlanID = snapshot.ID
		approval := ApprovalRequest{
			ID:          approvalID(ApprovalPlan, snapshot.ID, nil, now),
			Type:        ApprovalPlan,
			RequestedAt: now,
			PlanID:      snapshot.ID,
		}
		s.Approvals = append(s.Approvals, approval)
		appendDiscussion(s, DiscussionPlan, "plan proposed: "+snapshot.ID, now, map[string]any{"planId": snapshot.ID})
		applyTransition(s, PhaseAwaitingApproval, IntentAgentResult, now)
		return s, []Effect{{Kind: EffectRequestApproval, Approval: &approval}}

	default:
		appendDiscussion(s, DiscussionSystem, "planner output contained neither questions nor a plan", now, nil)
		applyTransition(s, PhasePlanning, IntentAgentResult, now)
		return s, nil
	}
}

func foldDiscussion(s *ProjectState, items []planning.DiscussionItem, now time.Time) {
	for _, item := range items {
		appendDiscussion(s, toDiscussionType(item.Type), item.Message, now, item.Metadata)
	}
}

func toDiscussionType(raw string) DiscussionType {
	switch DiscussionType(raw) {
	case DiscussionClarification, DiscussionPlan, DiscussionExecution, DiscussionSystem:
		return DiscussionType(raw)
	default:
		return DiscussionSystem
	}
}
