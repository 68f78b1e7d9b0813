package state

import (
	"time"

	"github.com/google/uuid"
)

// Bootstrap is the only transition valid when no ProjectState is loaded.
// The façade calls this instead of Transit when create_project arrives
// with a nil current state.
func Bootstrap(intent Intent, now time.Time) (*ProjectState, []Effect) {
	s := &ProjectState{
		ProjectID: intent.ProjectID,
		Phase:     PhaseIdle,
		UpdatedAt: now,
		Goal:      intent.Goal,
		Context:   intent.Context,
		Plans:     map[string]PlanSnapshot{},
		Settings:  mergeSettings(DefaultSettings(), intent.Settings),
	}
	task, effect := synthesizePlanningTask(s, now, false, "")
	_ = task
	applyTransition(s, PhasePlanning, IntentCreateProject, now)
	return s, []Effect{effect}
}

// Transit is the pure transition function for every intent except the
// bootstrap create_project. current is never mutated; every branch
// starts from a clone.
func Transit(current *ProjectState, intent Intent, now time.Time) (*ProjectState, []Effect) {
	s := current.Clone()

	switch intent.Type {
	case IntentAddFeature:
		return transitAddFeature(s, intent, now)
	case IntentRequestClarifications:
		return transitRequestClarifications(s, intent, now)
	case IntentAnswerClarifications:
		return transitAnswerClarifications(s, intent, now)
	case IntentFinalizeScope:
		return transitFinalizeScope(s, intent, now)
	case IntentApprovePlan:
		return transitApprovePlan(s, intent, now)
	case IntentApproveExecution:
		return transitApproveExecution(s, intent, now)
	case IntentReplan:
		return transitReplan(s, intent, now)
	case IntentRunTasks:
		return transitRunTasks(s, intent, now)
	case IntentRetryTasks:
		return transitRetryTasks(current, intent, now)
	case IntentPauseExecution:
		return transitPauseExecution(s, intent, now)
	case IntentAgentResult:
		return transitAgentResult(s, intent, now)
	default:
		// Unknown intent: no-op that still bumps version/history, per
		// the global invariant that every accepted intent is observable
		// in the log even when it changes nothing else.
		applyTransition(s, s.Phase, intent.Type, now)
		appendDiscussion(s, DiscussionSystem, "intent type not recognized, no-op applied", now, map[string]any{"intentType": string(intent.Type)})
		return s, nil
	}
}

func transitAddFeature(s *ProjectState, intent Intent, now time.Time) (*ProjectState, []Effect) {
	_, effect := synthesizePlanningTask(s, now, false, intent.Description)
	applyTransition(s, PhasePlanning, IntentAddFeature, now)
	return s, []Effect{effect}
}

func transitRequestClarifications(s *ProjectState, intent Intent, now time.Time) (*ProjectState, []Effect) {
	record := ClarificationRecord{
		ID:        clarificationID(intent.Questions, now),
		Questions: intent.Questions,
		Status:    ClarificationOpen,
		CreatedAt: now,
	}
	s.Clarifications = append(s.Clarifications, record)
	if intent.Discussion != "" {
		appendDiscussion(s, DiscussionClarification, intent.Discussion, now, nil)
	}
	applyTransition(s, PhaseAwaitingClarification, IntentRequestClarifications, now)
	return s, nil
}

func transitAnswerClarifications(s *ProjectState, intent Intent, now time.Time) (*ProjectState, []Effect) {
	idx := findClarification(s, intent.ClarificationID)
	if idx < 0 {
		appendSystemFailure(s, "answer_clarifications: unknown clarification id "+intent.ClarificationID, now)
		applyTransition(s, PhaseError, IntentAnswerClarifications, now)
		return s, nil
	}

	s.Clarifications[idx].Status = ClarificationAnswered
	s.Clarifications[idx].Answers = intent.Answers
	resolvedAt := now
	s.Clarifications[idx].ResolvedAt = &resolvedAt

	_, effect := synthesizePlanningTask(s, now, false, "")
	applyTransition(s, PhasePlanning, IntentAnswerClarifications, now)
	return s, []Effect{effect}
}

func transitFinalizeScope(s *ProjectState, intent Intent, now time.Time) (*ProjectState, []Effect) {
	for i := range s.Clarifications {
		if s.Clarifications[i].Status != ClarificationResolved {
			s.Clarifications[i].Status = ClarificationResolved
			resolvedAt := now
			s.Clarifications[i].ResolvedAt = &resolvedAt
		}
	}
	_, effect := synthesizePlanningTask(s, now, true, intent.Note)
	applyTransition(s, PhasePlanning, IntentFinalizeScope, now)
	return s, []Effect{effect}
}

func transitReplan(s *ProjectState, intent Intent, now time.Time) (*ProjectState, []Effect) {
	reason := intent.Reason
	if reason == "" {
		reason = "replan"
	}
	_, effect := synthesizePlanningTask(s, now, false, reason)
	applyTransition(s, PhasePlanning, IntentReplan, now)
	return s, []Effect{effect}
}

func transitPauseExecution(s *ProjectState, intent Intent, now time.Time) (*ProjectState, []Effect) {
	appendDiscussion(s, DiscussionSystem, "execution paused: "+intent.Reason, now, nil)
	applyTransition(s, PhasePaused, IntentPauseExecution, now)
	return s, nil
}

func newExecutionTask(def ExecutionTaskDef, planID string, now time.Time) AgentTask {
	return AgentTask{
		ID:           uuid.NewString(),
		Type:         AgentTaskExecution,
		Status:       TaskPending,
		Input:        map[string]any{"title": def.Title, "role": def.Role, "payload": def.Payload},
		CreatedAt:    now,
		PlanID:       planID,
		DefinitionID: def.ID,
	}
}
