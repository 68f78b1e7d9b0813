package state

import (
	"time"

	"github.com/andywolf/orcaspine/internal/readiness"
	"github.com/andywolf/orcaspine/internal/security"
	"github.com/google/uuid"
)

func applyTransition(s *ProjectState, to Phase, intentType IntentType, now time.Time) {
	from := s.Phase
	s.Phase = to
	s.Version++
	s.UpdatedAt = now
	s.History = append(s.History, TransitionRecord{
		Timestamp:  now,
		IntentType: string(intentType),
		From:       from,
		To:         to,
	})
}

// appendDiscussion records one timeline entry. Discussion messages
// carry planner and executor free text, so they are scrubbed before the
// deterministic id is computed — the redacted form is the canonical
// content.
func appendDiscussion(s *ProjectState, entryType DiscussionType, message string, now time.Time, metadata map[string]any) {
	message = security.Scrub(message)
	s.Discussion = append(s.Discussion, DiscussionEntry{
		ID:        discussionID(entryType, message, now, metadata),
		Type:      entryType,
		Message:   message,
		Timestamp: now,
		Metadata:  metadata,
	})
}

func appendSystemFailure(s *ProjectState, message string, now time.Time) {
	s.Phase = PhaseError
	appendDiscussion(s, DiscussionSystem, message, now, nil)
}

// readinessContext converts the aggregate's own context and answered
// clarifications into the leaf readiness package's input shape.
func readinessContext(s *ProjectState) *readiness.Context {
	if s.Context == nil {
		return nil
	}
	return &readiness.Context{
		ICP:          s.Context.ICP,
		TechStack:    s.Context.TechStack,
		Constraints:  s.Context.Constraints,
		CoreFeatures: s.Context.CoreFeatures,
	}
}

func answeredClarifications(s *ProjectState) []readiness.AnsweredClarification {
	var out []readiness.AnsweredClarification
	for _, c := range s.Clarifications {
		if c.Status != ClarificationAnswered && c.Status != ClarificationResolved {
			continue
		}
		for i, q := range c.Questions {
			answer := ""
			if i < len(c.Answers) {
				answer = c.Answers[i]
			}
			out = append(out, readiness.AnsweredClarification{Question: q, Answer: answer})
		}
	}
	return out
}

// synthesizePlanningTask appends a new planning AgentTask, dispatched
// immediately, and returns the matching effect. stage is decided by
// readiness.Stage unless forceFinal pins it to "final" (finalize_scope).
func synthesizePlanningTask(s *ProjectState, now time.Time, forceFinal bool, note string) (AgentTask, Effect) {
	ctx := readinessContext(s)
	answered := answeredClarifications(s)
	stage := readiness.Stage(s.Goal, ctx, answered, forceFinal)

	answeredInput := make([]map[string]any, 0, len(answered))
	for _, a := range answered {
		answeredInput = append(answeredInput, map[string]any{"question": a.Question, "answer": a.Answer})
	}

	input := map[string]any{
		"stage":                  stage,
		"goal":                   s.Goal,
		"note":                   note,
		"answeredClarifications": answeredInput,
	}
	if ctx != nil {
		input["icp"] = ctx.ICP
		input["techStack"] = ctx.TechStack
		input["constraints"] = ctx.Constraints
		input["coreFeatures"] = ctx.CoreFeatures
	}

	dispatchedAt := now
	task := AgentTask{
		ID:           uuid.NewString(),
		Type:         AgentTaskPlanning,
		Status:       TaskInProgress,
		Input:        input,
		CreatedAt:    now,
		DispatchedAt: &dispatchedAt,
	}
	s.PendingTasks = append(s.PendingTasks, task)
	return task, Effect{Kind: EffectDispatchAgentTask, Task: &task}
}

func findClarification(s *ProjectState, id string) int {
	for i := range s.Clarifications {
		if s.Clarifications[i].ID == id {
			return i
		}
	}
	return -1
}

func findApproval(s *ProjectState, id string) int {
	for i := range s.Approvals {
		if s.Approvals[i].ID == id {
			return i
		}
	}
	return -1
}

func findTask(s *ProjectState, id string) int {
	for i := range s.PendingTasks {
		if s.PendingTasks[i].ID == id {
			return i
		}
	}
	return -1
}

func removeApproval(s *ProjectState, index int) {
	s.Approvals = append(s.Approvals[:index], s.Approvals[index+1:]...)
}

func mergeSettings(base Settings, override *SettingsOverride) Settings {
	if override == nil {
		return base
	}
	if override.RequireExecutionApproval != nil {
		base.RequireExecutionApproval = *override.RequireExecutionApproval
	}
	if override.RequireRetryApproval != nil {
		base.RequireRetryApproval = *override.RequireRetryApproval
	}
	return base
}
