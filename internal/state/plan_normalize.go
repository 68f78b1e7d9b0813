package state

import (
	"time"

	"github.com/andywolf/orcaspine/internal/planning"
	"github.com/google/uuid"
)

// normalizePlan converts an already-C2-validated PlanDraft into a
// PlanSnapshot. Unlike C2's validator this pass is tolerant: it never
// rejects, it fills gaps (a missing title becomes "Untitled ...", a
// missing id gets a fresh one) so that shape drift between what the
// planner promised and what actually arrived never corrupts state.
func normalizePlan(draft *planning.PlanDraft, now time.Time) PlanSnapshot {
	roadmap := make([]Milestone, 0, len(draft.Roadmap))
	for _, m := range draft.Roadmap {
		roadmap = append(roadmap, Milestone{
			ID:          orNewID(m.ID),
			Title:       orUntitled(m.Title, "Milestone"),
			Description: m.Description,
			TargetDate:  m.TargetDate,
		})
	}

	features := make([]Feature, 0, len(draft.Features))
	for _, f := range draft.Features {
		features = append(features, Feature{
			ID:           orNewID(f.ID),
			Title:        orUntitled(f.Title, "Feature"),
			Description:  f.Description,
			Dependencies: f.Dependencies,
			Owners:       f.Owners,
		})
	}

	tasks := make([]ExecutionTaskDef, 0, len(draft.Tasks))
	for _, t := range draft.Tasks {
		role := t.Role
		if role == "" {
			role = "execution"
		}
		tasks = append(tasks, ExecutionTaskDef{
			ID:          orNewID(t.ID),
			Title:       orUntitled(t.Title, "Task"),
			Description: t.Description,
			Role:        role,
			DependsOn:   t.DependsOn,
			Payload:     t.Payload,
		})
	}

	return PlanSnapshot{
		ID:        planID(roadmap, features, tasks, draft.Rationale),
		CreatedAt: now,
		Roadmap:   roadmap,
		Features:  features,
		Tasks:     tasks,
		Rationale: draft.Rationale,
	}
}

func orNewID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

func orUntitled(title, kind string) string {
	if title != "" {
		return title
	}
	return "Untitled " + kind
}
