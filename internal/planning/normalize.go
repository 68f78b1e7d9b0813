package planning

import "strings"

const defaultTaskRole = "execution"

// Normalize is C2's single entry point. raw is either a string (parsed
// via extractJSON) or an already-decoded map[string]any. It returns a
// strictly validated PlanningOutput or a descriptive error; callers
// (the dispatcher) are responsible for the one-retry policy around a
// failure here.
func Normalize(raw any) (*PlanningOutput, error) {
	obj, err := toObject(raw)
	if err != nil {
		return nil, err
	}
	return validate(obj)
}

func toObject(raw any) (map[string]any, error) {
	switch v := raw.(type) {
	case string:
		return extractJSON(v)
	case map[string]any:
		return v, nil
	default:
		return nil, invalid("unsupported planner output type")
	}
}

func validate(obj map[string]any) (*PlanningOutput, error) {
	questionsRaw, hasQuestions := obj["questions"]
	planRaw, hasPlan := obj["plan"]

	if hasQuestions == hasPlan {
		// Both present, or neither: exactly one is required.
		if hasQuestions && hasPlan {
			return nil, invalid("response contains both questions and plan")
		}
		return nil, invalid("response contains neither questions nor plan")
	}

	out := &PlanningOutput{Discussion: parseDiscussion(obj["discussion"])}

	if hasQuestions {
		questions, err := validateQuestions(questionsRaw)
		if err != nil {
			return nil, err
		}
		out.Questions = questions
		return out, nil
	}

	draft, err := validatePlan(planRaw)
	if err != nil {
		return nil, err
	}
	out.Plan = draft
	return out, nil
}

func validateQuestions(raw any) ([]string, error) {
	arr, ok := raw.([]any)
	if !ok {
		return nil, invalid("questions must be an array")
	}
	if len(arr) != 1 {
		return nil, invalid("questions must contain exactly one question per turn")
	}
	q, ok := arr[0].(string)
	if !ok || strings.TrimSpace(q) == "" {
		return nil, invalid("question must be a non-empty string")
	}
	return []string{q}, nil
}

func validatePlan(raw any) (*PlanDraft, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, invalid("plan must be an object")
	}

	milestones, err := validateMilestones(obj["roadmap"])
	if err != nil {
		return nil, err
	}
	features, err := validateFeatures(obj["features"])
	if err != nil {
		return nil, err
	}
	tasks, err := validateTasks(obj["tasks"])
	if err != nil {
		return nil, err
	}

	return &PlanDraft{
		Roadmap:   milestones,
		Features:  features,
		Tasks:     tasks,
		Rationale: asString(obj["rationale"]),
	}, nil
}

func validateMilestones(raw any) ([]MilestoneDraft, error) {
	arr, ok := raw.([]any)
	if !ok || len(arr) == 0 {
		return nil, invalid("plan must contain at least one milestone")
	}
	out := make([]MilestoneDraft, 0, len(arr))
	for _, item := range arr {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, invalid("milestone must be an object")
		}
		title := asString(obj["title"])
		if strings.TrimSpace(title) == "" {
			return nil, invalid("milestone title must be non-empty")
		}
		out = append(out, MilestoneDraft{
			ID:          asString(obj["id"]),
			Title:       title,
			Description: asString(obj["description"]),
			TargetDate:  asString(obj["targetDate"]),
		})
	}
	return out, nil
}

func validateFeatures(raw any) ([]FeatureDraft, error) {
	arr, ok := raw.([]any)
	if !ok || len(arr) == 0 {
		return nil, invalid("plan must contain at least one feature")
	}
	out := make([]FeatureDraft, 0, len(arr))
	for _, item := range arr {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, invalid("feature must be an object")
		}
		title := asString(obj["title"])
		if strings.TrimSpace(title) == "" {
			return nil, invalid("feature title must be non-empty")
		}
		out = append(out, FeatureDraft{
			ID:           asString(obj["id"]),
			Title:        title,
			Description:  asString(obj["description"]),
			Dependencies: asStringSlice(obj["dependencies"]),
			Owners:       asStringSlice(obj["owners"]),
		})
	}
	return out, nil
}

func validateTasks(raw any) ([]TaskDraft, error) {
	arr, ok := raw.([]any)
	if !ok || len(arr) == 0 {
		return nil, invalid("plan must contain at least one task")
	}
	out := make([]TaskDraft, 0, len(arr))
	for _, item := range arr {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, invalid("task must be an object")
		}
		title := asString(obj["title"])
		if strings.TrimSpace(title) == "" {
			return nil, invalid("task title must be non-empty")
		}
		role := asString(obj["role"])
		if strings.TrimSpace(role) == "" {
			role = defaultTaskRole
		}
		var payload map[string]any
		if p, ok := obj["payload"].(map[string]any); ok {
			payload = p
		}
		out = append(out, TaskDraft{
			ID:          asString(obj["id"]),
			Title:       title,
			Description: asString(obj["description"]),
			Role:        role,
			DependsOn:   asStringSlice(obj["dependsOn"]),
			Payload:     payload,
		})
	}
	return out, nil
}

func parseDiscussion(raw any) []DiscussionItem {
	arr, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]DiscussionItem, 0, len(arr))
	for _, item := range arr {
		switch v := item.(type) {
		case string:
			out = append(out, DiscussionItem{Type: "system", Message: v})
		case map[string]any:
			out = append(out, DiscussionItem{
				Type:      asString(v["type"]),
				Message:   asString(v["message"]),
				Timestamp: asString(v["timestamp"]),
				Metadata:  asMap(v["metadata"]),
			})
		}
	}
	return out
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asStringSlice(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
