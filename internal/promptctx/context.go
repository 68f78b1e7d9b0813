package promptctx

import (
	"fmt"
	"strings"
)

// BuildVariables flattens an AgentTask.Input mapping (as populated by
// the state machine when it synthesizes a planning task) into the
// string variables RenderPrompt substitutes. Input is treated as
// opaque and tolerant of missing keys: a field absent from Input simply
// renders as an empty string.
func BuildVariables(input map[string]any) map[string]string {
	vars := map[string]string{
		"goal":         asStr(input["goal"]),
		"note":         asStr(input["note"]),
		"stage":        asStr(input["stage"]),
		"icp":          asStr(input["icp"]),
		"techStack":    joinAny(input["techStack"]),
		"constraints":  joinAny(input["constraints"]),
		"coreFeatures": joinAny(input["coreFeatures"]),
	}
	vars["answeredClarifications"] = formatAnswered(input["answeredClarifications"])
	return vars
}

// PromptFor renders the clarification or final-planning template
// depending on Input["stage"].
func PromptFor(input map[string]any) string {
	vars := BuildVariables(input)
	if vars["stage"] == "final" {
		return RenderPrompt(FinalPlanningTemplate, vars)
	}
	return RenderPrompt(ClarificationTemplate, vars)
}

func asStr(v any) string {
	s, _ := v.(string)
	return s
}

func joinAny(v any) string {
	switch items := v.(type) {
	case []string:
		return strings.Join(items, ", ")
	case []any:
		parts := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

func formatAnswered(v any) string {
	items, ok := v.([]map[string]any)
	if !ok {
		return ""
	}
	var lines []string
	for _, item := range items {
		q := asStr(item["question"])
		a := asStr(item["answer"])
		if q == "" && a == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("Q: %s\nA: %s", q, a))
	}
	return strings.Join(lines, "\n\n")
}
