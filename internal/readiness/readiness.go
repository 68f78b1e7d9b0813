// Package readiness decides whether enough is known about a project to
// hand the planner a final-planning prompt, or whether another round of
// clarification is still needed. It is a pure leaf: it never touches the
// project aggregate directly, so the state machine converts its own
// types into the small structs here at the call site.
package readiness

import "strings"

// Context mirrors the structured facts a planner needs. Any field left
// empty falls back to keyword detection over AnsweredClarification text.
type Context struct {
	ICP          string
	TechStack    []string
	Constraints  []string
	CoreFeatures []string
}

// AnsweredClarification is one resolved question/answer pair considered
// as a fallback source of coverage.
type AnsweredClarification struct {
	Question string
	Answer   string
}

// PromptContext is handed to the (external) prompt templater to render
// either the clarification or the final-planning prompt.
type PromptContext struct {
	Goal                   string
	Context                *Context
	AnsweredClarifications []AnsweredClarification
	Stage                  string
	Note                   string
}

// keywordSets maps each required field (other than goal, which has no
// fallback) to the case-insensitive keywords that count as coverage when
// found in an answered clarification's question or answer text.
var keywordSets = map[string][]string{
	"icp":          {"icp", "customer", "user", "audience", "target"},
	"techStack":    {"tech", "stack", "technology", "framework", "language"},
	"constraints":  {"constraint", "limit", "budget", "timeline", "deadline"},
	"coreFeatures": {"feature", "functionality", "requirement", "must-have", "core"},
}

// IsReady reports whether coverage for final planning is complete. stage
// "final" short-circuits to true regardless of coverage, per the
// finalize_scope escape hatch.
func IsReady(goal string, ctx *Context, answered []AnsweredClarification, stage string) bool {
	if stage == "final" {
		return true
	}
	if strings.TrimSpace(goal) == "" {
		return false
	}
	for _, field := range []string{"icp", "techStack", "constraints", "coreFeatures"} {
		if !covered(field, ctx, answered) {
			return false
		}
	}
	return true
}

func covered(field string, ctx *Context, answered []AnsweredClarification) bool {
	if ctx != nil && structuredNonEmpty(field, ctx) {
		return true
	}
	keywords := keywordSets[field]
	for _, a := range answered {
		haystack := strings.ToLower(a.Question + " " + a.Answer)
		if strings.TrimSpace(a.Answer) == "" {
			continue
		}
		for _, kw := range keywords {
			if strings.Contains(haystack, kw) {
				return true
			}
		}
	}
	return false
}

func structuredNonEmpty(field string, ctx *Context) bool {
	switch field {
	case "icp":
		return strings.TrimSpace(ctx.ICP) != ""
	case "techStack":
		return len(ctx.TechStack) > 0
	case "constraints":
		return len(ctx.Constraints) > 0
	case "coreFeatures":
		return len(ctx.CoreFeatures) > 0
	default:
		return false
	}
}

// BuildPromptContext assembles the struct handed to the prompt
// templater. note carries free-form caller context (e.g. a replan
// reason or a finalize_scope note); it is not itself part of the
// readiness calculation.
func BuildPromptContext(goal string, ctx *Context, answered []AnsweredClarification, stage string, note string) PromptContext {
	return PromptContext{
		Goal:                   goal,
		Context:                ctx,
		AnsweredClarifications: answered,
		Stage:                  stage,
		Note:                   note,
	}
}

// Stage picks "final" or "clarification" for a newly synthesized
// planning task, using IsReady unless forceFinal is set (finalize_scope
// always wants the final prompt regardless of coverage).
func Stage(goal string, ctx *Context, answered []AnsweredClarification, forceFinal bool) string {
	if forceFinal || IsReady(goal, ctx, answered, "") {
		return "final"
	}
	return "clarification"
}
