// Package planning turns raw planner output — a string that may be bare
// JSON, fenced, or wrapped in prose, or an already-decoded mapping —
// into a strictly validated PlanningOutput. It never touches the project
// aggregate; the state machine converts an accepted PlanningOutput into
// its own PlanSnapshot/ClarificationRecord shapes with a second, more
// tolerant normalization pass.
package planning

// PlanningOutput is exactly one of Questions (a single non-empty
// question) or Plan.
type PlanningOutput struct {
	Questions  []string
	Plan       *PlanDraft
	Discussion []DiscussionItem
}

// PlanDraft is the strictly validated shape of a planner's plan
// response: at least one milestone, one feature, one task, each with a
// non-empty title.
type PlanDraft struct {
	Roadmap   []MilestoneDraft
	Features  []FeatureDraft
	Tasks     []TaskDraft
	Rationale string
}

// MilestoneDraft is one roadmap entry.
type MilestoneDraft struct {
	ID          string
	Title       string
	Description string
	TargetDate  string
}

// FeatureDraft is one scoped capability.
type FeatureDraft struct {
	ID           string
	Title        string
	Description  string
	Dependencies []string
	Owners       []string
}

// TaskDraft is one unit of planned execution work. Role defaults to
// "execution" when the planner omits it — the schema tolerates any
// string here even though the prompt suggests a fixed list.
type TaskDraft struct {
	ID          string
	Title       string
	Description string
	Role        string
	DependsOn   []string
	Payload     map[string]any
}

// DiscussionItem is a free-form note the planner attached alongside its
// questions or plan; it is folded into ProjectState.discussion verbatim.
type DiscussionItem struct {
	Type      string
	Message   string
	Timestamp string
	Metadata  map[string]any
}
