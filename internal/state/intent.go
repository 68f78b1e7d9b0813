package state

// IntentType names one of the mutations the machine accepts.
type IntentType string

const (
	IntentCreateProject         IntentType = "create_project"
	IntentAddFeature            IntentType = "add_feature"
	IntentRequestClarifications IntentType = "request_clarifications"
	IntentAnswerClarifications  IntentType = "answer_clarifications"
	IntentFinalizeScope         IntentType = "finalize_scope"
	IntentApprovePlan           IntentType = "approve_plan"
	IntentApproveExecution      IntentType = "approve_execution"
	IntentReplan                IntentType = "replan"
	IntentRunTasks              IntentType = "run_tasks"
	IntentRetryTasks            IntentType = "retry_tasks"
	IntentPauseExecution        IntentType = "pause_execution"
	IntentAgentResult           IntentType = "agent_result"
)

// Intent is the tagged union the façade feeds to transit. Exactly the
// fields relevant to Type are expected to be populated; the machine
// ignores the rest.
type Intent struct {
	Type IntentType `json:"type"`

	// create_project
	ProjectID string            `json:"projectId,omitempty"`
	Goal      string            `json:"goal,omitempty"`
	Context   *ProjectContext   `json:"context,omitempty"`
	Settings  *SettingsOverride `json:"settings,omitempty"`

	// add_feature
	Description string `json:"description,omitempty"`

	// request_clarifications
	Questions  []string `json:"questions,omitempty"`
	Discussion string   `json:"discussion,omitempty"`

	// answer_clarifications
	ClarificationID string   `json:"clarificationId,omitempty"`
	Answers         []string `json:"answers,omitempty"`

	// finalize_scope / replan
	Note   string `json:"note,omitempty"`
	Reason string `json:"reason,omitempty"`

	// approve_plan / approve_execution
	ApprovalID string `json:"approvalId,omitempty"`
	PlanID     string `json:"planId,omitempty"`

	// run_tasks / retry_tasks
	TaskIDs []string `json:"taskIds,omitempty"`

	// agent_result
	Result *AgentResult `json:"result,omitempty"`
}

// EffectKind names the two side effects the machine can request.
type EffectKind string

const (
	EffectDispatchAgentTask EffectKind = "dispatch_agent_task"
	EffectRequestApproval   EffectKind = "request_approval"
)

// Effect is an instruction for the dispatcher (C4); the machine never
// executes these itself.
type Effect struct {
	Kind  EffectKind       `json:"kind"`
	Task  *AgentTask       `json:"task,omitempty"`
	Approval *ApprovalRequest `json:"approval,omitempty"`
}
