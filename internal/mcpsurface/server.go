// Package mcpsurface exposes the orchestrator façade as a set of Model
// Context Protocol tools, so an AI assistant driving orcaspine over
// stdio sees the same intents a human operator would issue through
// internal/cli - one tool per intent, each a thin translation from a
// typed argument struct to a state.Intent and back to a typed result.
package mcpsurface

import (
	"context"
	"fmt"

	"github.com/andywolf/orcaspine/internal/orchestrator"
	"github.com/andywolf/orcaspine/internal/state"
	"github.com/andywolf/orcaspine/internal/version"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server backed by facade, with one tool
// registered per SPEC_FULL.md intent plus a read-only status tool.
func NewServer(facade *orchestrator.Facade) *mcp.Server {
	impl := &mcp.Implementation{Name: "orcaspine", Version: version.Short()}
	server := mcp.NewServer(impl, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "project-status",
		Description: "Get the current project's phase, pending approvals, open clarifications, and execution summary.",
	}, statusHandler(facade))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create-project",
		Description: "Start a new project from a one-line goal, with optional structured context.",
	}, intentHandler(facade, func(args CreateProjectArgs) state.Intent {
		intent := state.Intent{Type: state.IntentCreateProject, ProjectID: args.ProjectID, Goal: args.Goal}
		if args.ICP != "" || len(args.TechStack) > 0 || len(args.Constraints) > 0 || len(args.CoreFeatures) > 0 {
			intent.Context = &state.ProjectContext{
				ICP: args.ICP, TechStack: args.TechStack,
				Constraints: args.Constraints, CoreFeatures: args.CoreFeatures,
			}
		}
		return intent
	}))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add-feature",
		Description: "Add a feature description to the project's scope.",
	}, intentHandler(facade, func(args AddFeatureArgs) state.Intent {
		return state.Intent{Type: state.IntentAddFeature, Description: args.Description}
	}))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "answer-clarifications",
		Description: "Answer an open clarification by id.",
	}, intentHandler(facade, func(args AnswerArgs) state.Intent {
		return state.Intent{Type: state.IntentAnswerClarifications, ClarificationID: args.ClarificationID, Answers: args.Answers}
	}))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "approve-plan",
		Description: "Approve a plan awaiting_approval, seeding execution tasks from it.",
	}, intentHandler(facade, func(args ApprovePlanArgs) state.Intent {
		return state.Intent{Type: state.IntentApprovePlan, ApprovalID: args.ApprovalID, PlanID: args.PlanID}
	}))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "approve-execution",
		Description: "Resolve an execution_start or execution_retry approval.",
	}, intentHandler(facade, func(args ApproveExecutionArgs) state.Intent {
		return state.Intent{Type: state.IntentApproveExecution, ApprovalID: args.ApprovalID}
	}))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "finalize-scope",
		Description: "Force the next planning dispatch to produce a final plan, skipping further clarification.",
	}, intentHandler(facade, func(args FinalizeScopeArgs) state.Intent {
		return state.Intent{Type: state.IntentFinalizeScope, Note: args.Note}
	}))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "replan",
		Description: "Discard the current plan and dispatch a fresh planning task.",
	}, intentHandler(facade, func(args ReplanArgs) state.Intent {
		return state.Intent{Type: state.IntentReplan, Reason: args.Reason}
	}))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "run-tasks",
		Description: "Dispatch pending execution tasks, or a specific subset by id. Rejected while an execution_start approval is pending.",
	}, intentHandler(facade, func(args RunTasksArgs) state.Intent {
		return state.Intent{Type: state.IntentRunTasks, TaskIDs: args.TaskIDs}
	}))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "retry-tasks",
		Description: "Retry failed execution tasks, or a specific subset by id. A no-op when nothing is failed.",
	}, intentHandler(facade, func(args RetryTasksArgs) state.Intent {
		return state.Intent{Type: state.IntentRetryTasks, TaskIDs: args.TaskIDs}
	}))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "pause-execution",
		Description: "Pause in-progress execution without discarding the plan or completed results.",
	}, intentHandler(facade, func(args PauseExecutionArgs) state.Intent {
		return state.Intent{Type: state.IntentPauseExecution, Reason: args.Reason}
	}))

	return server
}

// CreateProjectArgs is create-project's input schema.
type CreateProjectArgs struct {
	ProjectID    string   `json:"projectId" jsonschema:"the project id to create"`
	Goal         string   `json:"goal" jsonschema:"the one-line project goal"`
	ICP          string   `json:"icp,omitempty" jsonschema:"ideal customer profile, if already known"`
	TechStack    []string `json:"techStack,omitempty"`
	Constraints  []string `json:"constraints,omitempty"`
	CoreFeatures []string `json:"coreFeatures,omitempty"`
}

// AddFeatureArgs is add-feature's input schema.
type AddFeatureArgs struct {
	Description string `json:"description" jsonschema:"the feature description"`
}

// AnswerArgs is answer-clarifications' input schema.
type AnswerArgs struct {
	ClarificationID string   `json:"clarificationId"`
	Answers         []string `json:"answers"`
}

// ApprovePlanArgs is approve-plan's input schema.
type ApprovePlanArgs struct {
	ApprovalID string `json:"approvalId"`
	PlanID     string `json:"planId"`
}

// ApproveExecutionArgs is approve-execution's input schema.
type ApproveExecutionArgs struct {
	ApprovalID string `json:"approvalId"`
}

// FinalizeScopeArgs is finalize-scope's input schema.
type FinalizeScopeArgs struct {
	Note string `json:"note,omitempty" jsonschema:"optional note recorded alongside the forced finalization"`
}

// ReplanArgs is replan's input schema.
type ReplanArgs struct {
	Reason string `json:"reason,omitempty" jsonschema:"why the current plan is being discarded"`
}

// RunTasksArgs is run-tasks' input schema.
type RunTasksArgs struct {
	TaskIDs []string `json:"taskIds,omitempty" jsonschema:"specific task ids to dispatch; omit for all pending"`
}

// RetryTasksArgs is retry-tasks' input schema.
type RetryTasksArgs struct {
	TaskIDs []string `json:"taskIds,omitempty" jsonschema:"specific task ids to retry; omit for all failed"`
}

// PauseExecutionArgs is pause-execution's input schema.
type PauseExecutionArgs struct {
	Reason string `json:"reason,omitempty"`
}

// StateSummary is what every tool returns: a flattened view of the
// project the assistant can reason about without walking ProjectState
// directly.
type StateSummary struct {
	Phase               string   `json:"phase"`
	Version             int      `json:"version"`
	OpenClarificationIDs []string `json:"openClarificationIds,omitempty"`
	PendingApprovalIDs   []string `json:"pendingApprovalIds,omitempty"`
	ExecutionTotal       int      `json:"executionTotal,omitempty"`
	ExecutionCompleted   int      `json:"executionCompleted,omitempty"`
	ExecutionFailed      int      `json:"executionFailed,omitempty"`
}

func summarize(s *state.ProjectState) StateSummary {
	summary := StateSummary{Phase: string(s.Phase), Version: s.Version}
	for _, c := range s.Clarifications {
		if c.Status == state.ClarificationOpen {
			summary.OpenClarificationIDs = append(summary.OpenClarificationIDs, c.ID)
		}
	}
	for _, a := range s.Approvals {
		summary.PendingApprovalIDs = append(summary.PendingApprovalIDs, a.ID)
	}
	if s.Execution != nil {
		summary.ExecutionTotal = s.Execution.Summary.Total
		summary.ExecutionCompleted = s.Execution.Summary.Completed
		summary.ExecutionFailed = s.Execution.Summary.Failed
	}
	return summary
}

func statusHandler(facade *orchestrator.Facade) mcp.ToolHandlerFor[struct{}, StateSummary] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[struct{}]) (*mcp.CallToolResultFor[StateSummary], error) {
		s := facade.GetState()
		if s == nil {
			return nil, fmt.Errorf("no project initialized yet")
		}
		return &mcp.CallToolResultFor[StateSummary]{StructuredContent: summarize(s)}, nil
	}
}

func intentHandler[Args any](facade *orchestrator.Facade, toIntent func(Args) state.Intent) mcp.ToolHandlerFor[Args, StateSummary] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[Args]) (*mcp.CallToolResultFor[StateSummary], error) {
		res, err := facade.HandleIntent(ctx, toIntent(params.Arguments))
		if err != nil {
			return nil, err
		}
		return &mcp.CallToolResultFor[StateSummary]{StructuredContent: summarize(res.State)}, nil
	}
}
