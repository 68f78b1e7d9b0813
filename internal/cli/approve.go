package cli

import (
	"context"
	"fmt"

	"github.com/andywolf/orcaspine/internal/config"
	"github.com/andywolf/orcaspine/internal/policy"
	"github.com/andywolf/orcaspine/internal/state"
	"github.com/spf13/cobra"
)

var approvePlanCmd = &cobra.Command{
	Use:   "approve-plan",
	Short: "Approve a proposed plan",
	Long: `approve-plan accepts a plan awaiting_approval, seeding execution
tasks from it. Depending on settings.require_execution_approval this
either dispatches execution immediately or pauses again for a second
approval. If policy.enabled is set, the plan is checked against the
configured Rego bundle first and rejected locally (the approval stays
pending) if any deny rule fires.

Example:
  orcaspine approve-plan --approval a-abc123 --plan pl-def456`,
	RunE: runApprovePlan,
}

func runApprovePlan(cmd *cobra.Command, args []string) error {
	approvalID, _ := cmd.Flags().GetString("approval")
	planID, _ := cmd.Flags().GetString("plan")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cfg.Policy.Enabled {
		f, err := buildFacade(cfg)
		if err != nil {
			return err
		}
		s, err := f.Initialize(context.Background())
		if err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		if s == nil {
			return fmt.Errorf("no project initialized yet; run `orcaspine create` first")
		}
		plan, ok := s.Plans[planID]
		if !ok {
			return fmt.Errorf("no such plan %q", planID)
		}

		gate, err := policy.NewGate(cfg.Policy.BundlePath)
		if err != nil {
			return fmt.Errorf("load policy bundle: %w", err)
		}
		decision, err := gate.Evaluate(context.Background(), planToPolicyInput(plan))
		if err != nil {
			return fmt.Errorf("evaluate policy: %w", err)
		}
		if !decision.Allowed {
			return fmt.Errorf("plan %s rejected by policy: %v", planID, decision.Violations)
		}
	}

	return runIntent(state.Intent{Type: state.IntentApprovePlan, ApprovalID: approvalID, PlanID: planID})
}

func planToPolicyInput(plan state.PlanSnapshot) policy.Input {
	milestones := make([]string, len(plan.Roadmap))
	for i, m := range plan.Roadmap {
		milestones[i] = m.Title
	}
	features := make([]string, len(plan.Features))
	for i, f := range plan.Features {
		features[i] = f.Title
	}
	taskTitles := make([]string, len(plan.Tasks))
	for i, t := range plan.Tasks {
		taskTitles[i] = t.Title
	}
	return policy.Input{
		PlanID:     plan.ID,
		Milestones: milestones,
		Features:   features,
		TaskTitles: taskTitles,
	}
}

var approveExecutionCmd = &cobra.Command{
	Use:   "approve-execution",
	Short: "Approve a pending execution or retry gate",
	Long: `approve-execution resolves an execution_start or execution_retry
approval, dispatching the tasks it was gating.

Example:
  orcaspine approve-execution --approval a-abc123`,
	RunE: func(cmd *cobra.Command, args []string) error {
		approvalID, _ := cmd.Flags().GetString("approval")
		return runIntent(state.Intent{Type: state.IntentApproveExecution, ApprovalID: approvalID})
	},
}

func init() {
	rootCmd.AddCommand(approvePlanCmd, approveExecutionCmd)

	approvePlanCmd.Flags().String("approval", "", "approval id (required)")
	approvePlanCmd.Flags().String("plan", "", "plan id being approved (required)")
	_ = approvePlanCmd.MarkFlagRequired("approval")
	_ = approvePlanCmd.MarkFlagRequired("plan")

	approveExecutionCmd.Flags().String("approval", "", "approval id (required)")
	_ = approveExecutionCmd.MarkFlagRequired("approval")
}
