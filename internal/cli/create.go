package cli

import (
	"context"
	"fmt"

	"github.com/andywolf/orcaspine/internal/config"
	"github.com/andywolf/orcaspine/internal/state"
	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Start a new project from a one-line goal",
	Long: `create bootstraps a new project. If --icp, --tech-stack,
--constraint, or --core-feature fully cover the structured context the
planner needs, the first planning task goes straight to a final plan;
otherwise it starts by asking a clarifying question.

Example:
  orcaspine create --project p1 --goal "Build a scheduling tool" \
    --icp "ops managers" --tech-stack go --core-feature "shift swaps"`,
	RunE: runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().String("project", "", "project id (required)")
	createCmd.Flags().String("goal", "", "one-line project goal (required)")
	createCmd.Flags().String("icp", "", "ideal customer profile, if already known")
	createCmd.Flags().StringSlice("tech-stack", nil, "known tech stack constraints")
	createCmd.Flags().StringSlice("constraint", nil, "known project constraints")
	createCmd.Flags().StringSlice("core-feature", nil, "known core features")
	createCmd.Flags().Bool("require-execution-approval", false, "pause for approval before dispatching execution tasks")
	createCmd.Flags().Bool("require-retry-approval", true, "pause for approval before retrying failed tasks")
	_ = createCmd.MarkFlagRequired("project")
	_ = createCmd.MarkFlagRequired("goal")
}

func runCreate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	project, _ := cmd.Flags().GetString("project")
	goal, _ := cmd.Flags().GetString("goal")
	icp, _ := cmd.Flags().GetString("icp")
	techStack, _ := cmd.Flags().GetStringSlice("tech-stack")
	constraints, _ := cmd.Flags().GetStringSlice("constraint")
	coreFeatures, _ := cmd.Flags().GetStringSlice("core-feature")
	requireExecApproval, _ := cmd.Flags().GetBool("require-execution-approval")
	requireRetryApproval, _ := cmd.Flags().GetBool("require-retry-approval")

	intent := state.Intent{
		Type:      state.IntentCreateProject,
		ProjectID: project,
		Goal:      goal,
		Settings: &state.SettingsOverride{
			RequireExecutionApproval: &requireExecApproval,
			RequireRetryApproval:     &requireRetryApproval,
		},
	}
	if icp != "" || len(techStack) > 0 || len(constraints) > 0 || len(coreFeatures) > 0 {
		intent.Context = &state.ProjectContext{
			ICP:          icp,
			TechStack:    techStack,
			Constraints:  constraints,
			CoreFeatures: coreFeatures,
		}
	}

	f, err := buildFacade(cfg)
	if err != nil {
		return err
	}
	ctx := context.Background()
	if _, err := f.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	res, err := f.HandleIntent(ctx, intent)
	if err != nil {
		return fmt.Errorf("create_project: %w", err)
	}
	trackTransition(cfg, intent.Type, res.State.Phase)
	printState(res.State)
	return nil
}
