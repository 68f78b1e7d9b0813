package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/andywolf/orcaspine/internal/config"
	"github.com/andywolf/orcaspine/internal/state"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the current project state",
	Long: `status loads the persisted project and prints its phase, pending
approvals, open clarifications, and execution summary.

Example:
  orcaspine status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	f, err := buildFacade(cfg)
	if err != nil {
		return err
	}
	s, err := f.Initialize(context.Background())
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	if s == nil {
		fmt.Println("No project initialized yet. Run `orcaspine create` first.")
		return nil
	}
	printState(s)
	return nil
}

func printState(s *state.ProjectState) {
	fmt.Printf("Project:  %s\n", s.ProjectID)
	fmt.Printf("Phase:    %s\n", s.Phase)
	fmt.Printf("Version:  %d\n", s.Version)
	if s.Goal != "" {
		fmt.Printf("Goal:     %s\n", s.Goal)
	}

	if len(s.Clarifications) > 0 {
		fmt.Println("\nClarifications:")
		for _, c := range s.Clarifications {
			fmt.Printf("  [%s] %s (%s)\n", c.ID, strings.Join(c.Questions, " / "), c.Status)
		}
	}

	if len(s.Approvals) > 0 {
		fmt.Println("\nPending approvals:")
		for _, a := range s.Approvals {
			fmt.Printf("  [%s] type=%s plan=%s\n", a.ID, a.Type, a.PlanID)
		}
	}

	if s.Execution != nil {
		sum := s.Execution.Summary
		fmt.Printf("\nExecution: %d/%d completed, %d failed, %d in progress\n",
			sum.Completed, sum.Total, sum.Failed, sum.InProgress)
		if len(s.Execution.Failures) > 0 {
			fmt.Println("Failures:")
			for _, fail := range s.Execution.Failures {
				fmt.Printf("  task=%s reason=%s\n", fail.TaskID, fail.Reason)
			}
		}
	}
}
