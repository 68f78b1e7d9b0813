package cli

import (
	"github.com/andywolf/orcaspine/internal/state"
	"github.com/spf13/cobra"
)

var runTasksCmd = &cobra.Command{
	Use:   "run",
	Short: "Dispatch pending execution tasks",
	Long: `run dispatches all pending execution tasks, or a specific subset
with --task. It is rejected while an execution_start approval is still
pending.

Example:
  orcaspine run
  orcaspine run --task t-abc123 --task t-def456`,
	RunE: func(cmd *cobra.Command, args []string) error {
		taskIDs, _ := cmd.Flags().GetStringSlice("task")
		return runIntent(state.Intent{Type: state.IntentRunTasks, TaskIDs: taskIDs})
	},
}

var retryTasksCmd = &cobra.Command{
	Use:   "retry",
	Short: "Retry failed execution tasks",
	Long: `retry re-dispatches failed tasks, or a specific subset with
--task. With nothing to retry it is a no-op. Depending on
settings.require_retry_approval it either re-dispatches immediately or
pauses for an execution_retry approval first.

Example:
  orcaspine retry
  orcaspine retry --task t-abc123`,
	RunE: func(cmd *cobra.Command, args []string) error {
		taskIDs, _ := cmd.Flags().GetStringSlice("task")
		return runIntent(state.Intent{Type: state.IntentRetryTasks, TaskIDs: taskIDs})
	},
}

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause in-progress execution",
	Long: `pause halts further task dispatch without discarding the plan
or completed results.

Example:
  orcaspine pause`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntent(state.Intent{Type: state.IntentPauseExecution})
	},
}

func init() {
	rootCmd.AddCommand(runTasksCmd, retryTasksCmd, pauseCmd)
	runTasksCmd.Flags().StringSlice("task", nil, "specific task ids to dispatch (default: all pending)")
	retryTasksCmd.Flags().StringSlice("task", nil, "specific task ids to retry (default: all failed)")
}
