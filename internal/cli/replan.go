package cli

import (
	"github.com/andywolf/orcaspine/internal/state"
	"github.com/spf13/cobra"
)

var replanCmd = &cobra.Command{
	Use:   "replan",
	Short: "Discard the current plan and dispatch a fresh planning task",
	Long: `replan is for when an approved plan turns out to be wrong before
execution has meaningfully progressed - it throws away the current
plan and asks the planner again.

Example:
  orcaspine replan --reason "milestone order was backwards"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reason, _ := cmd.Flags().GetString("reason")
		return runIntent(state.Intent{Type: state.IntentReplan, Reason: reason})
	},
}

func init() {
	rootCmd.AddCommand(replanCmd)
	replanCmd.Flags().String("reason", "", "why the current plan is being discarded")
}
