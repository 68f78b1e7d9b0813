package cli

import (
	"github.com/andywolf/orcaspine/internal/state"
	"github.com/spf13/cobra"
)

var finalizeCmd = &cobra.Command{
	Use:   "finalize",
	Short: "Force the next planning dispatch to produce a final plan",
	Long: `finalize skips further clarification even if readiness would
otherwise ask another question, forcing the planner's next dispatch
into the final-plan prompt.

Example:
  orcaspine finalize --note "enough detail, just propose something"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		note, _ := cmd.Flags().GetString("note")
		return runIntent(state.Intent{Type: state.IntentFinalizeScope, Note: note})
	},
}

func init() {
	rootCmd.AddCommand(finalizeCmd)
	finalizeCmd.Flags().String("note", "", "optional note recorded alongside the forced finalization")
}
