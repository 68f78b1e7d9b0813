package cli

import (
	"github.com/andywolf/orcaspine/internal/state"
	"github.com/spf13/cobra"
)

var addFeatureCmd = &cobra.Command{
	Use:   "add-feature",
	Short: "Add a feature description to the project's scope",
	Long: `add-feature folds a new feature description into the project,
re-entering the planning loop to reassess readiness.

Example:
  orcaspine add-feature --description "Add CSV export"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")
		return runIntent(state.Intent{Type: state.IntentAddFeature, Description: description})
	},
}

func init() {
	rootCmd.AddCommand(addFeatureCmd)
	addFeatureCmd.Flags().String("description", "", "feature description (required)")
	_ = addFeatureCmd.MarkFlagRequired("description")
}
