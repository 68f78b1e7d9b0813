package cli

import (
	"github.com/andywolf/orcaspine/internal/state"
	"github.com/spf13/cobra"
)

var answerCmd = &cobra.Command{
	Use:   "answer",
	Short: "Answer an open clarification",
	Long: `answer resolves a pending clarification by id, feeding the
answers back into readiness before the next planning dispatch.

Example:
  orcaspine answer --clarification c-abc123 --answer "ops managers" --answer "logistics firms"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("clarification")
		answers, _ := cmd.Flags().GetStringSlice("answer")
		return runIntent(state.Intent{
			Type:            state.IntentAnswerClarifications,
			ClarificationID: id,
			Answers:         answers,
		})
	},
}

func init() {
	rootCmd.AddCommand(answerCmd)
	answerCmd.Flags().String("clarification", "", "clarification id (required)")
	answerCmd.Flags().StringSlice("answer", nil, "one answer per question, in order (required)")
	_ = answerCmd.MarkFlagRequired("clarification")
	_ = answerCmd.MarkFlagRequired("answer")
}
