package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/claimcheck/internal/clarify"
	"github.com/sells-group/claimcheck/internal/model"
)

// evaluationInput is the fixture format consumed by the evaluate command:
// a claim plus the agent results and evidence gathered for it. Metrics are
// computed when not supplied.
type evaluationInput struct {
	Claim    model.Claim                           `json:"claim"`
	Results  map[model.AgentType]model.AgentResult `json:"agent_results"`
	Evidence []model.EvidenceRecord                `json:"evidence"`
	Metrics  *model.ConfidenceMetrics              `json:"confidence_metrics"`
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <input.json>",
	Short: "Run a one-shot clarification evaluation from a fixture file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		raw, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrap(err, "evaluate: read input")
		}
		var input evaluationInput
		if err := json.Unmarshal(raw, &input); err != nil {
			return eris.Wrap(err, "evaluate: parse input")
		}
		if input.Claim.ID == "" {
			return eris.New("evaluate: claim.claim_id is required")
		}

		env, err := initSystem(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		metrics := env.System.Metrics(input.Evidence, input.Results)
		if input.Metrics != nil {
			metrics = *input.Metrics
		}

		created, err := env.System.EvaluateAndRequest(ctx, input.Claim, input.Results, input.Evidence, metrics)
		if err != nil {
			return eris.Wrap(err, "evaluate")
		}

		out := map[string]any{
			"claim_id":           input.Claim.ID,
			"confidence_metrics": metrics,
		}
		if created == nil {
			out["status"] = "no_clarification_needed"
		} else {
			out["status"] = "clarification_requested"
			out["request"] = created
			out["prompt"] = clarify.FormatPrompt(*created)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return eris.Wrap(err, "evaluate: encode output")
		}

		if created != nil {
			fmt.Fprintf(os.Stderr, "Clarification %s created for claim %s (priority %s)\n",
				created.ID, input.Claim.ID, created.Priority)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
}
