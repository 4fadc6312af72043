package main

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/claimcheck/internal/model"
)

var (
	respondUser string
	respondData string
)

var respondCmd = &cobra.Command{
	Use:   "respond <request-id>",
	Short: "Submit a response to a pending clarification request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data map[string]any
		if respondData != "" {
			if err := json.Unmarshal([]byte(respondData), &data); err != nil {
				return eris.Wrap(err, "respond: parse --data")
			}
		}

		body := map[string]any{
			"response_data": data,
			"user_id":       respondUser,
		}
		var out struct {
			Response model.ClarificationResponse `json:"response"`
		}
		path := fmt.Sprintf("/requests/%s/respond", args[0])
		if err := newAPIClient().post(cmd.Context(), path, body, &out); err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out.Response)
	},
}

func init() {
	respondCmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "base URL of a running claimcheck server")
	respondCmd.Flags().StringVar(&respondUser, "user", "", "id of the responding user (required)")
	respondCmd.Flags().StringVar(&respondData, "data", "", "response payload as a JSON object")
	_ = respondCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(respondCmd)
}
