package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCancel bool

var statusCmd = &cobra.Command{
	Use:   "status <request-id>",
	Short: "Show a clarification request, or cancel it with --cancel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newAPIClient()

		if statusCancel {
			var out map[string]string
			path := fmt.Sprintf("/requests/%s/cancel", args[0])
			if err := client.post(cmd.Context(), path, map[string]string{}, &out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Request %s cancelled.\n", args[0])
			return nil
		}

		var out map[string]any
		if err := client.get(cmd.Context(), "/requests/"+args[0], &out); err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	statusCmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "base URL of a running claimcheck server")
	statusCmd.Flags().BoolVar(&statusCancel, "cancel", false, "cancel the request instead of showing it")
	rootCmd.AddCommand(statusCmd)
}
