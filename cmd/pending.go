package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/claimcheck/internal/model"
)

var pendingJSON bool

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List clarification requests awaiting a response",
	RunE: func(cmd *cobra.Command, _ []string) error {
		var out struct {
			Count    int                          `json:"count"`
			Requests []model.ClarificationRequest `json:"requests"`
		}
		if err := newAPIClient().get(cmd.Context(), "/requests/pending", &out); err != nil {
			return err
		}

		if pendingJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		if out.Count == 0 {
			fmt.Fprintln(os.Stderr, "No pending clarification requests.")
			return nil
		}
		formatPendingList(cmd.OutOrStdout(), out.Requests)
		return nil
	},
}

func formatPendingList(w io.Writer, requests []model.ClarificationRequest) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "REQUEST\tPRIORITY\tTYPE\tCLAIM\tCREATED\tTITLE")
	for _, req := range requests {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			req.ID,
			req.Priority,
			req.Type,
			req.ClaimID,
			req.CreatedAt.Format("2006-01-02 15:04:05"),
			req.Title,
		)
	}
	tw.Flush() //nolint:errcheck
}

func init() {
	pendingCmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "base URL of a running claimcheck server")
	pendingCmd.Flags().BoolVar(&pendingJSON, "json", false, "print the raw JSON response")
	rootCmd.AddCommand(pendingCmd)
}
