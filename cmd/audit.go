package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	auditpkg "github.com/sells-group/claimcheck/internal/audit"
)

var (
	auditClaim  string
	auditFormat string
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "List audit trail events from the configured sink",
	Long:  "Reads clarification audit events from the configured sink. With the sqlite or postgres driver this works across runs; the memory driver only holds events for the current process.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		sink, err := initSink(ctx)
		if err != nil {
			return err
		}
		defer sink.Close() //nolint:errcheck

		events, err := sink.ListEvents(ctx, auditClaim)
		if err != nil {
			return eris.Wrap(err, "audit: list events")
		}

		switch auditFormat {
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(events)
		case "yaml":
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close() //nolint:errcheck
			return enc.Encode(events)
		case "table":
			if len(events) == 0 {
				fmt.Fprintln(os.Stderr, "No audit events found.")
				return nil
			}
			formatEventList(cmd.OutOrStdout(), events)
			return nil
		default:
			return eris.New(fmt.Sprintf("unknown format %q (want table, json, or yaml)", auditFormat))
		}
	},
}

func formatEventList(w io.Writer, events []auditpkg.Event) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tEVENT\tCLAIM\tUSER\tAGENT")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			e.Type,
			e.ClaimID,
			e.UserID,
			e.Agent,
		)
	}
	tw.Flush() //nolint:errcheck
}

func init() {
	auditCmd.Flags().StringVar(&auditClaim, "claim", "", "filter events by claim id")
	auditCmd.Flags().StringVar(&auditFormat, "format", "table", "output format: table, json, or yaml")
	rootCmd.AddCommand(auditCmd)
}
