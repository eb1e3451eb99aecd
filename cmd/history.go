package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kjourdan1/meshctl/internal/audit"
	"github.com/kjourdan1/meshctl/internal/output"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show CLI audit history",
	Long: `Displays audit events written by meshctl in JSONL format.

By default, reads ~/.meshctl/audit.log and prints the latest events.
Use --resource-group or --subscription to filter.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var (
	historyLimit  int
	historyFailed bool
)

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "max number of events to display")
	historyCmd.Flags().BoolVar(&historyFailed, "failed", false, "only show failed invocations")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	out := cmd.ErrOrStderr()
	events, err := audit.ReadUserAudit()
	if err != nil {
		return fmt.Errorf("history failed: %w", err)
	}
	if len(events) == 0 {
		fmt.Fprintln(out, "No audit events found.")
		return nil
	}

	filtered := make([]audit.Event, 0, len(events))
	for _, event := range events {
		if resourceGroup != "" && event.ResourceGroup != resourceGroup {
			continue
		}
		if subscription != "" && event.Subscription != subscription {
			continue
		}
		if historyFailed && event.Result == "success" {
			continue
		}
		filtered = append(filtered, event)
	}
	if len(filtered) == 0 {
		fmt.Fprintln(out, "No matching audit events.")
		return nil
	}

	start := 0
	if historyLimit > 0 && len(filtered) > historyLimit {
		start = len(filtered) - historyLimit
	}

	if jsonOutput {
		return output.Render(output.Stdout, output.FormatJSON, filtered[start:])
	}

	bold := color.New(color.Bold)
	bold.Fprintln(out, "📜 meshctl history")
	for _, event := range filtered[start:] {
		status := color.New(color.FgGreen)
		if event.Result != "success" {
			status = color.New(color.FgRed)
		}
		status.Fprintf(out, "  %s", event.Result)
		fmt.Fprintf(out, "  %s  op=%s", event.Timestamp, event.Operation)
		if event.Subscription != "" {
			fmt.Fprintf(out, "  subscription=%s", event.Subscription)
		}
		if event.ResourceGroup != "" {
			fmt.Fprintf(out, "  rg=%s", event.ResourceGroup)
		}
		fmt.Fprintf(out, "  exit=%d  duration=%dms\n", event.ExitCode, event.DurationMs)
	}

	return nil
}
