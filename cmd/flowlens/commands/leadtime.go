package commands

import (
	"time"

	"github.com/spf13/cobra"

	"flowlens/internal/flow"
)

var leadtimeCmd = &cobra.Command{
	Use:   "leadtime",
	Short: "Lead time per completed issue, aggregated by month and assignee",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireProject(); err != nil {
			return err
		}
		window := cfg.Window(time.Now())

		issues, _, err := fetchCompleted(window)
		if err != nil {
			return err
		}

		pair := flow.StatusPair{Entry: cfg.LeadEntryStatus, Terminal: cfg.LeadTerminalStatus}
		samples, byMonth, byAssignee, outliers := durationStats(issues, window, flow.LeadTime, pair)
		return printer.Durations("Lead time", samples, byMonth, byAssignee, outliers)
	},
}

func init() {
	rootCmd.AddCommand(leadtimeCmd)
}
