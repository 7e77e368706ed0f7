package commands

import (
	"time"

	"github.com/spf13/cobra"

	"flowlens/internal/flow"
)

var cycletimeCmd = &cobra.Command{
	Use:   "cycletime",
	Short: "Cycle time per completed issue, aggregated by month and assignee",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireProject(); err != nil {
			return err
		}
		window := cfg.Window(time.Now())

		issues, _, err := fetchCompleted(window)
		if err != nil {
			return err
		}

		pair := flow.StatusPair{Entry: cfg.CycleEntryStatus, Terminal: cfg.CycleTerminalStatus}
		samples, byMonth, byAssignee, outliers := durationStats(issues, window, flow.CycleTime, pair)
		return printer.Durations("Cycle time", samples, byMonth, byAssignee, outliers)
	},
}

func init() {
	rootCmd.AddCommand(cycletimeCmd)
}
