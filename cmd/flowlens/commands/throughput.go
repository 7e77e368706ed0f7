package commands

import (
	"time"

	"github.com/spf13/cobra"

	"flowlens/internal/flow"
)

var throughputCmd = &cobra.Command{
	Use:   "throughput",
	Short: "Completed issues per month with maintenance/project split",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireProject(); err != nil {
			return err
		}
		window := cfg.Window(time.Now())

		issues, _, err := fetchCompleted(window)
		if err != nil {
			return err
		}

		buckets := flow.AggregateThroughput(issues, window, cfg.CycleTerminalStatus, cfg.IncludeUnknownInSplits)
		return printer.Throughput(buckets, flow.AverageMonthlyThroughput(buckets))
	},
}

func init() {
	rootCmd.AddCommand(throughputCmd)
}
