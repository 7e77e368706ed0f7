package commands

import (
	"time"

	"github.com/spf13/cobra"

	"flowlens/internal/flow"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run the full flow analysis: lead time, cycle time, WIP and throughput",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireProject(); err != nil {
			return err
		}
		window := cfg.Window(time.Now())

		completed, malformedA, err := fetchCompleted(window)
		if err != nil {
			return err
		}
		inProgress, malformedB, err := fetchInProgress(window)
		if err != nil {
			return err
		}

		issues := mergeIssues(completed, inProgress)
		malformed := mergeExclusions(malformedA, malformedB)

		analyzer := flow.NewAnalyzer(cfg.AnalyzerConfig(window))
		rep, err := analyzer.Run(issues, malformed)
		if err != nil {
			return err
		}
		return printer.Report(rep)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
