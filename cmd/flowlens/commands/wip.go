package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"flowlens/internal/flow"
)

var wipMonth string

var wipCmd = &cobra.Command{
	Use:   "wip",
	Short: "Daily and monthly work-in-progress counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireProject(); err != nil {
			return err
		}
		window := cfg.Window(time.Now())

		issues, _, err := fetchInProgress(window)
		if err != nil {
			return err
		}

		daily, _ := flow.SampleDailyWIP(issues, window, cfg.WipStatus)
		monthly := flow.ReduceMonthlyWIP(daily, flow.WipMonthlyMode(cfg.WipMonthlyMode))

		var details []flow.WipDetail
		if wipMonth != "" {
			month, err := time.Parse("2006-01", wipMonth)
			if err != nil {
				return fmt.Errorf("invalid --month %q (expected YYYY-MM)", wipMonth)
			}
			details = flow.IssuesInProgressInMonth(issues, window, cfg.WipStatus, month)
		}

		return printer.Wip(daily, monthly, details)
	},
}

func init() {
	wipCmd.Flags().StringVar(&wipMonth, "month", "", "list the issues in progress during a month (YYYY-MM)")
	rootCmd.AddCommand(wipCmd)
}
