package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"flowlens/internal/config"
	"flowlens/internal/jira"
	"flowlens/internal/logging"
	"flowlens/internal/report"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose    bool
	formatFlag string
	outputFile string

	cfg        *config.AppConfig
	jiraClient *jira.Client
	printer    *report.Printer
)

var rootCmd = &cobra.Command{
	Use:   "flowlens",
	Short: "Flowlens derives Kanban flow metrics from Jira",
	Long: `Flowlens computes lead time, cycle time, work in progress and throughput
from the status-change history of Jira issues, with monthly and per-assignee
aggregates and maintenance/project splits.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if err := logging.AttachFile(cfg.LogDir); err != nil {
			return err
		}

		format, err := report.ParseFormat(formatFlag)
		if err != nil {
			return err
		}
		printer = &report.Printer{Format: format, OutputFile: outputFile}

		jiraClient = jira.NewClient(cfg.Jira)

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("Flowlens starting")
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "table", "output format: table, csv or json")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "write output to file instead of stdout")
}
