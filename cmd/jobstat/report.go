package main

import (
	"github.com/spf13/cobra"

	"github.com/amishk599/jobstat/internal/fetcher"
	"github.com/amishk599/jobstat/internal/pipeline"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report on the stored listings",
	Long:  "Runs the analytical queries against the data already in the database, without fetching.",
	RunE:  runReport,
}

func init() {
	addReportFlags(reportCmd)
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return err
	}

	keyword := reportKeyword
	if keyword == "" {
		keyword = cfg.Report.Keyword
	}

	ctx, stop := signalContext()
	defer stop()

	if interactive {
		logger = silentLogger()
	}
	s, err := setupStore(cfg, logger)
	if err != nil {
		return err
	}
	reporter, err := setupReporter(format, logger)
	if err != nil {
		return err
	}

	p := pipeline.New(nil, s, reporter, fetcher.Params{}, keyword, logger)
	r := p.Report(ctx)
	if interactive {
		return browseReport(r)
	}
	return reporter.Report(r)
}
