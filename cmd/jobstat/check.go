package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobstat/internal/report"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Fetch once, print listings, exit",
	Long:  "One-shot fetch: prints the listings that a run would load. Does not touch the database.",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return err
	}

	logger.Info("check mode: nothing will be stored")

	ctx, stop := signalContext()
	defer stop()

	records, err := setupFetcher(cfg, logger).Fetch(ctx, fetchParams(cfg))
	if err != nil {
		logger.Error("fetch failed", "error", err)
		return err
	}

	fmt.Fprintln(os.Stdout, report.RenderSection(report.RecordsSection(records)))
	logger.Info("check complete", "records", len(records))
	return nil
}
