package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobstat/internal/report"
	"github.com/amishk599/jobstat/internal/scheduler"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run on a cron schedule",
	Long:  "Runs once immediately, then again on every tick of schedule.cron; blocks until SIGINT/SIGTERM.",
	RunE:  runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return err
	}
	if cfg.Schedule.Cron == "" {
		err := errors.New("schedule.cron is required for start")
		logger.Error("invalid config", "error", err)
		return err
	}

	p, err := buildPipeline(cfg, report.NewLogReporter(logger), "", logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	sched := scheduler.NewScheduler(p, cfg.Schedule.Cron, logger)
	if err := sched.Run(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
		return err
	}

	logger.Info("goodbye")
	return nil
}
