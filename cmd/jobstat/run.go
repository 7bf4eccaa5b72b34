package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobstat/internal/config"
	"github.com/amishk599/jobstat/internal/model"
	"github.com/amishk599/jobstat/internal/report"
	"github.com/amishk599/jobstat/internal/tui"
)

var (
	reportKeyword string
	interactive   bool
	format        string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch, load and report once",
	Long:  "Fetches listings from hh.ru, replaces the stored data with them and prints the report.",
	RunE:  runRun,
}

func init() {
	addReportFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&reportKeyword, "keyword", "", "title keyword for the keyword report (default: report.keyword from config)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse the reports in a TUI")
	cmd.Flags().StringVar(&format, "format", "table", "report output: table or log")
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	if interactive {
		return runInteractive(ctx, cfg)
	}

	reporter, err := setupReporter(format, logger)
	if err != nil {
		return err
	}
	p, err := buildPipeline(cfg, reporter, reportKeyword, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		return err
	}

	logger.Info("config loaded",
		"keyword", cfg.Search.Keyword,
		"area", cfg.API.Area,
		"pages", cfg.Search.Pages,
		"driver", cfg.Database.Driver,
	)

	if err := p.Run(ctx); err != nil {
		logger.Error("run failed", "error", err)
		return err
	}
	return nil
}

// runInteractive fetches and loads behind a spinner, then opens the report browser.
func runInteractive(ctx context.Context, cfg *config.Config) error {
	p, err := buildPipeline(cfg, nil, reportKeyword, silentLogger())
	if err != nil {
		return err
	}

	var r model.Report
	err = tui.RunLoader(ctx, "Fetching listings from hh.ru", func(ctx context.Context) error {
		records, err := p.Fetch(ctx)
		if err != nil {
			return err
		}
		if err := p.Load(ctx, records); err != nil {
			return err
		}
		r = p.Report(ctx)
		return nil
	})
	if err != nil {
		return err
	}
	return browseReport(r)
}

// browseReport loops picker → table until the user quits the picker.
func browseReport(r model.Report) error {
	sections := report.Sections(r)
	titles := make([]string, len(sections))
	for i, s := range sections {
		titles[i] = s.Title
	}

	for {
		choice, err := tui.RunPicker("jobstat: select a report", titles)
		if err != nil {
			return err
		}
		if choice < 0 {
			return nil
		}
		s := sections[choice]
		if err := tui.RunTable(s.Title, s.Columns, s.Rows); err != nil {
			return err
		}
	}
}
