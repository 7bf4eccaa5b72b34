package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobstat/internal/adapter"
	"github.com/amishk599/jobstat/internal/config"
	"github.com/amishk599/jobstat/internal/fetcher"
	"github.com/amishk599/jobstat/internal/model"
	"github.com/amishk599/jobstat/internal/pipeline"
	"github.com/amishk599/jobstat/internal/report"
	"github.com/amishk599/jobstat/internal/store"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobstat",
	Short: "Job market snapshot from hh.ru",
	Long: "jobstat finds employers with several matching vacancies on hh.ru, stores their " +
		"listings in a relational database and reports on them.",
	// Running the binary without a subcommand performs one full run.
	RunE:          runRun,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBSTAT_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	addReportFlags(rootCmd)
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBSTAT_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("JOBSTAT_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	return setupLoggerTo(os.Stdout, dbg)
}

// setupLoggerTo is setupLogger for commands that write data to stdout.
func setupLoggerTo(w io.Writer, dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// silentLogger is used while a TUI owns the terminal; any log output there
// corrupts the display.
func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func setupFetcher(cfg *config.Config, logger *slog.Logger) *fetcher.Fetcher {
	httpClient := &http.Client{Timeout: cfg.API.Timeout}
	source := adapter.NewHHAdapter(cfg.API.BaseURL, cfg.API.PerPage, cfg.API.UserAgent, httpClient)
	return fetcher.New(source, cfg.API.Area, logger)
}

func fetchParams(cfg *config.Config) fetcher.Params {
	return fetcher.Params{
		Keyword:      cfg.Search.Keyword,
		Pages:        cfg.Search.Pages,
		MinListings:  cfg.Search.MinListings,
		MaxEmployers: cfg.Search.MaxEmployers,
	}
}

func setupStore(cfg *config.Config, logger *slog.Logger) (*store.Store, error) {
	s, err := store.New(cfg.Database.Driver, cfg.Database.DSN, logger)
	if err != nil {
		return nil, fmt.Errorf("setting up store: %w", err)
	}
	return s, nil
}

func setupReporter(format string, logger *slog.Logger) (model.Reporter, error) {
	switch format {
	case "table":
		return report.NewTableReporter(os.Stdout), nil
	case "log":
		return report.NewLogReporter(logger), nil
	default:
		return nil, fmt.Errorf("unknown --format %q (want table or log)", format)
	}
}

// buildPipeline wires a pipeline from config. keyword overrides the
// configured report keyword when non-empty.
func buildPipeline(cfg *config.Config, reporter model.Reporter, keyword string, logger *slog.Logger) (*pipeline.Pipeline, error) {
	s, err := setupStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	if keyword == "" {
		keyword = cfg.Report.Keyword
	}
	return pipeline.New(setupFetcher(cfg, logger), s, reporter, fetchParams(cfg), keyword, logger), nil
}
