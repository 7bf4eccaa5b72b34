package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobstat/internal/model"
	"github.com/amishk599/jobstat/internal/tui"
)

var (
	fetchOut      string
	fetchProgress bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch listings and write them as JSON",
	Long:  "Runs the fetch stage only and writes the normalized records as a JSON array, ready for `jobstat load`.",
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchOut, "out", "o", "", "output file (default: stdout)")
	fetchCmd.Flags().BoolVar(&fetchProgress, "progress", false, "show a spinner while fetching (requires --out)")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	// Records go to stdout by default, so logs go to stderr.
	logger := setupLoggerTo(os.Stderr, debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return err
	}
	if fetchProgress && fetchOut == "" {
		return errors.New("--progress requires --out")
	}

	ctx, stop := signalContext()
	defer stop()

	if fetchProgress {
		logger = silentLogger()
	}
	f := setupFetcher(cfg, logger)

	var records []model.FlatRecord
	work := func(ctx context.Context) error {
		fetched, err := f.Fetch(ctx, fetchParams(cfg))
		if err != nil {
			return err
		}
		records = fetched
		return nil
	}
	if fetchProgress {
		err = tui.RunLoader(ctx, "Fetching listings from hh.ru", work)
	} else {
		err = work(ctx)
	}
	if err != nil {
		logger.Error("fetch failed", "error", err)
		return err
	}

	var w io.Writer = os.Stdout
	if fetchOut != "" {
		file, err := os.Create(fetchOut)
		if err != nil {
			return fmt.Errorf("creating %s: %w", fetchOut, err)
		}
		defer file.Close()
		w = file
	}
	if err := writeRecords(w, records); err != nil {
		return err
	}
	if fetchOut != "" {
		fmt.Fprintf(os.Stderr, "wrote %d records to %s\n", len(records), fetchOut)
	}
	return nil
}

func writeRecords(w io.Writer, records []model.FlatRecord) error {
	if records == nil {
		records = []model.FlatRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("writing records: %w", err)
	}
	return nil
}

func readRecords(r io.Reader) ([]model.FlatRecord, error) {
	var records []model.FlatRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}
	return records, nil
}
