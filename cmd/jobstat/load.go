package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var loadIn string

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load records JSON into the database",
	Long:  "Reads a JSON array of records (as written by `jobstat fetch`) and replaces the stored data with it.",
	RunE:  runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadIn, "in", "", "input file (default: stdin)")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return err
	}

	var r io.Reader = os.Stdin
	if loadIn != "" {
		file, err := os.Open(loadIn)
		if err != nil {
			return fmt.Errorf("opening %s: %w", loadIn, err)
		}
		defer file.Close()
		r = file
	}

	records, err := readRecords(r)
	if err != nil {
		logger.Error("failed to read records", "error", err)
		return err
	}

	s, err := setupStore(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	if err := s.Load(ctx, records); err != nil {
		logger.Error("load failed", "error", err)
		return err
	}
	return nil
}
