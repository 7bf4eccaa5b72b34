package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Runner performs one full run.
type Runner interface {
	Run(ctx context.Context) error
}

// Scheduler owns the main loop: one immediate run, then one run per cron tick.
type Scheduler struct {
	runner Runner
	expr   string
	logger *slog.Logger
}

// NewScheduler creates a scheduler that runs runner on the cron expression
// expr. Standard five-field expressions and descriptors such as "@every 6h"
// are accepted.
func NewScheduler(runner Runner, expr string, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner: runner,
		expr:   expr,
		logger: logger,
	}
}

// Run blocks until ctx is cancelled and returns nil then. An invalid cron
// expression is returned before the first run.
func (s *Scheduler) Run(ctx context.Context) error {
	schedule, err := cron.ParseStandard(s.expr)
	if err != nil {
		return fmt.Errorf("parsing schedule %q: %w", s.expr, err)
	}

	logger := cronLogger{s.logger}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.SkipIfStillRunning(logger)),
	)
	c.Schedule(schedule, cron.FuncJob(func() { s.runOnce(ctx) }))

	s.logger.Info("starting scheduler", "schedule", s.expr)

	// Run one cycle immediately so data is fresh without waiting for the first tick.
	s.runOnce(ctx)

	c.Start()
	<-ctx.Done()

	s.logger.Info("shutting down scheduler")
	<-c.Stop().Done()
	return nil
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := s.runner.Run(ctx); err != nil {
		s.logger.Error("run failed", "error", err)
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
