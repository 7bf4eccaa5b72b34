// Package pipeline wires the fetch, load and report stages of one run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amishk599/jobstat/internal/fetcher"
	"github.com/amishk599/jobstat/internal/model"
)

// Fetcher produces the flat records for one run.
type Fetcher interface {
	Fetch(ctx context.Context, p fetcher.Params) ([]model.FlatRecord, error)
}

// Pipeline owns a full run: fetch → load → query → report.
type Pipeline struct {
	fetcher  Fetcher
	store    model.ListingStore
	reporter model.Reporter
	params   fetcher.Params
	keyword  string
	logger   *slog.Logger
}

// New creates a pipeline wired with all its dependencies. f may be nil when
// only Report is used.
func New(
	f Fetcher,
	store model.ListingStore,
	reporter model.Reporter,
	params fetcher.Params,
	keyword string,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		fetcher:  f,
		store:    store,
		reporter: reporter,
		params:   params,
		keyword:  keyword,
		logger:   logger,
	}
}

// Fetch runs the fetch stage with the configured parameters.
func (p *Pipeline) Fetch(ctx context.Context) ([]model.FlatRecord, error) {
	if p.fetcher == nil {
		return nil, errors.New("fetch: no fetcher configured")
	}
	records, err := p.fetcher.Fetch(ctx, p.params)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	return records, nil
}

// Load replaces the stored data with records.
func (p *Pipeline) Load(ctx context.Context, records []model.FlatRecord) error {
	if err := p.store.Load(ctx, records); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	return nil
}

// Report runs the analytical queries in order. A failing query is logged and
// leaves its section empty; the remaining queries still run. The above-average
// query is skipped when there is no average.
func (p *Pipeline) Report(ctx context.Context) model.Report {
	r := model.Report{Keyword: p.keyword}

	var err error
	if r.Companies, err = p.store.CompaniesWithListingCounts(ctx); err != nil {
		p.logger.Error("query failed", "query", "companies", "error", err)
	}

	if r.Listings, err = p.store.AllListings(ctx); err != nil {
		p.logger.Error("query failed", "query", "listings", "error", err)
	}

	avg, err := p.store.AverageSalary(ctx)
	switch {
	case errors.Is(err, model.ErrNoSalaryData):
		p.logger.Warn("no listings with a salary")
	case err != nil:
		p.logger.Error("query failed", "query", "average_salary", "error", err)
	default:
		r.AverageSalary, r.HasAverage = avg, true
	}

	if r.HasAverage {
		if r.AboveAverage, err = p.store.ListingsAboveSalary(ctx, r.AverageSalary); err != nil {
			p.logger.Error("query failed", "query", "above_average", "error", err)
		}
	}

	if r.KeywordMatches, err = p.store.ListingsMatchingKeyword(ctx, p.keyword); err != nil {
		p.logger.Error("query failed", "query", "keyword", "keyword", p.keyword, "error", err)
	}

	return r
}

// Run performs one full run. A fetch or load error aborts it before any query.
func (p *Pipeline) Run(ctx context.Context) error {
	records, err := p.Fetch(ctx)
	if err != nil {
		return err
	}
	if err := p.Load(ctx, records); err != nil {
		return err
	}

	r := p.Report(ctx)
	if err := p.reporter.Report(r); err != nil {
		return fmt.Errorf("report: %w", err)
	}

	p.logger.Info("run complete",
		"records", len(records),
		"companies", len(r.Companies),
		"keyword_matches", len(r.KeywordMatches),
	)
	return nil
}
