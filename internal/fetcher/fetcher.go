// Package fetcher builds the flat record list from a job-search provider:
// broad search, employer selection, per-employer fetch and normalization.
package fetcher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/amishk599/jobstat/internal/model"
)

// employerNamespace seeds the keys synthesized for employers without an ID.
var employerNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://api.hh.ru/employers"))

// Params controls one fetch.
type Params struct {
	Keyword      string // title keyword for the candidate search
	Pages        int    // number of search pages, starting at 0
	MinListings  int    // minimum candidate-pool listings per employer
	MaxEmployers int    // cap on selected employers
}

// Fetcher runs the fetch stages against a single ListingSource and area.
type Fetcher struct {
	source model.ListingSource
	area   string
	logger *slog.Logger
}

// New creates a Fetcher restricted to area.
func New(source model.ListingSource, area string, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		source: source,
		area:   area,
		logger: logger,
	}
}

// Fetch runs all stages in order and returns the normalized records.
func (f *Fetcher) Fetch(ctx context.Context, p Params) ([]model.FlatRecord, error) {
	pool, err := f.CollectCandidatePool(ctx, p.Keyword, p.Pages)
	if err != nil {
		return nil, err
	}

	employerIDs := SelectMultiListingEmployers(pool, p.MinListings, p.MaxEmployers)

	listings, err := f.FetchListingsForEmployers(ctx, employerIDs)
	if err != nil {
		return nil, err
	}

	records, dropped := Normalize(listings)
	if dropped > 0 {
		f.logger.Warn("dropped listings without usable keys", "dropped", dropped)
	}

	f.logger.Info("fetched listings",
		"keyword", p.Keyword,
		"candidates", len(pool),
		"employers", len(employerIDs),
		"listings", len(listings),
		"records", len(records),
	)
	return records, nil
}

// CollectCandidatePool searches pages [0, pages) for keyword and concatenates
// the results in page order.
func (f *Fetcher) CollectCandidatePool(ctx context.Context, keyword string, pages int) ([]model.RawListing, error) {
	var pool []model.RawListing
	for page := 0; page < pages; page++ {
		listings, err := f.source.SearchListings(ctx, keyword, f.area, page)
		if err != nil {
			return nil, fmt.Errorf("collecting candidate pool: %w", err)
		}
		f.logger.Debug("fetched search page", "keyword", keyword, "page", page, "count", len(listings))
		pool = append(pool, listings...)
	}
	return pool, nil
}

// SelectMultiListingEmployers returns the IDs of employers with at least
// minCount listings in pool, in order of first appearance, capped at
// maxEmployers. Listings without an employer ID are not counted.
func SelectMultiListingEmployers(pool []model.RawListing, minCount, maxEmployers int) []string {
	counts := make(map[string]int)
	var order []string
	for _, l := range pool {
		if l.Employer == nil || l.Employer.ID == "" {
			continue
		}
		id := l.Employer.ID
		if _, ok := counts[id]; !ok {
			order = append(order, id)
		}
		counts[id]++
	}

	var selected []string
	for _, id := range order {
		if len(selected) >= maxEmployers {
			break
		}
		if counts[id] >= minCount {
			selected = append(selected, id)
		}
	}
	return selected
}

// FetchListingsForEmployers fetches the first page of listings for each
// employer and concatenates them in employer order.
func (f *Fetcher) FetchListingsForEmployers(ctx context.Context, employerIDs []string) ([]model.RawListing, error) {
	var all []model.RawListing
	for _, id := range employerIDs {
		listings, err := f.source.EmployerListings(ctx, id, f.area)
		if err != nil {
			return nil, fmt.Errorf("fetching employer listings: %w", err)
		}
		f.logger.Debug("fetched employer listings", "employer_id", id, "count", len(listings))
		all = append(all, listings...)
	}
	return all, nil
}

// Normalize maps raw listings to flat records. Listings without an ID, or
// whose employer has neither an ID nor a name, are dropped; the number
// dropped is returned alongside the records.
func Normalize(listings []model.RawListing) ([]model.FlatRecord, int) {
	records := make([]model.FlatRecord, 0, len(listings))
	dropped := 0
	for _, l := range listings {
		employerID, employerName, ok := employerKey(l.Employer)
		if !ok || l.ID == "" {
			dropped++
			continue
		}
		records = append(records, model.FlatRecord{
			EmployerID:    employerID,
			EmployerName:  employerName,
			ListingID:     l.ID,
			ListingTitle:  l.Name,
			ListingSalary: salaryOf(l.Salary),
			ListingURL:    l.URL,
		})
	}
	return records, dropped
}

// employerKey resolves the stored employer key and name. A missing ID is
// replaced by a name-derived UUID so every listing of that employer shares it.
func employerKey(e *model.RawEmployer) (id, name string, ok bool) {
	if e == nil {
		return "", "", false
	}
	name = e.Name
	if name == "" {
		name = model.NotSpecified
	}
	if e.ID != "" {
		return e.ID, name, true
	}
	if e.Name == "" {
		return "", "", false
	}
	return uuid.NewSHA1(employerNamespace, []byte(e.Name)).String(), name, true
}

func salaryOf(s *model.RawSalary) model.Salary {
	if s == nil || s.From == nil {
		return model.UnspecifiedSalary()
	}
	if sal := model.KnownSalary(*s.From); sal.Valid() {
		return sal
	}
	return model.UnspecifiedSalary()
}
