package model

import "context"

// RawListing is a listing as returned by a job-search API, before normalization.
type RawListing struct {
	ID       string
	Name     string
	URL      string
	Employer *RawEmployer // nil when the API omits the employer
	Salary   *RawSalary   // nil when the API omits the salary
}

// RawEmployer is the employer block of a RawListing.
type RawEmployer struct {
	ID   string
	Name string
}

// RawSalary is the salary block of a RawListing.
type RawSalary struct {
	From *float64 // lower bound, nil if absent
}

// FlatRecord is one normalized listing together with its employer. It is the
// unit handed from the fetch stage to the store.
type FlatRecord struct {
	EmployerID    string `json:"employer_id"`
	EmployerName  string `json:"employer_name"`
	ListingID     string `json:"listing_id"`
	ListingTitle  string `json:"listing_title"`
	ListingSalary Salary `json:"listing_salary"`
	ListingURL    string `json:"listing_url"`
}

// EmployerCount is one row of the companies report.
type EmployerCount struct {
	EmployerID   string
	EmployerName string
	ListingCount int
}

// ListingView is a stored listing joined with its employer's name.
type ListingView struct {
	ListingID    string
	EmployerName string
	Title        string
	Salary       Salary
	URL          string
}

// Report holds the results of the analytical queries of one run.
type Report struct {
	Companies      []EmployerCount
	Listings       []ListingView
	AverageSalary  float64
	HasAverage     bool
	AboveAverage   []ListingView
	Keyword        string
	KeywordMatches []ListingView
}

// ListingSource is a job-search provider. Implementations return one page of
// results per call.
type ListingSource interface {
	// SearchListings returns page `page` of listings whose title matches text
	// within the given area.
	SearchListings(ctx context.Context, text, area string, page int) ([]RawListing, error)
	// EmployerListings returns the first page of an employer's listings
	// within the given area.
	EmployerListings(ctx context.Context, employerID, area string) ([]RawListing, error)
}

// ListingStore persists flat records and answers the analytical queries.
type ListingStore interface {
	Load(ctx context.Context, records []FlatRecord) error
	CompaniesWithListingCounts(ctx context.Context) ([]EmployerCount, error)
	AllListings(ctx context.Context) ([]ListingView, error)
	AverageSalary(ctx context.Context) (float64, error)
	ListingsAboveSalary(ctx context.Context, threshold float64) ([]ListingView, error)
	ListingsMatchingKeyword(ctx context.Context, keyword string) ([]ListingView, error)
}

// Reporter presents the results of a run.
type Reporter interface {
	Report(r Report) error
}
