package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/amishk599/jobstat/internal/model"
)

const hhBaseURL = "https://api.hh.ru/vacancies"

// hhVacancy represents a single item in the HeadHunter vacancies response.
type hhVacancy struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	URL          string      `json:"url"`
	AlternateURL string      `json:"alternate_url"`
	Employer     *hhEmployer `json:"employer"`
	Salary       *hhSalary   `json:"salary"`
}

type hhEmployer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type hhSalary struct {
	From     *float64 `json:"from"`
	To       *float64 `json:"to"`
	Currency string   `json:"currency"`
}

// hhResponse is the top-level HeadHunter vacancies response.
type hhResponse struct {
	Items   []hhVacancy `json:"items"`
	Found   int         `json:"found"`
	Pages   int         `json:"pages"`
	Page    int         `json:"page"`
	PerPage int         `json:"per_page"`
}

// HHAdapter queries the public HeadHunter vacancies API.
type HHAdapter struct {
	baseURL   string
	perPage   int
	userAgent string
	client    *http.Client
}

var _ model.ListingSource = (*HHAdapter)(nil)

// NewHHAdapter creates an adapter. An empty baseURL selects the public API.
func NewHHAdapter(baseURL string, perPage int, userAgent string, client *http.Client) *HHAdapter {
	if baseURL == "" {
		baseURL = hhBaseURL
	}
	return &HHAdapter{
		baseURL:   baseURL,
		perPage:   perPage,
		userAgent: userAgent,
		client:    client,
	}
}

// SearchListings returns one page of vacancies whose name contains text.
func (a *HHAdapter) SearchListings(ctx context.Context, text, area string, page int) ([]model.RawListing, error) {
	params := url.Values{}
	params.Set("text", "NAME:"+text)
	params.Set("area", area)
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(a.perPage))

	listings, err := a.get(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("hh search %q page %d: %w", text, page, err)
	}
	return listings, nil
}

// EmployerListings returns the first page of vacancies posted by employerID.
func (a *HHAdapter) EmployerListings(ctx context.Context, employerID, area string) ([]model.RawListing, error) {
	params := url.Values{}
	params.Set("employer_id", employerID)
	params.Set("area", area)
	params.Set("per_page", strconv.Itoa(a.perPage))

	listings, err := a.get(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("hh employer %s listings: %w", employerID, err)
	}
	return listings, nil
}

func (a *HHAdapter) get(ctx context.Context, params url.Values) ([]model.RawListing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if a.userAgent != "" {
		// HeadHunter rejects requests without an identifying agent.
		req.Header.Set("User-Agent", a.userAgent)
		req.Header.Set("HH-User-Agent", a.userAgent)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var hhResp hhResponse
	if err := json.NewDecoder(resp.Body).Decode(&hhResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	listings := make([]model.RawListing, 0, len(hhResp.Items))
	for _, v := range hhResp.Items {
		listings = append(listings, toRawListing(v))
	}
	return listings, nil
}

func toRawListing(v hhVacancy) model.RawListing {
	l := model.RawListing{
		ID:   v.ID,
		Name: v.Name,
		URL:  v.AlternateURL,
	}
	if l.URL == "" {
		l.URL = v.URL
	}
	if v.Employer != nil {
		l.Employer = &model.RawEmployer{ID: v.Employer.ID, Name: v.Employer.Name}
	}
	if v.Salary != nil {
		l.Salary = &model.RawSalary{From: v.Salary.From}
	}
	return l
}
