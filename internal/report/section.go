// Package report presents the query results of a run.
package report

import (
	"fmt"
	"strconv"

	"github.com/amishk599/jobstat/internal/model"
)

// Section is one query result laid out as a table.
type Section struct {
	Title   string
	Columns []string
	Rows    [][]string
}

var listingColumns = []string{"ID", "Employer", "Title", "Salary", "URL"}

// Sections lays out r in query order: companies, all listings, average salary,
// listings above the average and keyword matches.
func Sections(r model.Report) []Section {
	avgRow := []string{"no salary data"}
	if r.HasAverage {
		avgRow = []string{FormatAmount(r.AverageSalary)}
	}

	companies := Section{
		Title:   "Companies",
		Columns: []string{"Employer ID", "Employer", "Listings"},
	}
	for _, c := range r.Companies {
		companies.Rows = append(companies.Rows, []string{c.EmployerID, c.EmployerName, strconv.Itoa(c.ListingCount)})
	}

	return []Section{
		companies,
		listingSection("All listings", r.Listings),
		{Title: "Average salary", Columns: []string{"Average"}, Rows: [][]string{avgRow}},
		listingSection("Above average salary", r.AboveAverage),
		listingSection(fmt.Sprintf("Title contains %q", r.Keyword), r.KeywordMatches),
	}
}

func listingSection(title string, views []model.ListingView) Section {
	s := Section{Title: title, Columns: listingColumns}
	for _, v := range views {
		s.Rows = append(s.Rows, []string{v.ListingID, v.EmployerName, v.Title, v.Salary.String(), v.URL})
	}
	return s
}

// FormatAmount renders a salary average with two decimals.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// RecordsSection lays out fetched records before they are stored.
func RecordsSection(records []model.FlatRecord) Section {
	s := Section{
		Title:   "Fetched listings",
		Columns: []string{"Employer ID", "Employer", "ID", "Title", "Salary"},
	}
	for _, r := range records {
		s.Rows = append(s.Rows, []string{r.EmployerID, r.EmployerName, r.ListingID, r.ListingTitle, r.ListingSalary.String()})
	}
	return s
}
