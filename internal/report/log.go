package report

import (
	"log/slog"

	"github.com/amishk599/jobstat/internal/model"
)

var _ model.Reporter = (*LogReporter)(nil)

// LogReporter writes each result row to the given logger as a structured message.
type LogReporter struct {
	logger *slog.Logger
}

// NewLogReporter returns a reporter that logs each row via slog.
func NewLogReporter(logger *slog.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

// Report logs one line per row. Returns nil (logging does not fail).
func (r *LogReporter) Report(rep model.Report) error {
	for _, c := range rep.Companies {
		r.logger.Info("company", "employer_id", c.EmployerID, "employer", c.EmployerName, "listings", c.ListingCount)
	}
	for _, v := range rep.Listings {
		r.logListing("listing", v)
	}

	if rep.HasAverage {
		r.logger.Info("average salary", "average", FormatAmount(rep.AverageSalary))
		for _, v := range rep.AboveAverage {
			r.logListing("above average", v)
		}
	} else {
		r.logger.Info("average salary", "average", "no salary data")
	}

	for _, v := range rep.KeywordMatches {
		r.logListing("keyword match", v, "keyword", rep.Keyword)
	}
	if len(rep.KeywordMatches) == 0 {
		r.logger.Info("no keyword matches", "keyword", rep.Keyword)
	}
	return nil
}

func (r *LogReporter) logListing(msg string, v model.ListingView, extra ...any) {
	args := []any{"id", v.ListingID, "employer", v.EmployerName, "title", v.Title, "salary", v.Salary.String(), "url", v.URL}
	r.logger.Info(msg, append(args, extra...)...)
}
