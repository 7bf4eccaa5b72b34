// Package store persists flat records in a two-table relational schema and
// answers the analytical queries over it.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/amishk599/jobstat/internal/model"
)

// Supported values for the database driver setting.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// sqlitePragmas turns on foreign keys and case-sensitive LIKE for every
// connection modernc.org/sqlite opens.
const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=case_sensitive_like(1)"

type opener func(ctx context.Context) (*sql.DB, error)

// Store reaches the database through database/sql. Every operation opens its
// own connection and closes it before returning.
type Store struct {
	driver string
	open   opener
	logger *slog.Logger
}

var _ model.ListingStore = (*Store)(nil)

// New creates a Store for driver ("postgres" or "sqlite") and dsn. No
// connection is made until the first operation.
func New(driver, dsn string, logger *slog.Logger) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("store: empty dsn")
	}

	var driverName string
	switch driver {
	case DriverPostgres:
		driverName = "pgx"
	case DriverSQLite:
		driverName = "sqlite"
		dsn = sqliteDSN(dsn)
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", driver)
	}

	return &Store{
		driver: driver,
		open:   sqlOpener(driverName, dsn),
		logger: logger,
	}, nil
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&" + sqlitePragmas
	}
	return path + "?" + sqlitePragmas
}

func sqlOpener(driverName, dsn string) opener {
	return func(ctx context.Context) (*sql.DB, error) {
		db, err := sql.Open(driverName, dsn)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		db.SetMaxOpenConns(1)

		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("pinging database: %w", err)
		}
		return db, nil
	}
}

// rebind rewrites ? placeholders into the driver's form.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Load replaces the stored data with records in a single transaction. Records
// are validated before the database is touched; any failure afterwards rolls
// the whole batch back.
func (s *Store) Load(ctx context.Context, records []model.FlatRecord) error {
	for i, rec := range records {
		if rec.EmployerID == "" || rec.ListingID == "" || !rec.ListingSalary.Valid() {
			return fmt.Errorf("load: record %d (listing %q, employer %q, salary %s): %w",
				i, rec.ListingID, rec.EmployerID, rec.ListingSalary, model.ErrInvalidRecord)
		}
	}

	db, err := s.open(ctx)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("load: begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range []string{createEmployersTable, createListingsTable, clearListings, clearEmployers} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("load: prepare tables: %w", err)
		}
	}

	employerSQL := s.rebind(insertEmployer)
	listingSQL := s.rebind(insertListing)
	for _, rec := range records {
		if _, err := tx.ExecContext(ctx, employerSQL, rec.EmployerID, rec.EmployerName); err != nil {
			return fmt.Errorf("load: insert employer %s: %w", rec.EmployerID, err)
		}
		if _, err := tx.ExecContext(ctx, listingSQL,
			rec.ListingID, rec.ListingTitle, rec.ListingSalary.String(), rec.ListingURL, rec.EmployerID,
		); err != nil {
			return fmt.Errorf("load: insert listing %s: %w", rec.ListingID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("load: commit: %w", err)
	}
	committed = true

	s.logger.Info("loaded records", "driver", s.driver, "records", len(records))
	return nil
}

// CompaniesWithListingCounts returns every stored employer with the number of
// listings it has, ordered by employer name then ID.
func (s *Store) CompaniesWithListingCounts(ctx context.Context) ([]model.EmployerCount, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("companies with listing counts: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, selectCompanies)
	if err != nil {
		return nil, fmt.Errorf("companies with listing counts: %w", err)
	}
	defer rows.Close()

	var out []model.EmployerCount
	for rows.Next() {
		var c model.EmployerCount
		if err := rows.Scan(&c.EmployerID, &c.EmployerName, &c.ListingCount); err != nil {
			return nil, fmt.Errorf("companies with listing counts: scan: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("companies with listing counts: %w", err)
	}
	return out, nil
}

// AllListings returns every stored listing with its employer's name.
func (s *Store) AllListings(ctx context.Context) ([]model.ListingView, error) {
	views, err := s.queryListings(ctx, selectAllListings)
	if err != nil {
		return nil, fmt.Errorf("all listings: %w", err)
	}
	return views, nil
}

// AverageSalary returns the mean known salary. It fails with
// model.ErrNoSalaryData when no listing has one.
func (s *Store) AverageSalary(ctx context.Context) (float64, error) {
	db, err := s.open(ctx)
	if err != nil {
		return 0, fmt.Errorf("average salary: %w", err)
	}
	defer db.Close()

	var avg sql.NullFloat64
	if err := db.QueryRowContext(ctx, s.rebind(selectAverageSalary), model.NotSpecified).Scan(&avg); err != nil {
		return 0, fmt.Errorf("average salary: %w", err)
	}
	if !avg.Valid {
		return 0, fmt.Errorf("average salary: %w", model.ErrNoSalaryData)
	}
	return avg.Float64, nil
}

// ListingsAboveSalary returns listings whose known salary is strictly greater
// than threshold.
func (s *Store) ListingsAboveSalary(ctx context.Context, threshold float64) ([]model.ListingView, error) {
	views, err := s.queryListings(ctx, s.rebind(selectListingsAboveSalary), model.NotSpecified, threshold)
	if err != nil {
		return nil, fmt.Errorf("listings above %v: %w", threshold, err)
	}
	return views, nil
}

// ListingsMatchingKeyword returns listings whose title contains keyword,
// compared case-sensitively. LIKE wildcards in keyword match literally.
func (s *Store) ListingsMatchingKeyword(ctx context.Context, keyword string) ([]model.ListingView, error) {
	pattern := "%" + escapeLike(keyword) + "%"
	views, err := s.queryListings(ctx, s.rebind(selectListingsMatchingKeyword), pattern)
	if err != nil {
		return nil, fmt.Errorf("listings matching %q: %w", keyword, err)
	}
	return views, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (s *Store) queryListings(ctx context.Context, query string, args ...any) ([]model.ListingView, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ListingView
	for rows.Next() {
		var (
			v      model.ListingView
			salary string
		)
		if err := rows.Scan(&v.ListingID, &v.EmployerName, &v.Title, &salary, &v.URL); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if v.Salary, err = model.ParseSalary(salary); err != nil {
			return nil, fmt.Errorf("listing %s: %w", v.ListingID, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
