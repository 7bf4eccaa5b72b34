package store

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"testing"

	"github.com/amishk599/jobstat/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, _ := newTestStoreAt(t)
	return s
}

func newTestStoreAt(t *testing.T) (*Store, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(DriverSQLite, dbPath, discardLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, dbPath
}

func record(employerID, employerName, listingID, title string, salary model.Salary) model.FlatRecord {
	return model.FlatRecord{
		EmployerID:    employerID,
		EmployerName:  employerName,
		ListingID:     listingID,
		ListingTitle:  title,
		ListingSalary: salary,
		ListingURL:    "https://hh.ru/vacancy/" + listingID,
	}
}

func sampleRecords() []model.FlatRecord {
	return []model.FlatRecord{
		record("e1", "Acme", "l1", "Intern Engineer", model.KnownSalary(100000)),
		record("e1", "Acme", "l2", "Senior Engineer", model.KnownSalary(200000)),
		record("e2", "Beta", "l3", "Senior Engineer", model.UnspecifiedSalary()),
	}
}

func mustLoad(t *testing.T, s *Store, records []model.FlatRecord) {
	t.Helper()
	if err := s.Load(context.Background(), records); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func listingIDs(views []model.ListingView) []string {
	var ids []string
	for _, v := range views {
		ids = append(ids, v.ListingID)
	}
	return ids
}

func TestNew_RejectsUnknownDriver(t *testing.T) {
	if _, err := New("mysql", "whatever", discardLogger()); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
	if _, err := New(DriverSQLite, "", discardLogger()); err == nil {
		t.Fatal("expected error for empty dsn")
	}
}

func TestCompaniesWithListingCounts(t *testing.T) {
	s := newTestStore(t)
	mustLoad(t, s, sampleRecords())

	got, err := s.CompaniesWithListingCounts(context.Background())
	if err != nil {
		t.Fatalf("CompaniesWithListingCounts: %v", err)
	}
	want := []model.EmployerCount{
		{EmployerID: "e1", EmployerName: "Acme", ListingCount: 2},
		{EmployerID: "e2", EmployerName: "Beta", ListingCount: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d companies, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("company %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestAllListings_JoinsEmployerAndRestoresSalary(t *testing.T) {
	s := newTestStore(t)
	mustLoad(t, s, sampleRecords())

	got, err := s.AllListings(context.Background())
	if err != nil {
		t.Fatalf("AllListings: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 listings, got %d", len(got))
	}

	byID := make(map[string]model.ListingView)
	for _, v := range got {
		byID[v.ListingID] = v
	}
	l1 := byID["l1"]
	if l1.EmployerName != "Acme" || l1.Title != "Intern Engineer" || l1.URL != "https://hh.ru/vacancy/l1" {
		t.Errorf("unexpected l1: %+v", l1)
	}
	if amount, ok := l1.Salary.Amount(); !ok || amount != 100000 {
		t.Errorf("l1 salary = %v, want 100000", l1.Salary)
	}
	if byID["l3"].Salary.IsKnown() {
		t.Errorf("l3 salary = %v, want unspecified", byID["l3"].Salary)
	}
}

func TestLoad_ReplacesPreviousData(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustLoad(t, s, sampleRecords())
	mustLoad(t, s, []model.FlatRecord{
		record("e9", "Zeta", "l9", "Go Developer", model.KnownSalary(50000)),
	})

	companies, err := s.CompaniesWithListingCounts(ctx)
	if err != nil {
		t.Fatalf("CompaniesWithListingCounts: %v", err)
	}
	if len(companies) != 1 || companies[0].EmployerID != "e9" || companies[0].ListingCount != 1 {
		t.Errorf("companies after reload = %+v", companies)
	}

	listings, err := s.AllListings(ctx)
	if err != nil {
		t.Fatalf("AllListings: %v", err)
	}
	if ids := listingIDs(listings); len(ids) != 1 || ids[0] != "l9" {
		t.Errorf("listings after reload = %v, want [l9]", ids)
	}
}

func TestLoad_IgnoresDuplicateListings(t *testing.T) {
	s := newTestStore(t)
	records := []model.FlatRecord{
		record("e1", "Acme", "l1", "First", model.KnownSalary(1)),
		record("e1", "Acme", "l1", "Second", model.KnownSalary(2)),
	}
	mustLoad(t, s, records)

	got, err := s.AllListings(context.Background())
	if err != nil {
		t.Fatalf("AllListings: %v", err)
	}
	if len(got) != 1 || got[0].Title != "First" {
		t.Errorf("listings = %+v, want only the first copy", got)
	}
}

func TestLoad_EmptyBatchClearsTables(t *testing.T) {
	s := newTestStore(t)
	mustLoad(t, s, sampleRecords())
	mustLoad(t, s, nil)

	companies, err := s.CompaniesWithListingCounts(context.Background())
	if err != nil {
		t.Fatalf("CompaniesWithListingCounts: %v", err)
	}
	if len(companies) != 0 {
		t.Errorf("expected no companies, got %+v", companies)
	}
}

func TestLoad_InvalidRecordLeavesDataIntact(t *testing.T) {
	s := newTestStore(t)
	mustLoad(t, s, sampleRecords())

	bad := append(sampleRecords()[:1], record("", "Nameless", "l7", "Ghost", model.UnspecifiedSalary()))
	err := s.Load(context.Background(), bad)
	if !errors.Is(err, model.ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}

	got, err := s.AllListings(context.Background())
	if err != nil {
		t.Fatalf("AllListings: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected previous 3 listings to survive, got %d", len(got))
	}
}

func TestLoad_RejectsOutOfRangeSalary(t *testing.T) {
	tests := []struct {
		name   string
		salary model.Salary
	}{
		{"negative", model.KnownSalary(-5000)},
		{"NaN", model.KnownSalary(math.NaN())},
		{"infinite", model.KnownSalary(math.Inf(1))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			mustLoad(t, s, sampleRecords())

			batch := append(sampleRecords(), record("e3", "Gamma", "l9", "Analyst", tt.salary))
			err := s.Load(context.Background(), batch)
			if !errors.Is(err, model.ErrInvalidRecord) {
				t.Fatalf("expected ErrInvalidRecord, got %v", err)
			}

			avg, err := s.AverageSalary(context.Background())
			if err != nil {
				t.Fatalf("AverageSalary: %v", err)
			}
			if avg != 150000 {
				t.Errorf("average = %v, want 150000 from the earlier load", avg)
			}
		})
	}
}

func TestLoad_StatementFailureRollsBack(t *testing.T) {
	s, dbPath := newTestStoreAt(t)
	mustLoad(t, s, sampleRecords())

	// Make one insert fail after the tables have been cleared.
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_, err = db.Exec(`CREATE TRIGGER reject_l9 BEFORE INSERT ON listings
WHEN NEW.listing_id = 'l9'
BEGIN SELECT RAISE(ABORT, 'listing rejected'); END`)
	db.Close()
	if err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	batch := []model.FlatRecord{
		record("e5", "Delta", "l8", "Engineer", model.KnownSalary(90000)),
		record("e5", "Delta", "l9", "Engineer", model.KnownSalary(95000)),
	}
	err = s.Load(context.Background(), batch)
	if err == nil {
		t.Fatal("expected the trigger to fail the load")
	}
	if errors.Is(err, model.ErrInvalidRecord) {
		t.Fatalf("expected a database error, got %v", err)
	}

	companies, err := s.CompaniesWithListingCounts(context.Background())
	if err != nil {
		t.Fatalf("CompaniesWithListingCounts: %v", err)
	}
	want := []model.EmployerCount{
		{EmployerID: "e1", EmployerName: "Acme", ListingCount: 2},
		{EmployerID: "e2", EmployerName: "Beta", ListingCount: 1},
	}
	if len(companies) != len(want) {
		t.Fatalf("companies = %+v, want %+v", companies, want)
	}
	for i := range want {
		if companies[i] != want[i] {
			t.Errorf("companies[%d] = %+v, want %+v", i, companies[i], want[i])
		}
	}

	got, err := s.AllListings(context.Background())
	if err != nil {
		t.Fatalf("AllListings: %v", err)
	}
	if ids := listingIDs(got); len(ids) != 3 || ids[0] != "l1" || ids[1] != "l2" || ids[2] != "l3" {
		t.Errorf("listings = %v, want the earlier l1 l2 l3", ids)
	}
}

func TestAverageSalary_IgnoresSentinel(t *testing.T) {
	s := newTestStore(t)
	mustLoad(t, s, sampleRecords())

	avg, err := s.AverageSalary(context.Background())
	if err != nil {
		t.Fatalf("AverageSalary: %v", err)
	}
	if avg != 150000 {
		t.Errorf("AverageSalary() = %v, want 150000", avg)
	}
}

func TestAverageSalary_NoData(t *testing.T) {
	s := newTestStore(t)
	mustLoad(t, s, []model.FlatRecord{
		record("e1", "Acme", "l1", "Engineer", model.UnspecifiedSalary()),
	})

	_, err := s.AverageSalary(context.Background())
	if !errors.Is(err, model.ErrNoSalaryData) {
		t.Fatalf("expected ErrNoSalaryData, got %v", err)
	}
}

func TestListingsAboveSalary(t *testing.T) {
	s := newTestStore(t)
	mustLoad(t, s, sampleRecords())

	got, err := s.ListingsAboveSalary(context.Background(), 150000)
	if err != nil {
		t.Fatalf("ListingsAboveSalary: %v", err)
	}
	if ids := listingIDs(got); len(ids) != 1 || ids[0] != "l2" {
		t.Errorf("ListingsAboveSalary(150000) = %v, want [l2]", ids)
	}

	// Strictly greater than.
	got, err = s.ListingsAboveSalary(context.Background(), 200000)
	if err != nil {
		t.Fatalf("ListingsAboveSalary: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ListingsAboveSalary(200000) = %v, want none", listingIDs(got))
	}
}

func TestListingsMatchingKeyword(t *testing.T) {
	s := newTestStore(t)
	mustLoad(t, s, append(sampleRecords(),
		record("e2", "Beta", "l4", "C_Sharp 100% Remote", model.UnspecifiedSalary()),
	))

	tests := []struct {
		keyword string
		want    []string
	}{
		{"Intern", []string{"l1"}},
		{"intern", nil},
		{"Engineer", []string{"l1", "l2", "l3"}},
		{"%", []string{"l4"}},
		{"_", []string{"l4"}},
		{"Nobody", nil},
	}
	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			got, err := s.ListingsMatchingKeyword(context.Background(), tt.keyword)
			if err != nil {
				t.Fatalf("ListingsMatchingKeyword: %v", err)
			}
			ids := listingIDs(got)
			if len(ids) != len(tt.want) {
				t.Fatalf("ListingsMatchingKeyword(%q) = %v, want %v", tt.keyword, ids, tt.want)
			}
			for i := range ids {
				if ids[i] != tt.want[i] {
					t.Errorf("ListingsMatchingKeyword(%q) = %v, want %v", tt.keyword, ids, tt.want)
					break
				}
			}
		})
	}
}

func TestQueries_FailBeforeFirstLoad(t *testing.T) {
	s := newTestStore(t)

	got, err := s.AllListings(context.Background())
	if err == nil {
		t.Fatal("expected error querying missing tables")
	}
	if got != nil {
		t.Errorf("expected nil result on error, got %+v", got)
	}
}

func TestRebind(t *testing.T) {
	pg := &Store{driver: DriverPostgres}
	if got := pg.rebind("a = ? AND b > ?"); got != "a = $1 AND b > $2" {
		t.Errorf("postgres rebind = %q", got)
	}
	lite := &Store{driver: DriverSQLite}
	if got := lite.rebind("a = ?"); got != "a = ?" {
		t.Errorf("sqlite rebind = %q", got)
	}
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike(`50%_off\`); got != `50\%\_off\\` {
		t.Errorf("escapeLike = %q", got)
	}
}
