package store

const createEmployersTable = `CREATE TABLE IF NOT EXISTS employers (
	employer_id   VARCHAR(64) PRIMARY KEY,
	employer_name VARCHAR(255) NOT NULL
)`

const createListingsTable = `CREATE TABLE IF NOT EXISTS listings (
	listing_id     VARCHAR(64) PRIMARY KEY,
	listing_title  VARCHAR(255),
	listing_salary VARCHAR(32) NOT NULL,
	listing_url    VARCHAR(255),
	employer_id    VARCHAR(64) NOT NULL REFERENCES employers(employer_id)
)`

// Listings go first: they reference employers.
const (
	clearListings  = `DELETE FROM listings`
	clearEmployers = `DELETE FROM employers`
)

const insertEmployer = `INSERT INTO employers (employer_id, employer_name)
VALUES (?, ?)
ON CONFLICT DO NOTHING`

const insertListing = `INSERT INTO listings (listing_id, listing_title, listing_salary, listing_url, employer_id)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT DO NOTHING`

const selectCompanies = `SELECT e.employer_id, e.employer_name, COUNT(l.listing_id)
FROM employers e
LEFT JOIN listings l ON l.employer_id = e.employer_id
GROUP BY e.employer_id, e.employer_name
ORDER BY e.employer_name, e.employer_id`

const selectListings = `SELECT l.listing_id, e.employer_name, COALESCE(l.listing_title, ''), l.listing_salary, COALESCE(l.listing_url, '')
FROM listings l
JOIN employers e ON e.employer_id = l.employer_id`

const listingsOrder = `
ORDER BY e.employer_name, l.listing_id`

const selectAllListings = selectListings + listingsOrder

// The CASE keeps the numeric cast away from sentinel rows on engines that
// evaluate the comparison before the filter.
const selectListingsAboveSalary = selectListings + `
WHERE CASE WHEN l.listing_salary <> ? THEN CAST(l.listing_salary AS NUMERIC) END > ?` + listingsOrder

const selectListingsMatchingKeyword = selectListings + `
WHERE l.listing_title LIKE ? ESCAPE '\'` + listingsOrder

const selectAverageSalary = `SELECT CAST(AVG(CAST(listing_salary AS NUMERIC)) AS DOUBLE PRECISION)
FROM listings
WHERE listing_salary <> ?`
