package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"jobradar-engine/internal/domain"
)

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS listings (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  listing_id TEXT NOT NULL,
  owner TEXT NOT NULL DEFAULT '',
  title TEXT NOT NULL,
  company TEXT NOT NULL,
  company_tier INTEGER NOT NULL DEFAULT 3,
  location TEXT NOT NULL,
  salary_range TEXT NOT NULL DEFAULT '',
  url TEXT NOT NULL,
  posted_at TEXT NOT NULL,
  snippet TEXT NOT NULL DEFAULT '',
  requirements TEXT NOT NULL DEFAULT '[]',
  source TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'new',
  match_score INTEGER NOT NULL DEFAULT 0
);
`); err != nil {
		return err
	}

	// The url is the dedupe key, scoped per owner.
	if _, err := tx.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_listings_owner_url
ON listings(owner, url);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_listings_posted_at
ON listings(posted_at);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}

// InsertIfAbsent persists candidate listings for an owner, inserting only
// urls not already present. Existing rows get their match_score refreshed
// since the scorer recomputes it every pass. Returns how many rows were
// actually new.
func InsertIfAbsent(ctx context.Context, db *sql.DB, listings []domain.JobListing, owner string) (added int, err error) {
	for _, l := range listings {
		if strings.TrimSpace(l.URL) == "" {
			continue
		}
		reqsB, _ := json.Marshal(l.Requirements)

		res, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO listings
  (listing_id, owner, title, company, company_tier, location, salary_range,
   url, posted_at, snippet, requirements, source, status, match_score)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?);`,
			l.ID, owner, l.Title, l.Company, l.CompanyTier, l.Location, l.SalaryRange,
			l.URL, l.PostedAt.UTC().Format(time.RFC3339), l.Snippet, string(reqsB),
			l.Source, l.Status, l.MatchScore,
		)
		if err != nil {
			return added, fmt.Errorf("insert listing %s: %w", l.URL, err)
		}
		n, _ := res.RowsAffected()
		if n > 0 {
			added++
			continue
		}
		_, _ = db.ExecContext(ctx, `
UPDATE listings SET match_score = ?
WHERE owner = ? AND url = ?;`,
			l.MatchScore, owner, l.URL,
		)
	}
	return added, nil
}

// ListOpts filters the persisted collection for one feed query. Zero
// values mean "no filter".
type ListOpts struct {
	Owner    string
	Since    time.Time
	Search   string
	Location string
	Company  string
	Status   string
	Tier     int
}

// List returns the owner's listings newest-first after filtering. The
// feed layer owns mixing and pagination on top of this.
func List(ctx context.Context, db *sql.DB, opts ListOpts) ([]domain.JobListing, error) {
	where := []string{"owner = ?"}
	args := []any{opts.Owner}

	if !opts.Since.IsZero() {
		where = append(where, "posted_at > ?")
		args = append(args, opts.Since.UTC().Format(time.RFC3339))
	}
	if s := strings.TrimSpace(opts.Search); s != "" {
		where = append(where, "(title LIKE ? OR company LIKE ? OR snippet LIKE ?)")
		pat := "%" + s + "%"
		args = append(args, pat, pat, pat)
	}
	if l := strings.TrimSpace(opts.Location); l != "" {
		where = append(where, "location LIKE ?")
		args = append(args, "%"+l+"%")
	}
	if c := strings.TrimSpace(opts.Company); c != "" {
		where = append(where, "company LIKE ?")
		args = append(args, "%"+c+"%")
	}
	if st := strings.TrimSpace(opts.Status); st != "" {
		where = append(where, "status = ?")
		args = append(args, st)
	}
	if opts.Tier >= 1 && opts.Tier <= 3 {
		where = append(where, "company_tier = ?")
		args = append(args, opts.Tier)
	}

	query := fmt.Sprintf(`
SELECT listing_id, title, company, company_tier, location, salary_range,
       url, posted_at, snippet, requirements, source, status, match_score
FROM listings
WHERE %s
ORDER BY posted_at DESC;`, strings.Join(where, " AND "))

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.JobListing
	for rows.Next() {
		var l domain.JobListing
		var reqsJSON, postedStr string
		if err := rows.Scan(
			&l.ID, &l.Title, &l.Company, &l.CompanyTier, &l.Location, &l.SalaryRange,
			&l.URL, &postedStr, &l.Snippet, &reqsJSON, &l.Source, &l.Status, &l.MatchScore,
		); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(reqsJSON), &l.Requirements)
		l.PostedAt, _ = time.Parse(time.RFC3339, postedStr)
		out = append(out, l)
	}
	return out, rows.Err()
}

// ExistingURLs returns the owner's already-persisted url set, for callers
// that want to pre-check before building candidates.
func ExistingURLs(ctx context.Context, db *sql.DB, owner string) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT url FROM listings WHERE owner = ?;`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seen := map[string]bool{}
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		seen[u] = true
	}
	return seen, rows.Err()
}

// UpdateStatus moves one listing through its lifecycle. Returns false when
// no such listing exists for the owner.
func UpdateStatus(ctx context.Context, db *sql.DB, owner, listingID, status string) (bool, error) {
	res, err := db.ExecContext(ctx, `
UPDATE listings SET status = ?
WHERE owner = ? AND listing_id = ?;`,
		status, owner, listingID,
	)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func DeleteListing(ctx context.Context, db *sql.DB, owner, listingID string) (bool, error) {
	res, err := db.ExecContext(ctx, `
DELETE FROM listings WHERE owner = ? AND listing_id = ?;`, owner, listingID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// CleanupOldListings drops rows older than three months.
func CleanupOldListings(db *sql.DB) (deleted int64, err error) {
	res, err := db.Exec(`
DELETE FROM listings
WHERE posted_at < datetime('now', '-3 months');`)
	if err != nil {
		return 0, fmt.Errorf("cleanup old listings: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
