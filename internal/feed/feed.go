// Package feed filters, mixes, and paginates the persisted collection for
// consumers, with conditional-fetch freshness tokens.
package feed

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"jobradar-engine/internal/domain"
	"jobradar-engine/internal/normalize"
	"jobradar-engine/internal/rank"
	"jobradar-engine/internal/store"
	"jobradar-engine/internal/util"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Query is one feed request after validation.
type Query struct {
	Limit    int
	Offset   int
	Since    time.Time
	Search   string
	Location string
	Company  string
	Status   string
	Tier     int
	Owner    string
}

// ParseQuery validates raw URL parameters. Unparsable or negative numbers
// are an error the HTTP layer reports as a structured 400; limit is capped
// at MaxLimit rather than rejected.
func ParseQuery(values url.Values) (Query, error) {
	q := Query{Limit: DefaultLimit, Owner: values.Get("owner")}

	if raw := values.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return q, fmt.Errorf("invalid limit %q", raw)
		}
		q.Limit = min(n, MaxLimit)
	}
	if raw := values.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return q, fmt.Errorf("invalid offset %q", raw)
		}
		q.Offset = n
	}
	if raw := values.Get("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return q, fmt.Errorf("invalid since %q", raw)
		}
		q.Since = t
	}
	if raw := values.Get("tier"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 3 {
			return q, fmt.Errorf("invalid tier %q", raw)
		}
		q.Tier = n
	}

	q.Search = values.Get("search")
	q.Location = values.Get("location")
	q.Company = values.Get("company")
	q.Status = values.Get("status")
	if q.Status != "" && !domain.ValidStatus(q.Status) {
		return q, fmt.Errorf("invalid status %q", q.Status)
	}

	return q, nil
}

// Response is the feed body for one page.
type Response struct {
	Listings    []domain.JobListing `json:"listings"`
	Total       int                 `json:"total"`
	HasMore     bool                `json:"hasMore"`
	LastUpdated time.Time           `json:"lastUpdated"`
	Stats       domain.TierStats    `json:"stats"`
}

type Service struct {
	DB *sql.DB
}

// Feed loads the owner's filtered listings, applies the tier mix, and
// slices out one page. The returned token identifies this exact state of
// the collection; a client replaying it gets a not-modified answer.
func (s *Service) Feed(ctx context.Context, q Query) (Response, string, error) {
	rows, err := store.List(ctx, s.DB, store.ListOpts{
		Owner:    q.Owner,
		Since:    q.Since,
		Search:   q.Search,
		Location: q.Location,
		Company:  q.Company,
		Status:   q.Status,
		Tier:     q.Tier,
	})
	if err != nil {
		return Response{}, "", fmt.Errorf("feed query: %w", err)
	}

	now := time.Now().UTC()
	mixed := rank.MixTiers(rows, now)

	var lastUpdated time.Time
	for _, l := range mixed {
		if l.PostedAt.After(lastUpdated) {
			lastUpdated = l.PostedAt
		}
	}
	token := Token(lastUpdated, len(mixed))

	page := paginate(mixed, q.Offset, q.Limit)
	for i := range page {
		page[i].PostedDelta = normalize.Delta(page[i].PostedAt, now)
	}

	return Response{
		Listings:    page,
		Total:       len(mixed),
		HasMore:     q.Offset+q.Limit < len(mixed),
		LastUpdated: lastUpdated,
		Stats:       domain.CountTiers(mixed),
	}, token, nil
}

// Token derives the opaque freshness token from the newest listing
// timestamp and the collection size.
func Token(lastUpdated time.Time, total int) string {
	return util.HashString(fmt.Sprintf("%d:%d", lastUpdated.UnixNano(), total))
}

func paginate(xs []domain.JobListing, offset, limit int) []domain.JobListing {
	if offset >= len(xs) {
		return []domain.JobListing{}
	}
	end := min(offset+limit, len(xs))
	return xs[offset:end]
}
