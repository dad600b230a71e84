package rank

import (
	"sort"
	"time"

	"jobradar-engine/internal/domain"
)

// recentWindow is the cutoff for the recency re-sort phase of the mix.
const recentWindow = 24 * time.Hour

// MixTiers produces the feed ordering from a scored, deduplicated
// collection:
//
//  1. partition by tier and sort each partition by score (stable),
//  2. take floor(0.7N)/floor(0.2N)/floor(0.1N) from tiers 1/2/3 — an
//     under-filled tier is NOT backfilled from the others, so the result
//     may hold fewer than N listings,
//  3. concatenate tier1, tier2, tier3,
//  4. pull listings newer than 24h to the front, newest first; everything
//     older keeps its tier-grouped order.
//
// Tier priority decides who gets in; recency decides who leads.
func MixTiers(listings []domain.JobListing, now time.Time) []domain.JobListing {
	n := len(listings)
	if n == 0 {
		return nil
	}

	var tier1, tier2, tier3 []domain.JobListing
	for _, l := range listings {
		switch l.CompanyTier {
		case 1:
			tier1 = append(tier1, l)
		case 2:
			tier2 = append(tier2, l)
		default:
			tier3 = append(tier3, l)
		}
	}

	byScore := func(xs []domain.JobListing) {
		sort.SliceStable(xs, func(i, j int) bool { return xs[i].MatchScore > xs[j].MatchScore })
	}
	byScore(tier1)
	byScore(tier2)
	byScore(tier3)

	mixed := make([]domain.JobListing, 0, n)
	mixed = append(mixed, take(tier1, n*7/10)...)
	mixed = append(mixed, take(tier2, n*2/10)...)
	mixed = append(mixed, take(tier3, n/10)...)

	cutoff := now.Add(-recentWindow)
	var recent, older []domain.JobListing
	for _, l := range mixed {
		if l.PostedAt.After(cutoff) {
			recent = append(recent, l)
		} else {
			older = append(older, l)
		}
	}
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].PostedAt.After(recent[j].PostedAt) })

	return append(recent, older...)
}

func take(xs []domain.JobListing, quota int) []domain.JobListing {
	if quota > len(xs) {
		quota = len(xs)
	}
	return xs[:quota]
}
