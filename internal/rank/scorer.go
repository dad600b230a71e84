// Package rank scores listings and orders the feed.
package rank

import (
	"strings"
	"time"

	"jobradar-engine/internal/domain"
)

const (
	baseScore       = 50
	keywordBonus    = 5
	keywordBonusCap = 30
)

// hotLocations always win the location bonus, ahead of any caller
// preference.
var hotLocations = []string{"dublin", "ireland", "remote"}

// Score computes the 0-100 match score for one listing. Pure: same inputs,
// same score, which is what makes ranking reproducible and testable.
func Score(l domain.JobListing, keywords, locations []string, now time.Time) int {
	score := baseScore

	switch l.CompanyTier {
	case 1:
		score += 20
	case 2:
		score += 10
	default:
		score += 5
	}

	text := strings.ToLower(l.Title + " " + l.Snippet + " " + strings.Join(l.Requirements, " "))
	kwBonus := 0
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if strings.Contains(text, kw) {
			kwBonus += keywordBonus
			if kwBonus >= keywordBonusCap {
				kwBonus = keywordBonusCap
				break
			}
		}
	}
	score += kwBonus

	score += locationBonus(l.Location, locations)

	age := now.Sub(l.PostedAt)
	switch {
	case age >= 0 && age < time.Hour:
		score += 10
	case age >= 0 && age < 24*time.Hour:
		score += 5
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// locationBonus is two mutually exclusive branches, first match wins:
// a hot location is +15, a caller-preferred substring is +5.
func locationBonus(location string, preferred []string) int {
	loc := strings.ToLower(location)
	for _, hot := range hotLocations {
		if strings.Contains(loc, hot) {
			return 15
		}
	}
	for _, p := range preferred {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if strings.Contains(loc, p) {
			return 5
		}
	}
	return 0
}

// ScoreAll recomputes MatchScore in place for a whole collection.
func ScoreAll(listings []domain.JobListing, keywords, locations []string, now time.Time) {
	for i := range listings {
		listings[i].MatchScore = Score(listings[i], keywords, locations, now)
	}
}
