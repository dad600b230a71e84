package domain

import "time"

// JobListing is the canonical unit every source normalizes into.
// URL is the dedupe key across one aggregation run; ID is stable per
// source+token+native id so re-fetches map to the same row.
type JobListing struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	CompanyTier  int       `json:"companyTier"` // 1..3
	Location     string    `json:"location"`
	SalaryRange  string    `json:"salaryRange,omitempty"`
	URL          string    `json:"url"`
	PostedAt     time.Time `json:"postedAt"`
	PostedDelta  string    `json:"postedDelta"` // derived at read time
	Snippet      string    `json:"snippet"`
	Requirements []string  `json:"requirements"` // <= 8 recognized tags
	Source       string    `json:"source"`
	Status       string    `json:"status"`
	MatchScore   int       `json:"matchScore"` // 0..100, recomputed per pass
}

// TierStats is a derived read-model over a listing collection,
// recomputed on every feed response and never stored.
type TierStats struct {
	Tier1 int `json:"tier1"`
	Tier2 int `json:"tier2"`
	Tier3 int `json:"tier3"`
	Total int `json:"total"`
}

func CountTiers(listings []JobListing) TierStats {
	var st TierStats
	for _, l := range listings {
		switch l.CompanyTier {
		case 1:
			st.Tier1++
		case 2:
			st.Tier2++
		default:
			st.Tier3++
		}
	}
	st.Total = len(listings)
	return st
}
