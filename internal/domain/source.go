package domain

// SourceSpec describes one configured job board: how to reach it and
// which company tier its listings inherit.
type SourceSpec struct {
	Name      string // display name, used verbatim as Company
	Kind      string // greenhouse/workable/careersite
	Tier      int    // 1..3, resolved from the tier map at config load
	Token     string // greenhouse board token
	Subdomain string // workable account subdomain
	URL       string // careersite page URL
}

// Listing statuses a consumer can move a persisted listing through.
const (
	StatusNew     = "new"
	StatusSeen    = "seen"
	StatusSaved   = "saved"
	StatusApplied = "applied"
	StatusHidden  = "hidden"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusSeen, StatusSaved, StatusApplied, StatusHidden:
		return true
	}
	return false
}
