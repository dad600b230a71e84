// Package normalize turns raw source records into canonical listings.
package normalize

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobradar-engine/internal/domain"
	"jobradar-engine/internal/extract"
	"jobradar-engine/internal/util"
)

// SnippetMax bounds the plain-text excerpt kept on a listing.
const SnippetMax = 200

// Raw is a source client's view of one posting before normalization.
// Content may be HTML or HTML-encoded HTML (Greenhouse double-encodes).
type Raw struct {
	NativeID string
	Title    string
	Location string
	URL      string
	PostedAt time.Time
	Content  string
	Salary   string
}

// Listing builds the canonical record from a raw posting. Pure: the only
// clock it consults is the one passed in.
func Listing(raw Raw, src domain.SourceSpec, now time.Time) domain.JobListing {
	title := util.CleanText(raw.Title)
	if title == "" {
		title = "Unknown Position"
	}
	location := util.CleanText(raw.Location)
	if location == "" {
		location = "Remote"
	}

	posted := raw.PostedAt
	if posted.IsZero() {
		posted = now
	}

	text := StripHTML(raw.Content)

	return domain.JobListing{
		ID:           ListingID(src, raw.NativeID),
		Title:        title,
		Company:      src.Name,
		CompanyTier:  src.Tier,
		Location:     location,
		SalaryRange:  util.CleanText(raw.Salary),
		URL:          util.CanonicalURL(raw.URL),
		PostedAt:     posted.UTC(),
		PostedDelta:  Delta(posted, now),
		Snippet:      Snippet(text),
		Requirements: extract.Requirements(title + " " + text),
		Source:       src.Kind,
		Status:       domain.StatusNew,
		MatchScore:   0,
	}
}

// ListingID derives the stable identifier "{source}_{token}_{nativeId}".
func ListingID(src domain.SourceSpec, nativeID string) string {
	token := src.Token
	if token == "" {
		token = src.Subdomain
	}
	if token == "" {
		token = util.HashString(src.URL)
	}
	if strings.TrimSpace(nativeID) == "" {
		nativeID = util.HashString(src.Name)
	}
	return fmt.Sprintf("%s_%s_%s", src.Kind, token, strings.TrimSpace(nativeID))
}

// StripHTML converts an HTML (or HTML-encoded) fragment to collapsed plain
// text. Unescape first so double-encoded bodies come out as real markup;
// a no-op on content that is already plain.
func StripHTML(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	unescaped := html.UnescapeString(content)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(unescaped))
	if err != nil {
		return util.CleanText(unescaped)
	}
	return util.CleanText(doc.Text())
}

// Snippet caps plain text at SnippetMax runes.
func Snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= SnippetMax {
		return text
	}
	return strings.TrimSpace(string(runes[:SnippetMax])) + "..."
}

// Delta renders how long ago a posting went up: "N min ago" under an hour,
// "Nh ago" under a day, "Nd ago" under a week, "Nw ago" beyond that.
func Delta(postedAt, now time.Time) string {
	d := now.Sub(postedAt)
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Hour:
		return fmt.Sprintf("%d min ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return fmt.Sprintf("%dw ago", int(d.Hours()/(24*7)))
	}
}
