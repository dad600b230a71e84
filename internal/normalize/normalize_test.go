package normalize

import (
	"strings"
	"testing"
	"time"

	"jobradar-engine/internal/domain"
)

var testSpec = domain.SourceSpec{
	Name:  "Acme",
	Kind:  "greenhouse",
	Tier:  1,
	Token: "acme",
}

func TestListing_Defaults(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	l := Listing(Raw{NativeID: "42", URL: "https://example.com/jobs/42"}, testSpec, now)

	if l.Title != "Unknown Position" {
		t.Errorf("title: got %q", l.Title)
	}
	if l.Location != "Remote" {
		t.Errorf("location: got %q", l.Location)
	}
	if !l.PostedAt.Equal(now) {
		t.Errorf("zero PostedAt should fall back to now, got %v", l.PostedAt)
	}
	if l.Status != domain.StatusNew {
		t.Errorf("status: got %q", l.Status)
	}
	if l.MatchScore != 0 {
		t.Errorf("score should start at zero, got %d", l.MatchScore)
	}
	if l.Company != "Acme" || l.CompanyTier != 1 || l.Source != "greenhouse" {
		t.Errorf("source fields not carried: %+v", l)
	}
}

func TestListingID(t *testing.T) {
	if got := ListingID(testSpec, "123"); got != "greenhouse_acme_123" {
		t.Errorf("got %q", got)
	}

	sub := domain.SourceSpec{Name: "Beta", Kind: "workable", Subdomain: "beta"}
	if got := ListingID(sub, "xy"); got != "workable_beta_xy" {
		t.Errorf("got %q", got)
	}

	// Career sites have neither token nor subdomain; the URL hash keeps IDs
	// stable across runs.
	site := domain.SourceSpec{Name: "Gamma", Kind: "careers", URL: "https://gamma.io/jobs"}
	first := ListingID(site, "7")
	second := ListingID(site, "7")
	if first != second {
		t.Errorf("career-site IDs not stable: %q vs %q", first, second)
	}
	if !strings.HasPrefix(first, "careers_") || !strings.HasSuffix(first, "_7") {
		t.Errorf("unexpected shape: %q", first)
	}
}

func TestStripHTML_DoubleEncoded(t *testing.T) {
	content := "&lt;p&gt;Build &lt;b&gt;distributed&lt;/b&gt; systems&lt;/p&gt;"
	if got := StripHTML(content); got != "Build distributed systems" {
		t.Errorf("got %q", got)
	}
}

func TestStripHTML_Plain(t *testing.T) {
	if got := StripHTML("just   plain\n text"); got != "just plain text" {
		t.Errorf("got %q", got)
	}
}

func TestSnippet_Cap(t *testing.T) {
	long := strings.Repeat("a", SnippetMax+50)
	got := Snippet(long)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis, got tail %q", got[len(got)-5:])
	}
	if len([]rune(got)) != SnippetMax+3 {
		t.Errorf("snippet length %d", len([]rune(got)))
	}

	short := "short text"
	if Snippet(short) != short {
		t.Error("short text must pass through unchanged")
	}
}

func TestDelta(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		ago  time.Duration
		want string
	}{
		{5 * time.Minute, "5 min ago"},
		{59 * time.Minute, "59 min ago"},
		{90 * time.Minute, "1h ago"},
		{23 * time.Hour, "23h ago"},
		{25 * time.Hour, "1d ago"},
		{6 * 24 * time.Hour, "6d ago"},
		{10 * 24 * time.Hour, "1w ago"},
		{30 * 24 * time.Hour, "4w ago"},
		{-time.Hour, "0 min ago"}, // future timestamps clamp to zero
	}
	for _, tc := range cases {
		if got := Delta(now.Add(-tc.ago), now); got != tc.want {
			t.Errorf("delta(%v): got %q, want %q", tc.ago, got, tc.want)
		}
	}
}

func TestListing_ExtractsRequirements(t *testing.T) {
	now := time.Now()
	raw := Raw{
		NativeID: "1",
		Title:    "Senior Golang Engineer",
		Content:  "<p>You will work with Kubernetes and PostgreSQL.</p>",
		URL:      "https://example.com/jobs/1",
	}

	l := Listing(raw, testSpec, now)
	want := []string{"golang", "sql", "postgresql", "kubernetes"}
	if len(l.Requirements) != len(want) {
		t.Fatalf("requirements: %v", l.Requirements)
	}
	for i := range want {
		if l.Requirements[i] != want[i] {
			t.Errorf("requirement %d: got %q, want %q", i, l.Requirements[i], want[i])
		}
	}
}
