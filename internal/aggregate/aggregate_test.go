package aggregate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobradar-engine/internal/config"
	"jobradar-engine/internal/domain"
	"jobradar-engine/internal/logger"
	"jobradar-engine/internal/source"
)

type stubFetcher struct {
	spec     domain.SourceSpec
	listings []domain.JobListing
	err      error
}

func (s *stubFetcher) Spec() domain.SourceSpec { return s.spec }

func (s *stubFetcher) Fetch(ctx context.Context) ([]domain.JobListing, error) {
	return s.listings, s.err
}

func listing(id, url string) domain.JobListing {
	return domain.JobListing{ID: id, Title: id, URL: url, PostedAt: time.Now().UTC()}
}

func testRunner() *Runner {
	return &Runner{Log: logger.Nop()}
}

func TestFetchAll_PartialFailure(t *testing.T) {
	fetchers := []source.Fetcher{
		&stubFetcher{spec: domain.SourceSpec{Name: "a"}, listings: []domain.JobListing{listing("a1", "https://a.io/jobs/1")}},
		&stubFetcher{spec: domain.SourceSpec{Name: "b"}, err: errors.New("boom")},
		&stubFetcher{spec: domain.SourceSpec{Name: "c"}, listings: []domain.JobListing{listing("c1", "https://c.io/jobs/1")}},
		&stubFetcher{spec: domain.SourceSpec{Name: "d"}, err: errors.New("timeout")},
		&stubFetcher{spec: domain.SourceSpec{Name: "e"}, listings: []domain.JobListing{listing("e1", "https://e.io/jobs/1")}},
	}

	got := testRunner().FetchAll(context.Background(), fetchers, 2)
	require.Len(t, got, 3)
	assert.Equal(t, "a1", got[0].ID)
	assert.Equal(t, "c1", got[1].ID)
	assert.Equal(t, "e1", got[2].ID)
}

func TestFetchAll_OrderStableAcrossBatches(t *testing.T) {
	var fetchers []source.Fetcher
	for i := 0; i < 25; i++ {
		id := fmt.Sprintf("s%02d", i)
		fetchers = append(fetchers, &stubFetcher{
			spec:     domain.SourceSpec{Name: id},
			listings: []domain.JobListing{listing(id, "https://x.io/jobs/"+id)},
		})
	}

	first := testRunner().FetchAll(context.Background(), fetchers, 10)
	second := testRunner().FetchAll(context.Background(), fetchers, 10)

	require.Len(t, first, 25)
	for i := range first {
		assert.Equal(t, fmt.Sprintf("s%02d", i), first[i].ID)
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestFetchAll_Empty(t *testing.T) {
	got := testRunner().FetchAll(context.Background(), nil, 10)
	assert.Empty(t, got)
}

func TestDedupe_FirstWins(t *testing.T) {
	in := []domain.JobListing{
		{ID: "first", URL: "https://x.io/jobs/1?utm_source=a"},
		{ID: "dupe", URL: "https://x.io/jobs/1?utm_source=b"},
		{ID: "other", URL: "https://x.io/jobs/2"},
		{ID: "nourl", URL: ""},
	}

	got := Dedupe(in)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].ID)
	assert.Equal(t, "https://x.io/jobs/1", got[0].URL)
	assert.Equal(t, "other", got[1].ID)

	// Input slice must survive untouched.
	assert.Equal(t, "https://x.io/jobs/1?utm_source=a", in[0].URL)
}

func TestDedupe_Idempotent(t *testing.T) {
	in := []domain.JobListing{
		{ID: "a", URL: "https://x.io/jobs/1"},
		{ID: "b", URL: "https://x.io/jobs/2"},
	}
	once := Dedupe(in)
	twice := Dedupe(once)
	assert.Equal(t, once, twice)
}

func TestRun_NoSources(t *testing.T) {
	var cfg config.Config

	res, err := testRunner().Run(context.Background(), cfg, Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Listings)
	assert.Zero(t, res.Added)
}

func TestRun_PartialSourceFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/good/jobs":
			fmt.Fprint(w, `{"jobs":[{"id":1,"title":"Go Engineer","absolute_url":"https://boards.greenhouse.io/good/jobs/1"}]}`)
		case "/alsogood/jobs":
			fmt.Fprint(w, `{"jobs":[{"id":2,"title":"SRE","absolute_url":"https://boards.greenhouse.io/alsogood/jobs/2"}]}`)
		default:
			http.Error(w, "down", http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	old := source.GreenhouseBaseURL
	source.GreenhouseBaseURL = srv.URL
	defer func() { source.GreenhouseBaseURL = old }()

	var cfg config.Config
	cfg.Aggregate.BatchSize = 10
	cfg.Aggregate.SourceTimeoutSeconds = 5
	cfg.Sources.Greenhouse = []config.Board{
		{Name: "Good", Token: "good"},
		{Name: "Broken", Token: "broken"},
		{Name: "AlsoGood", Token: "alsogood"},
	}

	res, err := testRunner().Run(context.Background(), cfg, Options{})
	require.NoError(t, err)
	require.Len(t, res.Listings, 2)
	assert.Equal(t, "Go Engineer", res.Listings[0].Title)
	assert.Equal(t, "SRE", res.Listings[1].Title)

	// Scores are assigned during the pass.
	for _, l := range res.Listings {
		assert.Greater(t, l.MatchScore, 0)
		assert.LessOrEqual(t, l.MatchScore, 100)
	}
}

func TestRun_TokenForWiredThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-beta" {
			t.Errorf("auth header: %q", got)
		}
		fmt.Fprint(w, `{"results":[]}`)
	}))
	defer srv.Close()

	old := source.WorkableBaseURL
	source.WorkableBaseURL = srv.URL
	defer func() { source.WorkableBaseURL = old }()

	var cfg config.Config
	cfg.Aggregate.SourceTimeoutSeconds = 5
	cfg.Sources.Workable = []config.Board{{Name: "Beta", Subdomain: "beta"}}

	r := testRunner()
	r.TokenFor = func(name string) string {
		if name == "Beta" {
			return "tok-beta"
		}
		return ""
	}

	_, err := r.Run(context.Background(), cfg, Options{})
	require.NoError(t, err)
}
