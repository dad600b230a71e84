package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobradar-engine/internal/domain"
)

func workableSpec() domain.SourceSpec {
	return domain.SourceSpec{Name: "Beta", Kind: "workable", Tier: 2, Subdomain: "beta"}
}

func withWorkableServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	old := WorkableBaseURL
	WorkableBaseURL = srv.URL
	t.Cleanup(func() { WorkableBaseURL = old })
}

func TestWorkable_Fetch(t *testing.T) {
	withWorkableServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/accounts/beta/jobs" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sekrit" {
			t.Errorf("unexpected auth header %q", auth)
		}
		fmt.Fprint(w, `{"results":[
			{"shortcode":"AB12","title":"Platform Engineer",
			 "location":{"city":"Lisbon","country":"Portugal"},
			 "published":"2026-08-26T10:00:00Z",
			 "description":"<p>Terraform and AWS</p>",
			 "url":"https://apply.workable.com/beta/j/AB12"},
			{"shortcode":"","title":"No shortcode"}
		]}`)
	})

	f, err := New(workableSpec(), 5*time.Second, nil, "sekrit")
	if err != nil {
		t.Fatal(err)
	}

	got, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(got))
	}

	l := got[0]
	if l.ID != "workable_beta_AB12" {
		t.Errorf("id: %q", l.ID)
	}
	if l.Location != "Lisbon, Portugal" {
		t.Errorf("location: %q", l.Location)
	}
	if l.URL != "https://apply.workable.com/beta/j/AB12" {
		t.Errorf("url: %q", l.URL)
	}
}

func TestWorkable_Fetch_FallbackURL(t *testing.T) {
	withWorkableServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[{"shortcode":"ZZ99","title":"SRE"}]}`)
	})

	f, _ := New(workableSpec(), 5*time.Second, nil, "")
	got, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d listings", len(got))
	}
	if got[0].URL != "https://apply.workable.com/beta/j/ZZ99" {
		t.Errorf("fallback url: %q", got[0].URL)
	}
}

func TestWorkable_Fetch_HTTPError(t *testing.T) {
	withWorkableServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusUnauthorized)
	})

	f, _ := New(workableSpec(), 5*time.Second, nil, "")
	if _, err := f.Fetch(context.Background()); err == nil {
		t.Fatal("expected error on 401")
	}
}

func TestJoinLocation(t *testing.T) {
	cases := []struct{ city, country, want string }{
		{"Lisbon", "Portugal", "Lisbon, Portugal"},
		{"Lisbon", "", "Lisbon"},
		{"", "Portugal", "Portugal"},
		{"", "", ""},
	}
	for _, tc := range cases {
		if got := joinLocation(tc.city, tc.country); got != tc.want {
			t.Errorf("joinLocation(%q, %q) = %q, want %q", tc.city, tc.country, got, tc.want)
		}
	}
}
