package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"jobradar-engine/internal/domain"
)

func greenhouseSpec() domain.SourceSpec {
	return domain.SourceSpec{Name: "Acme", Kind: "greenhouse", Tier: 1, Token: "acme"}
}

func withGreenhouseServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	old := GreenhouseBaseURL
	GreenhouseBaseURL = srv.URL
	t.Cleanup(func() { GreenhouseBaseURL = old })
}

func TestGreenhouse_Fetch(t *testing.T) {
	withGreenhouseServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/acme/jobs" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("content") != "true" {
			t.Error("expected content=true")
		}
		if ua := r.Header.Get("User-Agent"); !strings.HasPrefix(ua, "JobRadar/") {
			t.Errorf("unexpected user agent %q", ua)
		}
		fmt.Fprint(w, `{"jobs":[
			{"id":101,"title":"Backend Engineer","location":{"name":"Dublin"},
			 "absolute_url":"https://boards.greenhouse.io/acme/jobs/101",
			 "updated_at":"2026-08-27T09:00:00Z",
			 "content":"&lt;p&gt;Go and PostgreSQL&lt;/p&gt;"},
			{"id":102,"title":"Missing URL job","location":{"name":"Cork"},
			 "absolute_url":"","content":""}
		]}`)
	})

	f, err := New(greenhouseSpec(), 5*time.Second, nil, "")
	if err != nil {
		t.Fatal(err)
	}

	got, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 listing (URL-less job skipped), got %d", len(got))
	}

	l := got[0]
	if l.ID != "greenhouse_acme_101" {
		t.Errorf("id: %q", l.ID)
	}
	if l.Title != "Backend Engineer" || l.Location != "Dublin" {
		t.Errorf("fields: %+v", l)
	}
	if l.Company != "Acme" || l.CompanyTier != 1 {
		t.Errorf("company fields: %+v", l)
	}
	want := time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC)
	if !l.PostedAt.Equal(want) {
		t.Errorf("posted at: %v", l.PostedAt)
	}
	if l.Snippet != "Go and PostgreSQL" {
		t.Errorf("snippet: %q", l.Snippet)
	}
	if l.Status != domain.StatusNew || l.MatchScore != 0 {
		t.Errorf("new listing state: %+v", l)
	}
}

func TestGreenhouse_Fetch_Cap(t *testing.T) {
	withGreenhouseServer(t, func(w http.ResponseWriter, r *http.Request) {
		var jobs []string
		for i := 0; i < greenhouseCap+20; i++ {
			jobs = append(jobs, fmt.Sprintf(
				`{"id":%d,"title":"Job %d","absolute_url":"https://boards.greenhouse.io/acme/jobs/%d"}`, i, i, i))
		}
		fmt.Fprintf(w, `{"jobs":[%s]}`, strings.Join(jobs, ","))
	})

	f, _ := New(greenhouseSpec(), 5*time.Second, nil, "")
	got, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != greenhouseCap {
		t.Errorf("expected cap of %d, got %d", greenhouseCap, len(got))
	}
}

func TestGreenhouse_Fetch_HTTPError(t *testing.T) {
	withGreenhouseServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	})

	f, _ := New(greenhouseSpec(), 5*time.Second, nil, "")
	if _, err := f.Fetch(context.Background()); err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestGreenhouse_Fetch_Malformed(t *testing.T) {
	withGreenhouseServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"jobs": not json`)
	})

	f, _ := New(greenhouseSpec(), 5*time.Second, nil, "")
	if _, err := f.Fetch(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestGreenhouse_Fetch_EmptyBoard(t *testing.T) {
	withGreenhouseServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"jobs":[]}`)
	})

	f, _ := New(greenhouseSpec(), 5*time.Second, nil, "")
	got, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %d", len(got))
	}
}

func TestNew_UnknownKind(t *testing.T) {
	_, err := New(domain.SourceSpec{Kind: "linkedin"}, time.Second, nil, "")
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
