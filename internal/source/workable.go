package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"jobradar-engine/internal/domain"
	"jobradar-engine/internal/normalize"
	"jobradar-engine/internal/util"
)

// WorkableBaseURL is a var so tests can point a client at a fake account.
var WorkableBaseURL = "https://apply.workable.com/api/v1"

type workableJob struct {
	Shortcode string `json:"shortcode"`
	Title     string `json:"title"`
	Location  struct {
		City    string `json:"city"`
		Country string `json:"country"`
	} `json:"location"`
	Published   string `json:"published"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

type workableResponse struct {
	Results []workableJob `json:"results"`
}

// Workable fetches a public Workable account feed. Some accounts require a
// bearer token; it comes from the OS keychain and may be empty.
type Workable struct {
	spec    domain.SourceSpec
	hc      *http.Client
	limiter *util.HostLimiter
	token   string
}

func (w *Workable) Spec() domain.SourceSpec { return w.spec }

func (w *Workable) Fetch(ctx context.Context) ([]domain.JobListing, error) {
	url := fmt.Sprintf("%s/accounts/%s/jobs", WorkableBaseURL, w.spec.Subdomain)

	res, err := get(ctx, w.hc, w.limiter, url, w.token)
	if err != nil {
		return nil, fmt.Errorf("workable %s: %w", w.spec.Subdomain, err)
	}
	defer res.Body.Close()

	var wr workableResponse
	if err := json.NewDecoder(res.Body).Decode(&wr); err != nil {
		return nil, fmt.Errorf("workable %s: decode: %w", w.spec.Subdomain, err)
	}

	now := time.Now().UTC()
	jobs := wr.Results
	if len(jobs) > workableCap {
		jobs = jobs[:workableCap]
	}

	out := make([]domain.JobListing, 0, len(jobs))
	for _, wj := range jobs {
		if strings.TrimSpace(wj.Shortcode) == "" {
			continue
		}
		listingURL := wj.URL
		if listingURL == "" {
			listingURL = fmt.Sprintf("https://apply.workable.com/%s/j/%s", w.spec.Subdomain, wj.Shortcode)
		}

		raw := normalize.Raw{
			NativeID: wj.Shortcode,
			Title:    wj.Title,
			Location: joinLocation(wj.Location.City, wj.Location.Country),
			URL:      listingURL,
			Content:  wj.Description,
		}
		if wj.Published != "" {
			if t, err := time.Parse(time.RFC3339, wj.Published); err == nil {
				raw.PostedAt = t
			}
		}
		out = append(out, normalize.Listing(raw, w.spec, now))
	}
	return out, nil
}

func joinLocation(city, country string) string {
	switch {
	case city != "" && country != "":
		return city + ", " + country
	case city != "":
		return city
	default:
		return country
	}
}
