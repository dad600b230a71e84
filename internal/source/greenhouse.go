package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"jobradar-engine/internal/domain"
	"jobradar-engine/internal/normalize"
	"jobradar-engine/internal/util"
)

// GreenhouseBaseURL is a var so tests can point a client at a fake board.
var GreenhouseBaseURL = "https://boards-api.greenhouse.io/v1/boards"

type greenhouseJob struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Location struct {
		Name string `json:"name"`
	} `json:"location"`
	AbsoluteURL string `json:"absolute_url"`
	UpdatedAt   string `json:"updated_at"`
	Content     string `json:"content"`
}

type greenhouseResponse struct {
	Jobs []greenhouseJob `json:"jobs"`
}

// Greenhouse fetches a public Greenhouse board via the JSON boards API.
type Greenhouse struct {
	spec    domain.SourceSpec
	hc      *http.Client
	limiter *util.HostLimiter
}

func (g *Greenhouse) Spec() domain.SourceSpec { return g.spec }

func (g *Greenhouse) Fetch(ctx context.Context) ([]domain.JobListing, error) {
	url := fmt.Sprintf("%s/%s/jobs?content=true", GreenhouseBaseURL, g.spec.Token)

	res, err := get(ctx, g.hc, g.limiter, url, "")
	if err != nil {
		return nil, fmt.Errorf("greenhouse %s: %w", g.spec.Token, err)
	}
	defer res.Body.Close()

	var gr greenhouseResponse
	if err := json.NewDecoder(res.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("greenhouse %s: decode: %w", g.spec.Token, err)
	}

	now := time.Now().UTC()
	jobs := gr.Jobs
	if len(jobs) > greenhouseCap {
		jobs = jobs[:greenhouseCap]
	}

	out := make([]domain.JobListing, 0, len(jobs))
	for _, gj := range jobs {
		if gj.AbsoluteURL == "" {
			continue
		}
		raw := normalize.Raw{
			NativeID: fmt.Sprintf("%d", gj.ID),
			Title:    gj.Title,
			Location: gj.Location.Name,
			URL:      gj.AbsoluteURL,
			Content:  gj.Content,
		}
		if gj.UpdatedAt != "" {
			if t, err := time.Parse(time.RFC3339, gj.UpdatedAt); err == nil {
				raw.PostedAt = t
			}
		}
		out = append(out, normalize.Listing(raw, g.spec, now))
	}
	return out, nil
}
