// Package source holds one client per external job board kind.
package source

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"jobradar-engine/internal/domain"
	"jobradar-engine/internal/util"
)

const userAgent = "JobRadar/1.0 (+local)"

// Per-fetch caps keep one enormous board from drowning the mix.
const (
	greenhouseCap = 50
	workableCap   = 30
	careersiteCap = 30
)

// Fetcher is one configured source endpoint. Fetch returns partially
// scored listings (MatchScore 0); the aggregator owns error handling, so a
// failed fetch is an error here, never a panic and never a partial write.
type Fetcher interface {
	Spec() domain.SourceSpec
	Fetch(ctx context.Context) ([]domain.JobListing, error)
}

// New builds the right client for a source descriptor.
func New(spec domain.SourceSpec, timeout time.Duration, limiter *util.HostLimiter, token string) (Fetcher, error) {
	hc := &http.Client{Timeout: timeout}
	switch spec.Kind {
	case "greenhouse":
		return &Greenhouse{spec: spec, hc: hc, limiter: limiter}, nil
	case "workable":
		return &Workable{spec: spec, hc: hc, limiter: limiter, token: token}, nil
	case "careersite":
		return &CareerSite{spec: spec, hc: hc, limiter: limiter}, nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", spec.Kind)
	}
}

func get(ctx context.Context, hc *http.Client, limiter *util.HostLimiter, url, bearer string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, text/html")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	if limiter != nil {
		if err := limiter.WaitURL(ctx, url); err != nil {
			return nil, err
		}
	}

	res, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		res.Body.Close()
		return nil, fmt.Errorf("status %d", res.StatusCode)
	}
	return res, nil
}
