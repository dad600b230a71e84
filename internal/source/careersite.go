package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobradar-engine/internal/domain"
	"jobradar-engine/internal/normalize"
	"jobradar-engine/internal/util"
)

// CareerSite scrapes a company's own careers page: anchors that look like
// posting links become minimal listings. Best-effort by design; boards
// with a real API should use the greenhouse/workable clients instead.
type CareerSite struct {
	spec    domain.SourceSpec
	hc      *http.Client
	limiter *util.HostLimiter
}

func (c *CareerSite) Spec() domain.SourceSpec { return c.spec }

func (c *CareerSite) Fetch(ctx context.Context) ([]domain.JobListing, error) {
	res, err := get(ctx, c.hc, c.limiter, c.spec.URL, "")
	if err != nil {
		return nil, fmt.Errorf("careersite %s: %w", c.spec.Name, err)
	}
	defer res.Body.Close()

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("careersite %s: parse: %w", c.spec.Name, err)
	}

	base, err := url.Parse(c.spec.URL)
	if err != nil {
		return nil, fmt.Errorf("careersite %s: base url: %w", c.spec.Name, err)
	}

	now := time.Now().UTC()
	seen := map[string]bool{}
	var out []domain.JobListing

	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		if !ok {
			return true
		}
		href = strings.TrimSpace(href)
		if href == "" || !looksLikePostingLink(href) {
			return true
		}

		ref, err := url.Parse(href)
		if err != nil {
			return true
		}
		abs := base.ResolveReference(ref).String()
		if seen[abs] {
			return true
		}
		seen[abs] = true

		title := util.CleanText(a.Text())
		if looksLikeJunkTitle(title) {
			return true
		}

		out = append(out, normalize.Listing(normalize.Raw{
			NativeID: util.HashString(abs),
			Title:    title,
			URL:      abs,
			PostedAt: now,
		}, c.spec, now))

		return len(out) < careersiteCap
	})

	return out, nil
}

func looksLikePostingLink(href string) bool {
	l := strings.ToLower(href)
	return strings.Contains(l, "/jobs/") ||
		strings.Contains(l, "/job/") ||
		strings.Contains(l, "/positions/") ||
		strings.Contains(l, "/openings/")
}

func looksLikeJunkTitle(t string) bool {
	l := strings.ToLower(t)
	return l == "" ||
		strings.Contains(l, "view all") ||
		strings.Contains(l, "apply") ||
		strings.Contains(l, "see open")
}
