// Package aggregate runs one full aggregation pass: fan out the source
// clients in bounded batches, collect what survives, dedupe by canonical
// URL, score, and hand the result to the store.
package aggregate

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"jobradar-engine/internal/config"
	"jobradar-engine/internal/domain"
	"jobradar-engine/internal/events"
	"jobradar-engine/internal/extract"
	"jobradar-engine/internal/rank"
	"jobradar-engine/internal/source"
	"jobradar-engine/internal/store"
	"jobradar-engine/internal/util"
)

// Options are per-pass overrides from the trigger request.
type Options struct {
	Keywords  []string
	Locations []string
	Owner     string
}

// Result of one pass. Listings is the deduplicated, scored collection —
// it is returned even when persistence failed.
type Result struct {
	Listings []domain.JobListing
	Added    int
}

type Runner struct {
	DB  *sql.DB
	Hub *events.Hub
	Log *zap.SugaredLogger

	// TokenFor resolves a source's API token; nil means no tokens.
	TokenFor func(sourceName string) string
}

// Run executes one aggregation pass against a config snapshot.
func (r *Runner) Run(ctx context.Context, cfg config.Config, opts Options) (Result, error) {
	start := time.Now()

	keywords := opts.Keywords
	if len(keywords) == 0 {
		keywords = cfg.Scoring.Keywords
	}
	if len(keywords) == 0 {
		keywords = extract.Vocabulary()
	}
	locations := opts.Locations
	if len(locations) == 0 {
		locations = cfg.Scoring.Locations
	}

	timeout := time.Duration(cfg.Aggregate.SourceTimeoutSeconds) * time.Second
	limiter := util.NewHostLimiter(2.0, 4)

	var fetchers []source.Fetcher
	for _, spec := range cfg.SourceSpecs() {
		token := ""
		if r.TokenFor != nil {
			token = r.TokenFor(spec.Name)
		}
		f, err := source.New(spec, timeout, limiter, token)
		if err != nil {
			r.Log.Warnw("skipping source", "source", spec.Name, "err", err)
			continue
		}
		fetchers = append(fetchers, f)
	}

	collected := r.FetchAll(ctx, fetchers, cfg.Aggregate.BatchSize)
	listings := Dedupe(collected)
	rank.ScoreAll(listings, keywords, locations, time.Now().UTC())

	var added int
	var persistErr error
	if r.DB != nil {
		added, persistErr = store.InsertIfAbsent(ctx, r.DB, listings, opts.Owner)
	}

	if r.Hub != nil {
		if added > 0 {
			r.Hub.Publish(events.Make("", events.TypeListingsAdded, map[string]any{"added": added}))
		}
		r.Hub.Publish(events.Make("", events.TypeAggregationFinished, map[string]any{
			"sources": len(fetchers), "listings": len(listings), "added": added,
		}))
	}

	r.Log.Infow("aggregation pass done",
		"sources", len(fetchers),
		"fetched", len(collected),
		"deduped", len(listings),
		"added", added,
		"dur_ms", time.Since(start).Milliseconds(),
	)

	if persistErr != nil {
		return Result{Listings: listings, Added: added}, fmt.Errorf("persist listings: %w", persistErr)
	}
	return Result{Listings: listings, Added: added}, nil
}

// FetchAll dispatches fetchers in fixed-size batches. A batch runs fully
// in parallel and the next one starts only after every member settles; a
// failed source logs and contributes nothing, never cancelling siblings.
// Results land per submission index, so concatenation order — and with it
// the first-seen dedupe winner — is reproducible run to run.
func (r *Runner) FetchAll(ctx context.Context, fetchers []source.Fetcher, batchSize int) []domain.JobListing {
	if batchSize <= 0 {
		batchSize = 10
	}

	var out []domain.JobListing
	for start := 0; start < len(fetchers); start += batchSize {
		end := min(start+batchSize, len(fetchers))
		batch := fetchers[start:end]

		results := make([][]domain.JobListing, len(batch))
		var g errgroup.Group
		for i, f := range batch {
			i, f := i, f
			g.Go(func() error {
				listings, err := f.Fetch(ctx)
				if err != nil {
					r.Log.Warnw("source fetch failed",
						"source", f.Spec().Name, "kind", f.Spec().Kind, "err", err)
					return nil
				}
				results[i] = listings
				return nil
			})
		}
		_ = g.Wait()

		for _, listings := range results {
			out = append(out, listings...)
		}
	}
	return out
}

// Dedupe keeps the first occurrence of each canonical URL, preserving
// insertion order. Input is not mutated.
func Dedupe(listings []domain.JobListing) []domain.JobListing {
	seen := make(map[string]struct{}, len(listings))
	out := make([]domain.JobListing, 0, len(listings))
	for _, l := range listings {
		key := util.CanonicalURL(l.URL)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		l.URL = key
		out = append(out, l)
	}
	return out
}
