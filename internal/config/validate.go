package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}

func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a cleaned copy of the config plus anything a
// UI should surface before saving it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Tiers.Tier1 = trimList(out.Tiers.Tier1)
	out.Tiers.Tier2 = trimList(out.Tiers.Tier2)
	out.Scoring.Keywords = trimList(out.Scoring.Keywords)
	out.Scoring.Locations = trimList(out.Scoring.Locations)

	applyDefaults(&out)

	// ---- Validation rules ----

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}
	if out.Aggregate.IntervalMinutes <= 0 {
		res.addErr("aggregate.interval_minutes must be > 0")
	}
	if out.Aggregate.BatchSize <= 0 {
		res.addErr("aggregate.batch_size must be > 0")
	} else if out.Aggregate.BatchSize > 50 {
		res.addWarn("aggregate.batch_size is very high (%d) and may trip board rate limits.", out.Aggregate.BatchSize)
	}
	if out.Aggregate.SourceTimeoutSeconds <= 0 {
		res.addErr("aggregate.source_timeout_seconds must be > 0")
	}

	checkBoards := func(kind string, boards []Board, field func(Board) string) {
		for i, b := range boards {
			if strings.TrimSpace(field(b)) == "" {
				res.addWarn("sources.%s[%d] has no endpoint and will be skipped", kind, i)
			}
		}
	}
	checkBoards("greenhouse", out.Sources.Greenhouse, func(b Board) string { return b.Token })
	checkBoards("workable", out.Sources.Workable, func(b Board) string { return b.Subdomain })
	checkBoards("careers", out.Sources.Careers, func(b Board) string { return b.URL })

	if len(out.SourceSpecs()) == 0 {
		res.addWarn("no sources configured; aggregation passes will produce 0 listings")
	}

	// Tier conflicts: a company in both tiers resolves to tier 1, warn anyway.
	t1 := map[string]bool{}
	for _, c := range out.Tiers.Tier1 {
		t1[strings.ToLower(c)] = true
	}
	for _, c := range out.Tiers.Tier2 {
		if t1[strings.ToLower(c)] {
			res.addWarn("company appears in both tier1 and tier2: %q", c)
		}
	}

	return out, res
}
