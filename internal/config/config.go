package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"jobradar-engine/internal/domain"
)

// Board names one configured source endpoint. Exactly one of Token,
// Subdomain, or URL is meaningful depending on the source kind.
type Board struct {
	Name      string `yaml:"name" json:"name"`
	Token     string `yaml:"token,omitempty" json:"token,omitempty"`
	Subdomain string `yaml:"subdomain,omitempty" json:"subdomain,omitempty"`
	URL       string `yaml:"url,omitempty" json:"url,omitempty"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	Aggregate struct {
		IntervalMinutes      int `yaml:"interval_minutes" json:"interval_minutes"`
		BatchSize            int `yaml:"batch_size" json:"batch_size"`
		SourceTimeoutSeconds int `yaml:"source_timeout_seconds" json:"source_timeout_seconds"`
	} `yaml:"aggregate" json:"aggregate"`

	// Tier membership is config, not code: updatable without a rebuild.
	// Companies not listed anywhere are tier 3.
	Tiers struct {
		Tier1 []string `yaml:"tier1" json:"tier1"`
		Tier2 []string `yaml:"tier2" json:"tier2"`
	} `yaml:"tiers" json:"tiers"`

	Scoring struct {
		Keywords  []string `yaml:"keywords" json:"keywords"`
		Locations []string `yaml:"locations" json:"locations"`
	} `yaml:"scoring" json:"scoring"`

	Sources struct {
		Greenhouse []Board `yaml:"greenhouse" json:"greenhouse"`
		Workable   []Board `yaml:"workable" json:"workable"`
		Careers    []Board `yaml:"careers" json:"careers"`
	} `yaml:"sources" json:"sources"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Port == 0 {
		cfg.App.Port = 8090
	}
	if cfg.Aggregate.IntervalMinutes == 0 {
		cfg.Aggregate.IntervalMinutes = 30
	}
	if cfg.Aggregate.BatchSize == 0 {
		cfg.Aggregate.BatchSize = 10
	}
	if cfg.Aggregate.SourceTimeoutSeconds == 0 {
		cfg.Aggregate.SourceTimeoutSeconds = 5
	}
}

// TierFor looks a company name up in the tier map, case-insensitively.
// Unknown companies default to tier 3.
func (c Config) TierFor(company string) int {
	name := strings.ToLower(strings.TrimSpace(company))
	for _, t1 := range c.Tiers.Tier1 {
		if strings.ToLower(strings.TrimSpace(t1)) == name {
			return 1
		}
	}
	for _, t2 := range c.Tiers.Tier2 {
		if strings.ToLower(strings.TrimSpace(t2)) == name {
			return 2
		}
	}
	return 3
}

// SourceSpecs flattens the configured boards into source descriptors with
// tiers resolved, in greenhouse, workable, careers order.
func (c Config) SourceSpecs() []domain.SourceSpec {
	var specs []domain.SourceSpec
	for _, b := range c.Sources.Greenhouse {
		if strings.TrimSpace(b.Token) == "" {
			continue
		}
		name := boardName(b, b.Token)
		specs = append(specs, domain.SourceSpec{
			Name:  name,
			Kind:  "greenhouse",
			Tier:  c.TierFor(name),
			Token: strings.TrimSpace(b.Token),
		})
	}
	for _, b := range c.Sources.Workable {
		if strings.TrimSpace(b.Subdomain) == "" {
			continue
		}
		name := boardName(b, b.Subdomain)
		specs = append(specs, domain.SourceSpec{
			Name:      name,
			Kind:      "workable",
			Tier:      c.TierFor(name),
			Subdomain: strings.TrimSpace(b.Subdomain),
		})
	}
	for _, b := range c.Sources.Careers {
		if strings.TrimSpace(b.URL) == "" {
			continue
		}
		name := boardName(b, b.URL)
		specs = append(specs, domain.SourceSpec{
			Name: name,
			Kind: "careersite",
			Tier: c.TierFor(name),
			URL:  strings.TrimSpace(b.URL),
		})
	}
	return specs
}

func boardName(b Board, fallback string) string {
	if n := strings.TrimSpace(b.Name); n != "" {
		return n
	}
	return fallback
}
