package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// TiersFile lets tier membership live in its own file (e.g. synced from
// elsewhere) without touching the main config.
type TiersFile struct {
	Tiers struct {
		Tier1 []string `yaml:"tier1"`
		Tier2 []string `yaml:"tier2"`
	} `yaml:"tiers"`
}

// OverlayTiers replaces the config's tier map with the contents of
// tiersPath when that file exists. A missing file is not an error.
func OverlayTiers(cfg *Config, tiersPath string) error {
	b, err := os.ReadFile(tiersPath)
	if err != nil {
		return nil
	}

	var tf TiersFile
	if err := yaml.Unmarshal(b, &tf); err != nil {
		return err
	}

	if len(tf.Tiers.Tier1) > 0 {
		cfg.Tiers.Tier1 = tf.Tiers.Tier1
	}
	if len(tf.Tiers.Tier2) > 0 {
		cfg.Tiers.Tier2 = tf.Tiers.Tier2
	}
	return nil
}
