package main

import (
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	defaultCfg string
	jsonLogs   bool
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:   "engine",
	Short: "jobradar aggregation engine",
	Long:  "Aggregates job postings from configured boards, scores them, and serves the mixed feed over a local HTTP API.",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default $JOBRADAR_DATA_DIR or .)")
	rootCmd.PersistentFlags().StringVar(&defaultCfg, "default-config", "config/config.yml", "bundled default config copied on first run")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json", false, "log as JSON")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}
