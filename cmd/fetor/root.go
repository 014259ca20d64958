package main

import (
	"github.com/spf13/cobra"

	"github.com/fetor-sh/fetor/pkg/config"
)

var (
	cfgFile    string
	formatFlag string
	outputFile string
	noProgress bool
	noCache    bool
	noHistory  bool
)

var rootCmd = &cobra.Command{
	Use:   "fetor",
	Short: "Structural metrics and code smell detection for Python",
	Long: `Fetor extracts structural metrics from Python source files and
classifies them against threshold rules for twelve code smells, from
long methods and god classes up to unstable modules mined from git
history. Results come out as per-file metric records, smell findings
with a fixed-order label vector, or a flat CSV dataset.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to config file (TOML, YAML, or JSON)")
	rootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: text, json, markdown, csv")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "Write output to file")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "Disable progress reporting")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Disable result caching")
	rootCmd.PersistentFlags().BoolVar(&noHistory, "no-history", false, "Skip git history mining")
}

// loadConfig resolves the effective configuration, letting flags win
// over the config file.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.LoadOrDefault()
	}

	if noCache {
		cfg.Cache.Enabled = false
	}
	if noHistory {
		cfg.Analysis.History = false
	}
	return cfg, nil
}
