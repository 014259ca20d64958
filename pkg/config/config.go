// Package config loads fetor configuration from TOML, YAML, or JSON files.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/fetor-sh/fetor/pkg/models"
)

// Config holds all configuration options for fetor.
type Config struct {
	// Analysis settings
	Analysis AnalysisConfig `koanf:"analysis"`

	// Classifier rule thresholds
	Thresholds models.SmellThresholds `koanf:"thresholds"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude"`

	// History mining settings
	History HistoryConfig `koanf:"history"`

	// Cache settings
	Cache CacheConfig `koanf:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output"`
}

// AnalysisConfig controls analysis behavior.
type AnalysisConfig struct {
	Workers     int   `koanf:"workers"`       // 0 = 2x NumCPU
	MaxFileSize int64 `koanf:"max_file_size"` // 0 = no limit
	History     bool  `koanf:"history"`
	Smells      bool  `koanf:"smells"`
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns []string `koanf:"patterns"` // doublestar globs on relative paths
	Dirs     []string `koanf:"dirs"`
}

// HistoryConfig controls git history mining.
type HistoryConfig struct {
	TimeoutSeconds int `koanf:"timeout_seconds"`
	BurstWindow    int `koanf:"burst_window"` // sliding window in days
	TopCoupled     int `koanf:"top_coupled"`  // co-change entries retained
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"`
	TTL     int    `koanf:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format"` // text, json, markdown, csv
	Color  bool   `koanf:"color"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Workers:     0,
			MaxFileSize: 0,
			History:     true,
			Smells:      true,
		},
		Thresholds: models.DefaultSmellThresholds(),
		Exclude: ExcludeConfig{
			Patterns: []string{
				"**/*.min.py",
			},
			Dirs: []string{
				".git",
				".fetor",
				"__pycache__",
				".venv",
				"venv",
				"node_modules",
				"build",
				"dist",
				".tox",
				".mypy_cache",
			},
		},
		History: HistoryConfig{
			TimeoutSeconds: 300,
			BurstWindow:    7,
			TopCoupled:     5,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".fetor/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	// Determine parser based on extension
	var parser koanf.Parser
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"fetor.toml",
		"fetor.yaml",
		"fetor.yml",
		"fetor.json",
		".fetor.toml",
		".fetor.yaml",
		".fetor.yml",
		".fetor.json",
	}

	searchDirs := []string{".", ".fetor"}

	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				cfg, err := Load(path)
				if err == nil {
					return cfg
				}
			}
		}
	}

	return DefaultConfig()
}
