// Package config loads runtime configuration from .bspindex.yaml,
// BSPINDEX_* environment variables, and CLI flags, in that order of
// increasing precedence.
package config

import "github.com/spf13/viper"

// Config holds all runtime configuration for one indexer invocation.
type Config struct {
	Workers         int      `mapstructure:"workers"`
	BatchSize       int      `mapstructure:"batch_size"`
	ExcludePatterns []string `mapstructure:"exclude_patterns"`
	Output          string   `mapstructure:"output"`
	Verbose         bool     `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() Config {
	viper.SetDefault("workers", 8)
	viper.SetDefault("batch_size", 100)
	viper.SetDefault("exclude_patterns", []string{})
	viper.SetDefault("output", "")
	viper.SetDefault("verbose", false)

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	return cfg
}
