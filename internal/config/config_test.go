package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg := Load()

	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Empty(t, cfg.ExcludePatterns)
	assert.Empty(t, cfg.Output)
	assert.False(t, cfg.Verbose)
}

func TestLoadOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("workers", 4)
	viper.Set("batch_size", 50)
	viper.Set("exclude_patterns", []string{"meta-vendor/"})
	viper.Set("output", "/tmp/out/index.db")
	viper.Set("verbose", true)

	cfg := Load()

	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, []string{"meta-vendor/"}, cfg.ExcludePatterns)
	assert.Equal(t, "/tmp/out/index.db", cfg.Output)
	assert.True(t, cfg.Verbose)
}
