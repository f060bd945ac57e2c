package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "gumtree", cfg.Source.Name)
	assert.Equal(t, "https://www.gumtree.com/jobs/cash-in-hand", cfg.Source.BaseURL)
	assert.Equal(t, "url_segment", cfg.Source.Identity)
	assert.Equal(t, "headless", cfg.Source.Fetcher)
	assert.Equal(t, 0, cfg.Harvest.Target)
	assert.Equal(t, 1321, cfg.Harvest.DefaultTarget)
	assert.Equal(t, 3, cfg.Harvest.Concurrency)
	assert.Equal(t, 200, cfg.Harvest.MaxPages)
	assert.Empty(t, cfg.Harvest.MetricsAddr)
	assert.Equal(t, "gumtree_jobs.csv", cfg.Dataset.Path)
	assert.Equal(t, "jobs.csv", cfg.Dataset.ReferencePath)

	assert.Equal(t, 1200*time.Millisecond, cfg.FetchDelay())
	assert.Equal(t, 6*time.Second, cfg.PageDelay())
	assert.Equal(t, 900*time.Millisecond, cfg.SettleDelay())
	assert.Equal(t, 30*time.Second, cfg.NavTimeout())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
source:
  base_url: https://www.gumtree.com/jobs/warehouse
  fetcher: static
harvest:
  target: 500
  concurrency: 2
dataset:
  path: warehouse_jobs.csv
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://www.gumtree.com/jobs/warehouse", cfg.Source.BaseURL)
	assert.Equal(t, "static", cfg.Source.Fetcher)
	assert.Equal(t, 500, cfg.Harvest.Target)
	assert.Equal(t, 2, cfg.Harvest.Concurrency)
	assert.Equal(t, "warehouse_jobs.csv", cfg.Dataset.Path)
	// Untouched values keep their defaults.
	assert.Equal(t, 1321, cfg.Harvest.DefaultTarget)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid, err := Load("")
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing base url", func(c *Config) { c.Source.BaseURL = "" }},
		{"missing site base", func(c *Config) { c.Source.SiteBase = "" }},
		{"bad identity", func(c *Config) { c.Source.Identity = "checksum" }},
		{"bad fetcher", func(c *Config) { c.Source.Fetcher = "curl" }},
		{"negative target", func(c *Config) { c.Harvest.Target = -1 }},
		{"zero default target", func(c *Config) { c.Harvest.DefaultTarget = 0 }},
		{"zero concurrency", func(c *Config) { c.Harvest.Concurrency = 0 }},
		{"zero max pages", func(c *Config) { c.Harvest.MaxPages = 0 }},
		{"zero nav timeout", func(c *Config) { c.Harvest.NavTimeoutSec = 0 }},
		{"missing dataset path", func(c *Config) { c.Dataset.Path = "" }},
		{"zero browser parallelism", func(c *Config) { c.Headless.MaxParallel = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, valid.Validate())
}
