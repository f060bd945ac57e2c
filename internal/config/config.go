// Package config loads and validates harvester configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Source   SourceConfig   `mapstructure:"source"`
	Harvest  HarvestConfig  `mapstructure:"harvest"`
	Dataset  DatasetConfig  `mapstructure:"dataset"`
	Headless HeadlessConfig `mapstructure:"headless"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// SourceConfig describes the listing source being harvested.
type SourceConfig struct {
	Name      string `mapstructure:"name"`
	BaseURL   string `mapstructure:"base_url"`
	SiteBase  string `mapstructure:"site_base"`
	Identity  string `mapstructure:"identity"`
	Fetcher   string `mapstructure:"fetcher"`
	UserAgent string `mapstructure:"user_agent"`
}

// HarvestConfig governs the collection loop.
type HarvestConfig struct {
	Target           int `mapstructure:"target"`
	DefaultTarget    int `mapstructure:"default_target"`
	Concurrency      int `mapstructure:"concurrency"`
	MaxPages         int `mapstructure:"max_pages"`
	FetchDelayMs     int `mapstructure:"fetch_delay_ms"`
	PageDelaySeconds int `mapstructure:"page_delay_seconds"`
	SettleMs         int `mapstructure:"settle_ms"`
	NavTimeoutSec    int `mapstructure:"nav_timeout_seconds"`
	// MetricsAddr, when set, serves the prometheus registry over HTTP for
	// the duration of the run.
	MetricsAddr string `mapstructure:"metrics_addr"`
}

// DatasetConfig sets the dataset file and the sizing oracle.
type DatasetConfig struct {
	Path          string `mapstructure:"path"`
	ReferencePath string `mapstructure:"reference_path"`
	ReportPath    string `mapstructure:"report_path"`
}

// HeadlessConfig configures the browser-backed fetcher.
type HeadlessConfig struct {
	MaxParallel int `mapstructure:"max_parallel"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("JOBHARVEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source.name", "gumtree")
	v.SetDefault("source.base_url", "https://www.gumtree.com/jobs/cash-in-hand")
	v.SetDefault("source.site_base", "https://www.gumtree.com")
	v.SetDefault("source.identity", "url_segment")
	v.SetDefault("source.fetcher", "headless")
	v.SetDefault("source.user_agent", "jobharvest-bot/0.1")
	v.SetDefault("harvest.target", 0)
	v.SetDefault("harvest.default_target", 1321)
	v.SetDefault("harvest.concurrency", 3)
	v.SetDefault("harvest.max_pages", 200)
	v.SetDefault("harvest.fetch_delay_ms", 1200)
	v.SetDefault("harvest.page_delay_seconds", 6)
	v.SetDefault("harvest.settle_ms", 900)
	v.SetDefault("harvest.nav_timeout_seconds", 30)
	v.SetDefault("harvest.metrics_addr", "")
	v.SetDefault("dataset.path", "gumtree_jobs.csv")
	v.SetDefault("dataset.reference_path", "jobs.csv")
	v.SetDefault("dataset.report_path", "duplicates_report.csv")
	v.SetDefault("headless.max_parallel", 3)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Source.BaseURL == "" {
		return fmt.Errorf("source.base_url must be set")
	}
	if c.Source.SiteBase == "" {
		return fmt.Errorf("source.site_base must be set")
	}
	switch c.Source.Identity {
	case "url_segment", "title_company":
	default:
		return fmt.Errorf("source.identity must be url_segment or title_company")
	}
	switch c.Source.Fetcher {
	case "headless", "static":
	default:
		return fmt.Errorf("source.fetcher must be headless or static")
	}
	if c.Harvest.Target < 0 {
		return fmt.Errorf("harvest.target must be >= 0")
	}
	if c.Harvest.DefaultTarget <= 0 {
		return fmt.Errorf("harvest.default_target must be > 0")
	}
	if c.Harvest.Concurrency <= 0 {
		return fmt.Errorf("harvest.concurrency must be > 0")
	}
	if c.Harvest.MaxPages <= 0 {
		return fmt.Errorf("harvest.max_pages must be > 0")
	}
	if c.Harvest.NavTimeoutSec <= 0 {
		return fmt.Errorf("harvest.nav_timeout_seconds must be > 0")
	}
	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset.path must be set")
	}
	if c.Headless.MaxParallel <= 0 {
		return fmt.Errorf("headless.max_parallel must be > 0")
	}
	return nil
}

// FetchDelay returns the fixed pause between detail fetches per origin.
func (c Config) FetchDelay() time.Duration {
	return time.Duration(c.Harvest.FetchDelayMs) * time.Millisecond
}

// PageDelay returns the fixed pause between listing pages.
func (c Config) PageDelay() time.Duration {
	return time.Duration(c.Harvest.PageDelaySeconds) * time.Second
}

// SettleDelay returns the wait applied after navigation before extraction.
func (c Config) SettleDelay() time.Duration {
	return time.Duration(c.Harvest.SettleMs) * time.Millisecond
}

// NavTimeout returns the per-page navigation timeout.
func (c Config) NavTimeout() time.Duration {
	return time.Duration(c.Harvest.NavTimeoutSec) * time.Second
}
