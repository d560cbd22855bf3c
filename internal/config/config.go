// Package config loads and validates notionsync configuration. Non-secret
// settings come from a YAML file; credentials come from the environment
// (optionally via a .env file) and are validated once at load time.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	syncerrors "git.home.luguber.info/inful/notionsync/internal/errors"
)

// Environment variable names for credentials.
const (
	EnvToken      = "NOTION_TOKEN"
	EnvDatabaseID = "NOTION_DATABASE_ID"
)

// Config is the top-level notionsync configuration.
type Config struct {
	Notion NotionConfig `yaml:"notion"`
	Site   SiteConfig   `yaml:"site"`
	Sync   SyncConfig   `yaml:"sync"`
	Daemon DaemonConfig `yaml:"daemon"`
}

// NotionConfig identifies the source database. The integration token is
// never read from the config file.
type NotionConfig struct {
	DatabaseID string `yaml:"database_id"`
	Token      string `yaml:"-"`
}

// SiteConfig locates the Jekyll site tree.
type SiteConfig struct {
	Dir string `yaml:"dir"`
}

// SyncConfig controls per-run extras.
type SyncConfig struct {
	Commit        bool   `yaml:"commit"`
	CommitMessage string `yaml:"commit_message"`
	StateDB       string `yaml:"state_db"`
}

// DaemonConfig controls scheduled sync mode. Interval is a Go duration
// string, parsed during validation.
type DaemonConfig struct {
	Interval string `yaml:"interval"`
	Listen   string `yaml:"listen"`
}

// Defaults applied to fields the file leaves empty.
const (
	DefaultSiteDir        = "."
	DefaultCommitMessage  = "Sync pages from Notion"
	DefaultDaemonInterval = "30m"
	DefaultDaemonListen   = ":9180"
)

// Load reads the config file (when it exists), applies environment overrides
// and defaults, and validates the result. A missing file is not an error:
// notionsync can run from environment variables alone.
func Load(path string) (*Config, error) {
	// Load .env/.env.local before reading the environment; existing process
	// variables win.
	for _, envPath := range []string{".env", ".env.local"} {
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			break
		}
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, syncerrors.Wrap(err, syncerrors.CategoryConfig, syncerrors.SeverityFatal,
				"parse config file").WithContext("path", path)
		}
	case os.IsNotExist(err):
		// Environment-only configuration.
	default:
		return nil, syncerrors.Wrap(err, syncerrors.CategoryConfig, syncerrors.SeverityFatal,
			"read config file").WithContext("path", path)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Notion.Token = strings.TrimSpace(os.Getenv(EnvToken))
	if dbID := strings.TrimSpace(os.Getenv(EnvDatabaseID)); dbID != "" {
		c.Notion.DatabaseID = dbID
	}
}

func (c *Config) applyDefaults() {
	if c.Site.Dir == "" {
		c.Site.Dir = DefaultSiteDir
	}
	if c.Sync.CommitMessage == "" {
		c.Sync.CommitMessage = DefaultCommitMessage
	}
	if c.Daemon.Interval == "" {
		c.Daemon.Interval = DefaultDaemonInterval
	}
	if c.Daemon.Listen == "" {
		c.Daemon.Listen = DefaultDaemonListen
	}
}

// Validate checks the assembled configuration and reports the first problem
// as a single config error.
func (c *Config) Validate() error {
	var problems []string
	if c.Notion.Token == "" {
		problems = append(problems, fmt.Sprintf("%s is required", EnvToken))
	}
	if c.Notion.DatabaseID == "" {
		problems = append(problems, fmt.Sprintf("notion.database_id (or %s) is required", EnvDatabaseID))
	}
	if _, err := time.ParseDuration(c.Daemon.Interval); err != nil {
		problems = append(problems, fmt.Sprintf("daemon.interval %q is not a valid duration", c.Daemon.Interval))
	}
	if len(problems) > 0 {
		return syncerrors.ConfigError(strings.Join(problems, "; "))
	}
	return nil
}

// IntervalDuration returns the parsed daemon interval. Validate guarantees
// it parses.
func (c *Config) IntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.Daemon.Interval)
	return d
}
