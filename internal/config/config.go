package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration for jobstat.
type Config struct {
	API      APIConfig
	Search   SearchConfig
	Database DatabaseConfig
	Report   ReportConfig
	Schedule ScheduleConfig
}

// APIConfig controls requests to the job-search API.
type APIConfig struct {
	BaseURL   string // empty selects the public HeadHunter API
	Area      string // region code, "1" is Moscow
	PerPage   int
	UserAgent string
	Timeout   time.Duration // per-request timeout
}

// SearchConfig controls candidate search and employer selection.
type SearchConfig struct {
	Keyword      string
	Pages        int
	MinListings  int
	MaxEmployers int
}

// DatabaseConfig selects the relational store.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "postgres" or "sqlite"
	DSN    string `yaml:"dsn"`    // connection URL, or a file path for sqlite
}

// ReportConfig holds query parameters for the report.
type ReportConfig struct {
	Keyword string `yaml:"keyword"`
}

// ScheduleConfig controls the start command.
type ScheduleConfig struct {
	Cron string `yaml:"cron"` // standard cron expression or descriptor, e.g. "@every 6h"
}

const (
	defaultArea         = "1"
	defaultPerPage      = 100
	defaultUserAgent    = "jobstat/1.0"
	defaultTimeout      = 30 * time.Second
	defaultKeyword      = "python"
	defaultPages        = 1
	defaultMinListings  = 2
	defaultMaxEmployers = 10
	defaultReportKey    = "intern"
	maxPerPage          = 100
)

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	API      rawAPIConfig    `yaml:"api"`
	Search   rawSearchConfig `yaml:"search"`
	Database DatabaseConfig  `yaml:"database"`
	Report   ReportConfig    `yaml:"report"`
	Schedule ScheduleConfig  `yaml:"schedule"`
}

type rawAPIConfig struct {
	BaseURL   string `yaml:"base_url"`
	Area      string `yaml:"area"`
	PerPage   int    `yaml:"per_page"`
	UserAgent string `yaml:"user_agent"`
	Timeout   string `yaml:"timeout"`
}

type rawSearchConfig struct {
	Keyword      string `yaml:"keyword"`
	Pages        int    `yaml:"pages"`
	MinListings  int    `yaml:"min_listings"`
	MaxEmployers int    `yaml:"max_employers"`
}

// Load reads the YAML config file at path, applies defaults, validates it and
// returns Config. A .env file next to the config is loaded first so its
// variables can be referenced as ${VAR}; variables already set win.
func Load(path string) (*Config, error) {
	envPath := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envPath, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	timeout := defaultTimeout
	if raw.API.Timeout != "" {
		timeout, err = time.ParseDuration(raw.API.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse api.timeout %q: %w", raw.API.Timeout, err)
		}
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL:   raw.API.BaseURL,
			Area:      orDefault(raw.API.Area, defaultArea),
			PerPage:   orDefaultInt(raw.API.PerPage, defaultPerPage),
			UserAgent: orDefault(raw.API.UserAgent, defaultUserAgent),
			Timeout:   timeout,
		},
		Search: SearchConfig{
			Keyword:      orDefault(raw.Search.Keyword, defaultKeyword),
			Pages:        orDefaultInt(raw.Search.Pages, defaultPages),
			MinListings:  orDefaultInt(raw.Search.MinListings, defaultMinListings),
			MaxEmployers: orDefaultInt(raw.Search.MaxEmployers, defaultMaxEmployers),
		},
		Database: raw.Database,
		Report: ReportConfig{
			Keyword: orDefault(raw.Report.Keyword, defaultReportKey),
		},
		Schedule: raw.Schedule,
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orDefaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func validate(cfg *Config) error {
	if cfg.API.PerPage < 1 || cfg.API.PerPage > maxPerPage {
		return fmt.Errorf("api.per_page must be between 1 and %d, got %d", maxPerPage, cfg.API.PerPage)
	}
	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %v", cfg.API.Timeout)
	}

	if cfg.Search.Pages < 1 {
		return fmt.Errorf("search.pages must be positive, got %d", cfg.Search.Pages)
	}
	if cfg.Search.MinListings < 1 {
		return fmt.Errorf("search.min_listings must be positive, got %d", cfg.Search.MinListings)
	}
	if cfg.Search.MaxEmployers < 1 {
		return fmt.Errorf("search.max_employers must be positive, got %d", cfg.Search.MaxEmployers)
	}

	switch cfg.Database.Driver {
	case "postgres", "sqlite":
	case "":
		return fmt.Errorf("database.driver is required")
	default:
		return fmt.Errorf("database.driver must be \"postgres\" or \"sqlite\", got %q", cfg.Database.Driver)
	}
	if cfg.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}

	if cfg.Schedule.Cron != "" {
		if _, err := cron.ParseStandard(cfg.Schedule.Cron); err != nil {
			return fmt.Errorf("schedule.cron %q: %w", cfg.Schedule.Cron, err)
		}
	}

	return nil
}
