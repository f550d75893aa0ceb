// Package config loads semplan settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// CatalogURL is the base for catalog files: an http(s) URL, a file://
	// URL or a directory path.
	CatalogURL     string
	DBPath         string
	PollInterval   time.Duration
	FetchTimeout   time.Duration
	FetchRetries   int
	Campus         string
	FilterDebounce time.Duration
	LogLevel       string
	LogFormat      string
	LogFetches     bool
}

// DefaultConfig returns a Config with defaults for every field.
func DefaultConfig() Config {
	return Config{
		CatalogURL:     "https://fit-planner.example.edu/assets/data/",
		DBPath:         defaultDBPath(),
		PollInterval:   60 * time.Second,
		FetchTimeout:   30 * time.Second,
		FetchRetries:   1,
		Campus:         "Main Campus",
		FilterDebounce: 200 * time.Millisecond,
		LogLevel:       "info",
		LogFormat:      "auto",
		LogFetches:     false,
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".semplan", "semplan.db")
	}
	return filepath.Join(home, ".semplan", "semplan.db")
}

// LoadConfig reads configuration from environment variables, falling back
// to defaults for unset values, and validates the result.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("SEMPLAN_CATALOG_URL"); v != "" {
		cfg.CatalogURL = v
	}
	if v := os.Getenv("SEMPLAN_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("SEMPLAN_CAMPUS"); v != "" {
		cfg.Campus = v
	}
	if v := os.Getenv("SEMPLAN_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("SEMPLAN_LOG_FORMAT"); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}

	var errs []error
	durationEnv(&cfg.PollInterval, "SEMPLAN_POLL_INTERVAL", &errs)
	durationEnv(&cfg.FetchTimeout, "SEMPLAN_FETCH_TIMEOUT", &errs)
	durationEnv(&cfg.FilterDebounce, "SEMPLAN_FILTER_DEBOUNCE", &errs)
	if v := os.Getenv("SEMPLAN_FETCH_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("SEMPLAN_FETCH_RETRIES: %w", err))
		} else {
			cfg.FetchRetries = n
		}
	}
	if v := os.Getenv("SEMPLAN_LOG_FETCHES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("SEMPLAN_LOG_FETCHES: %w", err))
		} else {
			cfg.LogFetches = b
		}
	}
	if len(errs) > 0 {
		return cfg, errors.Join(errs...)
	}
	return cfg, cfg.Validate()
}

func durationEnv(dst *time.Duration, name string, errs *[]error) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", name, err))
		return
	}
	*dst = d
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.CatalogURL) == "" {
		errs = append(errs, errors.New("catalog url must not be empty"))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("db path must not be empty"))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll interval must be positive, got %s", c.PollInterval))
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("fetch timeout must be positive, got %s", c.FetchTimeout))
	}
	if c.FetchRetries < 0 {
		errs = append(errs, fmt.Errorf("fetch retries must not be negative, got %d", c.FetchRetries))
	}
	if c.FilterDebounce < 0 {
		errs = append(errs, fmt.Errorf("filter debounce must not be negative, got %s", c.FilterDebounce))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	switch c.LogFormat {
	case "text", "json", "auto":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	return errors.Join(errs...)
}
