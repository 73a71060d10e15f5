package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const dateFormat = "2006-01-02"

// Config holds all application configuration.
type Config struct {
	Tickers  []string `yaml:"tickers"`
	Provider struct {
		BaseURL             string `yaml:"base_url"`
		APIKey              string `yaml:"api_key"`
		TimeoutSeconds      int    `yaml:"timeout_seconds"`
		CallIntervalSeconds int    `yaml:"call_interval_seconds"`
	} `yaml:"provider"`
	StartDate string `yaml:"start_date"`
	Output    struct {
		Path string `yaml:"path"`
	} `yaml:"output"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TICKERS"); v != "" {
		cfg.Tickers = splitTickers(v)
	}
	if v := os.Getenv("ALPHAVANTAGE_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		cfg.Provider.APIKey = v
	}
	if v := os.Getenv("CALL_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Provider.CallIntervalSeconds = n
		}
	}
	if v := os.Getenv("START_DATE"); v != "" {
		cfg.StartDate = v
	}
	if v := os.Getenv("OUTPUT_PATH"); v != "" {
		cfg.Output.Path = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Provider.BaseURL == "" {
		cfg.Provider.BaseURL = "https://www.alphavantage.co"
	}
	if cfg.Provider.TimeoutSeconds == 0 {
		cfg.Provider.TimeoutSeconds = 30
	}
	if cfg.Provider.CallIntervalSeconds == 0 {
		cfg.Provider.CallIntervalSeconds = 12
	}
	if cfg.StartDate == "" {
		cfg.StartDate = "1970-01-01"
	}
	if cfg.Output.Path == "" {
		cfg.Output.Path = "data/closes.csv"
	}

	return cfg, nil
}

func splitTickers(v string) []string {
	parts := strings.Split(v, ",")
	tickers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tickers = append(tickers, p)
		}
	}
	return tickers
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if len(c.Tickers) == 0 {
		return fmt.Errorf("tickers is required")
	}
	seen := make(map[string]bool, len(c.Tickers))
	for _, t := range c.Tickers {
		if seen[t] {
			return fmt.Errorf("duplicate ticker %q", t)
		}
		seen[t] = true
	}
	if c.Provider.APIKey == "" {
		return fmt.Errorf("provider.api_key is required")
	}
	if c.Provider.TimeoutSeconds <= 0 {
		return fmt.Errorf("provider.timeout_seconds must be positive")
	}
	if c.Provider.CallIntervalSeconds < 0 {
		return fmt.Errorf("provider.call_interval_seconds must not be negative")
	}
	if _, err := c.StartDateTime(); err != nil {
		return fmt.Errorf("invalid start_date %q", c.StartDate)
	}
	if c.Output.Path == "" {
		return fmt.Errorf("output.path is required")
	}
	return nil
}

// StartDateTime parses the configured cutoff date.
func (c *Config) StartDateTime() (time.Time, error) {
	return time.Parse(dateFormat, c.StartDate)
}

// Timeout returns the per-request HTTP timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Provider.TimeoutSeconds) * time.Second
}

// CallInterval returns the pause enforced between consecutive provider calls.
func (c *Config) CallInterval() time.Duration {
	return time.Duration(c.Provider.CallIntervalSeconds) * time.Second
}
