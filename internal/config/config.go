package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration.
type Config struct {
	Environment  string             `toml:"environment"`
	Server       ServerConfig       `toml:"server"`
	AlphaVantage AlphaVantageConfig `toml:"alphavantage"`
	Suggestions  SuggestionsConfig  `toml:"suggestions"`
	Storage      StorageConfig      `toml:"storage"`
	Watchlist    WatchlistConfig    `toml:"watchlist"`
	Tracing      TracingConfig      `toml:"tracing"`
	Logging      LoggingConfig      `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// AlphaVantageConfig contains upstream market-data API settings.
type AlphaVantageConfig struct {
	APIKey          string `toml:"api_key"`
	BaseURL         string `toml:"base_url"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
	CacheTTLSeconds int    `toml:"cache_ttl_seconds"`
	CacheMaxEntries int    `toml:"cache_max_entries"`
}

// Timeout returns the request timeout as a duration.
func (c AlphaVantageConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheTTL returns the response cache TTL as a duration.
func (c AlphaVantageConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// SuggestionsConfig contains request defaults for the suggestion pipeline.
type SuggestionsConfig struct {
	DefaultOutputSize    string `toml:"default_output_size"`
	DefaultNewsLimit     int    `toml:"default_news_limit"`
	DefaultRiskTolerance string `toml:"default_risk_tolerance"`
}

// StorageConfig contains storage layer settings.
type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig contains BadgerDB-specific settings.
type BadgerConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// WatchlistConfig lists symbols whose market data is pre-fetched on a schedule.
type WatchlistConfig struct {
	Symbols    []string `toml:"symbols"`
	Schedule   string   `toml:"schedule"`
	RunOnStart bool     `toml:"run_on_start"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Format     string   `toml:"format"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// IsDevMode reports whether the service runs in the dev environment.
func (c *Config) IsDevMode() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "dev")
}

// Validate returns a list of configuration problems. Empty means valid.
func (c *Config) Validate() []string {
	var issues []string

	if strings.TrimSpace(c.AlphaVantage.APIKey) == "" {
		issues = append(issues, "alphavantage.api_key is required (or set ALPHA_VANTAGE_API_KEY)")
	}
	if c.AlphaVantage.BaseURL == "" {
		issues = append(issues, "alphavantage.base_url must not be empty")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}
	switch strings.ToLower(c.Suggestions.DefaultRiskTolerance) {
	case "low", "moderate", "high":
	default:
		issues = append(issues, fmt.Sprintf("suggestions.default_risk_tolerance %q must be low, moderate or high", c.Suggestions.DefaultRiskTolerance))
	}
	switch c.Suggestions.DefaultOutputSize {
	case "compact", "full":
	default:
		issues = append(issues, fmt.Sprintf("suggestions.default_output_size %q must be compact or full", c.Suggestions.DefaultOutputSize))
	}
	if c.Suggestions.DefaultNewsLimit < 1 || c.Suggestions.DefaultNewsLimit > 1000 {
		issues = append(issues, "suggestions.default_news_limit must be between 1 and 1000")
	}
	if c.Storage.Badger.Enabled && c.Storage.Badger.Path == "" {
		issues = append(issues, "storage.badger.path is required when storage is enabled")
	}
	if len(c.Watchlist.Symbols) > 0 {
		parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		if _, err := parser.Parse(c.Watchlist.Schedule); err != nil {
			issues = append(issues, fmt.Sprintf("watchlist.schedule %q is invalid: %v", c.Watchlist.Schedule, err))
		}
	}

	return issues
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("VIRE_ENV"); env != "" {
		config.Environment = env
	}
	if port := os.Getenv("VIRE_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("VIRE_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	// ALPHA_VANTAGE_API_KEY is the name the upstream docs use; the VIRE_
	// variant wins when both are set.
	if key := os.Getenv("ALPHA_VANTAGE_API_KEY"); key != "" {
		config.AlphaVantage.APIKey = key
	}
	if key := os.Getenv("VIRE_ALPHAVANTAGE_API_KEY"); key != "" {
		config.AlphaVantage.APIKey = key
	}
	if baseURL := os.Getenv("VIRE_ALPHAVANTAGE_BASE_URL"); baseURL != "" {
		config.AlphaVantage.BaseURL = baseURL
	}
	if badgerPath := os.Getenv("VIRE_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if symbols := os.Getenv("VIRE_WATCHLIST"); symbols != "" {
		config.Watchlist.Symbols = splitSymbols(symbols)
	}
	if tracing := os.Getenv("VIRE_TRACING_ENABLED"); tracing != "" {
		if b, err := strconv.ParseBool(tracing); err == nil {
			config.Tracing.Enabled = b
		}
	}
	if level := os.Getenv("VIRE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("VIRE_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
}

func splitSymbols(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// BaseURL returns the externally reachable URL of this service.
func (c *Config) BaseURL() string {
	host := c.Server.Host
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, c.Server.Port)
}
