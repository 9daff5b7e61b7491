package config

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "prod",
		Server: ServerConfig{
			Port: 4251,
			Host: "localhost",
		},
		AlphaVantage: AlphaVantageConfig{
			BaseURL:         "https://www.alphavantage.co",
			TimeoutSeconds:  10,
			CacheTTLSeconds: 300,
			CacheMaxEntries: 500,
		},
		Suggestions: SuggestionsConfig{
			DefaultOutputSize:    "compact",
			DefaultNewsLimit:     50,
			DefaultRiskTolerance: "moderate",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Enabled: true,
				Path:    "./data/vire-options",
			},
		},
		Watchlist: WatchlistConfig{
			Symbols: []string{},
			// 06:30 on weekdays
			Schedule: "0 30 6 * * 1-5",
		},
		Tracing: TracingConfig{
			Enabled:     false,
			ServiceName: "vire-options",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Outputs:    []string{"console"},
			FilePath:   "logs/vire-options.log",
			MaxSizeMB:  10,
			MaxBackups: 5,
		},
	}
}
