package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration. It is constructed once at
// process start and passed into every component constructor.
type Config struct {
	Registry   RegistryConfig   `yaml:"registry" mapstructure:"registry"`
	Search     SearchConfig     `yaml:"search" mapstructure:"search"`
	Places     PlacesConfig     `yaml:"places" mapstructure:"places"`
	GSA        GSAConfig        `yaml:"gsa" mapstructure:"gsa"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Classifier ClassifierConfig `yaml:"classifier" mapstructure:"classifier"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// RegistryConfig configures the Secretary of State registry backend.
type RegistryConfig struct {
	Driver             string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL        string `yaml:"database_url" mapstructure:"database_url"`
	StatementTimeoutMS int    `yaml:"statement_timeout_ms" mapstructure:"statement_timeout_ms"`
	MaxRowsPerVariant  int    `yaml:"max_rows_per_variant" mapstructure:"max_rows_per_variant"`
}

// SearchConfig configures the web search provider and the evidence collector.
type SearchConfig struct {
	Key              string `yaml:"key" mapstructure:"key"`
	BaseURL          string `yaml:"base_url" mapstructure:"base_url"`
	SearchBaseURL    string `yaml:"search_base_url" mapstructure:"search_base_url"`
	TimeoutSecs      int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxQueries       int    `yaml:"max_queries" mapstructure:"max_queries"`
	ScrapeResults    bool   `yaml:"scrape_results" mapstructure:"scrape_results"`
	MaxSnippetChars  int    `yaml:"max_snippet_chars" mapstructure:"max_snippet_chars"`
	ScrapeTimeoutSec int    `yaml:"scrape_timeout_secs" mapstructure:"scrape_timeout_secs"`
}

// PlacesConfig configures the Google Places profile lookup.
type PlacesConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// GSAConfig configures the GSA Site Scanning federal-domain oracle.
type GSAConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// AnthropicConfig configures the optional deep-research enrichment.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ClassifierConfig configures the entity-type classifier.
type ClassifierConfig struct {
	VocabPath string `yaml:"vocab_path" mapstructure:"vocab_path"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("RESOLVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("registry.driver", "postgres")
	v.SetDefault("registry.statement_timeout_ms", 3000)
	v.SetDefault("registry.max_rows_per_variant", 25)
	v.SetDefault("search.base_url", "https://r.jina.ai")
	v.SetDefault("search.search_base_url", "https://s.jina.ai")
	v.SetDefault("search.timeout_secs", 15)
	v.SetDefault("search.max_queries", 8)
	v.SetDefault("search.scrape_results", true)
	v.SetDefault("search.max_snippet_chars", 4000)
	v.SetDefault("search.scrape_timeout_secs", 10)
	v.SetDefault("places.base_url", "https://places.googleapis.com/v1")
	v.SetDefault("places.timeout_secs", 10)
	v.SetDefault("gsa.base_url", "https://api.gsa.gov/technology/site-scanning/v1")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
