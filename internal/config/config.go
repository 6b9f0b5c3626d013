// Package config provides configuration loading and validation for the CLI.
//
// Values are resolved in priority order: bound CLI flags, environment
// variables (ATS_ prefix, e.g. ATS_AI_PROVIDER), the config file, defaults.
// Provider API keys and the database URL are also read from their
// conventional variables (OPENAI_API_KEY, GEMINI_API_KEY, ANTHROPIC_API_KEY,
// DATABASE_URL).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "ATS"

// DefaultConfigName is the config file looked up in the working directory.
const DefaultConfigName = "ats-tailor"

// Store drivers.
const (
	StoreNone     = "none"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Config is the resolved CLI configuration.
type Config struct {
	AI      AIConfig      `mapstructure:"ai"`
	Scoring ScoringConfig `mapstructure:"scoring"`
	Store   StoreConfig   `mapstructure:"store"`
	Log     LogConfig     `mapstructure:"log"`
}

// AIConfig configures the generation backend of the tailoring pass.
type AIConfig struct {
	Enabled             bool          `mapstructure:"enabled"`
	Provider            string        `mapstructure:"provider"`
	Model               string        `mapstructure:"model"`
	APIKey              string        `mapstructure:"api-key"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxTokens           int           `mapstructure:"max-tokens"`
	Shot1Temperature    float64       `mapstructure:"shot1-temperature"`
	Shot2Temperature    float64       `mapstructure:"shot2-temperature"`
	JobDescriptionLimit int           `mapstructure:"job-description-limit"`
}

// ScoringConfig configures the optional semantic scorer.
type ScoringConfig struct {
	Semantic       bool   `mapstructure:"semantic"`
	EmbeddingModel string `mapstructure:"embedding-model"`
	GeminiAPIKey   string `mapstructure:"gemini-api-key"`
}

// StoreConfig selects where tailoring results are persisted.
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("ai.enabled", true)
	v.SetDefault("ai.provider", "openai")
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.api-key", "")
	v.SetDefault("ai.timeout", 30*time.Second)
	v.SetDefault("ai.max-tokens", 1200)
	v.SetDefault("ai.shot1-temperature", 0.2)
	v.SetDefault("ai.shot2-temperature", 0.4)
	v.SetDefault("ai.job-description-limit", 1500)

	v.SetDefault("scoring.semantic", false)
	v.SetDefault("scoring.embedding-model", "text-embedding-004")
	v.SetDefault("scoring.gemini-api-key", "")

	v.SetDefault("store.driver", StoreNone)
	v.SetDefault("store.dsn", "")

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
}

// Load resolves the configuration from v. An explicit path must exist; without
// one, ats-tailor.{yaml,json,toml} in the working directory is optional.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("store.dsn", EnvPrefix+"_STORE_DSN", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind DATABASE_URL: %w", err)
	}
	if err := v.BindEnv("scoring.gemini-api-key", EnvPrefix+"_SCORING_GEMINI_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_API_KEY: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(DefaultConfigName)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(cfg.AI.Provider))
	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = providerAPIKey(cfg.AI.Provider)
	}

	return &cfg, nil
}

// providerAPIKey reads the conventional API key variable of a provider.
func providerAPIKey(provider string) string {
	switch provider {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "gemini":
		return os.Getenv("GEMINI_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		return ""
	}
}

// AIAvailable reports whether the AI pass can run: it is enabled and a
// credential is configured.
func (c *Config) AIAvailable() bool {
	return c.AI.Enabled && strings.TrimSpace(c.AI.APIKey) != ""
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	switch c.AI.Provider {
	case "openai", "gemini", "anthropic":
	default:
		return &ValidationError{Field: "ai.provider", Message: fmt.Sprintf("unknown provider %q", c.AI.Provider)}
	}
	if c.AI.Timeout <= 0 {
		return &ValidationError{Field: "ai.timeout", Message: "must be positive"}
	}
	if c.AI.MaxTokens <= 0 {
		return &ValidationError{Field: "ai.max-tokens", Message: "must be positive"}
	}
	if c.AI.Shot1Temperature < 0 || c.AI.Shot1Temperature > 2 {
		return &ValidationError{Field: "ai.shot1-temperature", Message: "must be between 0 and 2"}
	}
	if c.AI.Shot2Temperature < 0 || c.AI.Shot2Temperature > 2 {
		return &ValidationError{Field: "ai.shot2-temperature", Message: "must be between 0 and 2"}
	}
	if c.AI.JobDescriptionLimit <= 0 {
		return &ValidationError{Field: "ai.job-description-limit", Message: "must be positive"}
	}

	switch c.Store.Driver {
	case StoreNone:
	case StorePostgres, StoreSQLite:
		if c.Store.DSN == "" {
			return &ValidationError{Field: "store.dsn", Message: fmt.Sprintf("required for driver %q", c.Store.Driver)}
		}
	default:
		return &ValidationError{Field: "store.driver", Message: fmt.Sprintf("unknown driver %q", c.Store.Driver)}
	}

	if c.Scoring.Semantic && c.Scoring.GeminiAPIKey == "" {
		return &ValidationError{Field: "scoring.gemini-api-key", Message: "required when semantic scoring is enabled"}
	}

	return nil
}
