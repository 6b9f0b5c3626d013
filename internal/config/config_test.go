package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets variables that would leak into Load from the developer's shell.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"OPENAI_API_KEY", "GEMINI_API_KEY", "ANTHROPIC_API_KEY", "DATABASE_URL"} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.True(t, cfg.AI.Enabled)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 1200, cfg.AI.MaxTokens)
	assert.Equal(t, 0.2, cfg.AI.Shot1Temperature)
	assert.Equal(t, 0.4, cfg.AI.Shot2Temperature)
	assert.Equal(t, 1500, cfg.AI.JobDescriptionLimit)
	assert.Equal(t, StoreNone, cfg.Store.Driver)
	assert.False(t, cfg.AIAvailable())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_ProviderKeyFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ATS_AI_PROVIDER", "Anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.AI.Provider)
	assert.Equal(t, "sk-ant", cfg.AI.APIKey)
	assert.True(t, cfg.AIAvailable())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ATS_AI_TIMEOUT", "5s")
	t.Setenv("ATS_AI_SHOT2_TEMPERATURE", "0.7")
	t.Setenv("DATABASE_URL", "postgres://localhost/ats")
	t.Setenv("ATS_STORE_DRIVER", "postgres")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 0.7, cfg.AI.Shot2Temperature)
	assert.Equal(t, StorePostgres, cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/ats", cfg.Store.DSN)
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := `
ai:
  provider: gemini
  api-key: from-file
  timeout: 12s
store:
  driver: sqlite
  dsn: file:results.db
log:
  json: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, "from-file", cfg.AI.APIKey)
	assert.Equal(t, 12*time.Second, cfg.AI.Timeout)
	assert.Equal(t, StoreSQLite, cfg.Store.Driver)
	assert.True(t, cfg.Log.JSON)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_DefaultFileInWorkingDir(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.WriteFile(DefaultConfigName+".toml", []byte("[ai]\nmodel = \"gpt-4o\"\n"), 0o644))

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", cfg.AI.Model)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(viper.New(), "/nonexistent/ats.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			AI: AIConfig{
				Provider: "openai", Timeout: time.Second, MaxTokens: 100,
				Shot1Temperature: 0.2, Shot2Temperature: 0.4, JobDescriptionLimit: 1500,
			},
			Store: StoreConfig{Driver: StoreNone},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"unknown provider", func(c *Config) { c.AI.Provider = "mistral" }, "ai.provider"},
		{"zero timeout", func(c *Config) { c.AI.Timeout = 0 }, "ai.timeout"},
		{"zero max tokens", func(c *Config) { c.AI.MaxTokens = 0 }, "ai.max-tokens"},
		{"shot1 temperature", func(c *Config) { c.AI.Shot1Temperature = 2.5 }, "ai.shot1-temperature"},
		{"shot2 temperature", func(c *Config) { c.AI.Shot2Temperature = -1 }, "ai.shot2-temperature"},
		{"job limit", func(c *Config) { c.AI.JobDescriptionLimit = 0 }, "ai.job-description-limit"},
		{"unknown driver", func(c *Config) { c.Store.Driver = "mysql" }, "store.driver"},
		{"missing dsn", func(c *Config) { c.Store.Driver = StorePostgres }, "store.dsn"},
		{"semantic without key", func(c *Config) { c.Scoring.Semantic = true }, "scoring.gemini-api-key"},
	}

	require.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
			assert.Contains(t, err.Error(), "config error")
		})
	}
}
