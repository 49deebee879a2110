package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATA_SOURCE", "")
	t.Setenv("ENV", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8089", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, SourceFile, cfg.Data.Source)
	assert.Equal(t, 8, cfg.Data.FetchConcurrency)
	assert.Equal(t, "0 30 16 * * 1-5", cfg.RefreshSchedule)
	assert.Equal(t, 6*time.Hour, cfg.Redis.TTL)
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("DATA_SOURCE", "HTTP")
	t.Setenv("DATA_BASE_URL", "http://localhost:9999/data")
	t.Setenv("FETCH_CONCURRENCY", "4")
	t.Setenv("HTTP_RATE_LIMIT", "2.5")
	t.Setenv("NAVER_FALLBACK_ENABLED", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, SourceHTTP, cfg.Data.Source)
	assert.Equal(t, "http://localhost:9999/data", cfg.Data.BaseURL)
	assert.Equal(t, 4, cfg.Data.FetchConcurrency)
	assert.InDelta(t, 2.5, cfg.Data.HTTPRateLimit, 1e-9)
	assert.True(t, cfg.Naver.FallbackEnabled)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Env:  "development",
			Data: DataConfig{Source: SourceFile, Dir: "./data", FetchConcurrency: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid file source", func(c *Config) {}, ""},
		{"bad env", func(c *Config) { c.Env = "qa" }, "ENV must be one of"},
		{"postgres without url", func(c *Config) { c.Data.Source = SourcePostgres }, "DATABASE_URL is required"},
		{"postgres with url", func(c *Config) {
			c.Data.Source = SourcePostgres
			c.Database.URL = "postgres://localhost/test"
		}, ""},
		{"http without base url", func(c *Config) { c.Data.Source = SourceHTTP }, "DATA_BASE_URL is required"},
		{"unknown source", func(c *Config) { c.Data.Source = "ftp" }, "DATA_SOURCE must be one of"},
		{"zero concurrency", func(c *Config) { c.Data.FetchConcurrency = 0 }, "FETCH_CONCURRENCY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("CFG_INT", "abc")
	t.Setenv("CFG_BOOL", "yes-please")
	t.Setenv("CFG_DUR", "nonsense")

	assert.Equal(t, 7, getEnvAsInt("CFG_INT", 7))
	assert.True(t, getEnvAsBool("CFG_BOOL", true))
	assert.Equal(t, 5*time.Second, getEnvAsDuration("CFG_DUR", "5s"))
	assert.InDelta(t, 1.5, getEnvAsFloat("CFG_MISSING", 1.5), 1e-9)
}
