package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENVIRONMENT", "LOG_LEVEL", "REDIS_URL", "PSS_API_URL", "CACHE_TTL",
		"BIG_SET_THRESHOLD", "MAX_SEARCH_RESULTS", "LANGUAGE_KEY", "YADC_CONFIG", "REFRESH_INTERVAL",
	} {
		t.Setenv(key, "")
	}
}

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "yadc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL)
	assert.Equal(t, DefaultBigSetThreshold, cfg.BigSetThreshold)
	assert.Equal(t, DefaultMaxSearchResults, cfg.MaxSearchResults)
	assert.Equal(t, DefaultRefreshInterval, cfg.RefreshInterval)
	assert.Equal(t, []string{"ItemDesignId"}, cfg.XML.IDAttributes["Ingredient"])
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PSS_API_URL", "http://localhost:9000")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("BIG_SET_THRESHOLD", "0")
	t.Setenv("MAX_SEARCH_RESULTS", "5")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REFRESH_INTERVAL", "1m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/", cfg.APIURL, "trailing slash is added")
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, 0, cfg.BigSetThreshold)
	assert.Equal(t, 5, cfg.MaxSearchResults)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, time.Minute, cfg.RefreshInterval)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	t.Setenv("YADC_CONFIG", writeTempConfig(t, `
api_url: https://example.com/api/
cache_ttl: 1h
big_set_threshold: 4
xml:
  id_attributes:
    Requirement: [RequirementId, ItemDesignId]
`))
	t.Setenv("BIG_SET_THRESHOLD", "7")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/api/", cfg.APIURL)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, 7, cfg.BigSetThreshold, "environment wins over the file")
	assert.Equal(t, []string{"RequirementId", "ItemDesignId"}, cfg.XML.IDAttributes["Requirement"])
	assert.Contains(t, cfg.XML.IDAttributes, "Sprite", "defaults are kept")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		file string
	}{
		{name: "bad ttl", env: map[string]string{"CACHE_TTL": "soon"}},
		{name: "negative ttl", env: map[string]string{"CACHE_TTL": "-1m"}},
		{name: "bad threshold", env: map[string]string{"BIG_SET_THRESHOLD": "many"}},
		{name: "negative threshold", env: map[string]string{"BIG_SET_THRESHOLD": "-1"}},
		{name: "zero refresh interval", env: map[string]string{"REFRESH_INTERVAL": "0s"}},
		{name: "bad file refresh interval", file: "refresh_interval: often\n"},
		{name: "zero max results", env: map[string]string{"MAX_SEARCH_RESULTS": "0"}},
		{name: "relative api url", env: map[string]string{"PSS_API_URL": "api.example.com"}},
		{name: "invalid yaml", file: "api_url: [\n"},
		{name: "bad file ttl", file: "cache_ttl: later\n"},
		{name: "empty id attributes", file: "xml:\n  id_attributes:\n    Room: []\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if tt.file != "" {
				t.Setenv("YADC_CONFIG", writeTempConfig(t, tt.file))
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("YADC_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	assert.Error(t, err)
}

func TestRedisEnabled(t *testing.T) {
	assert.True(t, (&Config{RedisURL: "redis://localhost:6379"}).RedisEnabled())
	assert.False(t, (&Config{RedisURL: "none"}).RedisEnabled())
	assert.False(t, (&Config{RedisURL: "NONE"}).RedisEnabled())
	assert.False(t, (&Config{}).RedisEnabled())
}
