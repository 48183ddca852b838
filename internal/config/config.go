package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL           = "https://api.pixelstarships.com/"
	DefaultCacheTTL         = 15 * time.Minute
	DefaultBigSetThreshold  = 15
	DefaultMaxSearchResults = 25
	DefaultRefreshInterval  = 10 * time.Minute
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	RedisURL         string
	APIURL           string
	LanguageKey      string
	CacheTTL         time.Duration
	BigSetThreshold  int
	MaxSearchResults int
	// RefreshInterval is how often the worker re-fetches game data.
	RefreshInterval time.Duration

	// ConfigPath is the optional YAML file the values below were read from.
	ConfigPath string
	XML        XMLConfig
}

// XMLConfig controls how upstream XML is converted into records.
type XMLConfig struct {
	// IDAttributes maps an element tag to the attributes that identify
	// repeated siblings, in order of preference.
	IDAttributes map[string][]string `yaml:"id_attributes"`
}

// fileConfig is the YAML shape. Environment variables override its values.
type fileConfig struct {
	APIURL           string    `yaml:"api_url"`
	LanguageKey      string    `yaml:"language_key"`
	CacheTTL         string    `yaml:"cache_ttl"`
	BigSetThreshold  *int      `yaml:"big_set_threshold"`
	MaxSearchResults *int      `yaml:"max_search_results"`
	RefreshInterval  string    `yaml:"refresh_interval"`
	XML              XMLConfig `yaml:"xml"`
}

func defaultIDAttributes() map[string][]string {
	return map[string][]string{
		"Ingredient": {"ItemDesignId"},
		"Sprite":     {"SpriteId", "SpriteKey"},
		"File":       {"FileId"},
	}
}

// Load reads configuration from the YAML file named by YADC_CONFIG, if any,
// then applies environment overrides and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Environment:      getEnv("ENVIRONMENT", "development"),
		LogLevel:         parseLogLevel(getEnv("LOG_LEVEL", "info")),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379"),
		APIURL:           DefaultAPIURL,
		LanguageKey:      "en",
		CacheTTL:         DefaultCacheTTL,
		BigSetThreshold:  DefaultBigSetThreshold,
		MaxSearchResults: DefaultMaxSearchResults,
		RefreshInterval:  DefaultRefreshInterval,
		ConfigPath:       os.Getenv("YADC_CONFIG"),
		XML:              XMLConfig{IDAttributes: defaultIDAttributes()},
	}

	if cfg.ConfigPath != "" {
		if err := cfg.applyFile(cfg.ConfigPath); err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	if fc.APIURL != "" {
		c.APIURL = fc.APIURL
	}
	if fc.LanguageKey != "" {
		c.LanguageKey = fc.LanguageKey
	}
	if fc.CacheTTL != "" {
		ttl, err := time.ParseDuration(fc.CacheTTL)
		if err != nil {
			return fmt.Errorf("cache_ttl: %w", err)
		}
		c.CacheTTL = ttl
	}
	if fc.RefreshInterval != "" {
		interval, err := time.ParseDuration(fc.RefreshInterval)
		if err != nil {
			return fmt.Errorf("refresh_interval: %w", err)
		}
		c.RefreshInterval = interval
	}
	if fc.BigSetThreshold != nil {
		c.BigSetThreshold = *fc.BigSetThreshold
	}
	if fc.MaxSearchResults != nil {
		c.MaxSearchResults = *fc.MaxSearchResults
	}
	for tag, attrs := range fc.XML.IDAttributes {
		c.XML.IDAttributes[tag] = attrs
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.APIURL = getEnv("PSS_API_URL", c.APIURL)
	c.LanguageKey = getEnv("LANGUAGE_KEY", c.LanguageKey)

	if v := os.Getenv("CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CACHE_TTL: %w", err)
		}
		c.CacheTTL = ttl
	}
	if v := os.Getenv("REFRESH_INTERVAL"); v != "" {
		interval, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REFRESH_INTERVAL: %w", err)
		}
		c.RefreshInterval = interval
	}
	if v := os.Getenv("BIG_SET_THRESHOLD"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BIG_SET_THRESHOLD: %w", err)
		}
		c.BigSetThreshold = n
	}
	if v := os.Getenv("MAX_SEARCH_RESULTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MAX_SEARCH_RESULTS: %w", err)
		}
		c.MaxSearchResults = n
	}
	return nil
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api url: %q", cfg.APIURL)
	}
	if !strings.HasSuffix(cfg.APIURL, "/") {
		cfg.APIURL += "/"
	}
	if strings.TrimSpace(cfg.LanguageKey) == "" {
		return fmt.Errorf("language key is required")
	}
	if cfg.CacheTTL <= 0 {
		return fmt.Errorf("cache ttl must be positive, got %s", cfg.CacheTTL)
	}
	if cfg.RefreshInterval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %s", cfg.RefreshInterval)
	}
	if cfg.BigSetThreshold < 0 {
		return fmt.Errorf("big set threshold must not be negative, got %d", cfg.BigSetThreshold)
	}
	if cfg.MaxSearchResults < 1 {
		return fmt.Errorf("max search results must be at least 1, got %d", cfg.MaxSearchResults)
	}
	for tag, attrs := range cfg.XML.IDAttributes {
		if len(attrs) == 0 {
			return fmt.Errorf("id attributes for %s are empty", tag)
		}
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// RedisEnabled reports whether a shared cache is configured. REDIS_URL=none
// runs with in-process caching only.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" && !strings.EqualFold(c.RedisURL, "none")
}
