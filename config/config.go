// Package config manages application configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	ythttp "ytrss/http"
	"ytrss/internal/retry"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "YTRSS_"

// Config holds all application configuration for feed extraction.
type Config struct {
	// HTTPTimeout bounds a single page or feed request
	HTTPTimeout time.Duration `json:"http_timeout" yaml:"http_timeout"`
	// UserAgent is sent with every request
	UserAgent string `json:"user_agent" yaml:"user_agent"`
	// RequestsPerSecond limits requests per host (0 = unlimited)
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`

	// MaxRetries is the maximum number of retries for failed requests
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
	// InitialBackoff is the initial backoff duration for retries
	InitialBackoff time.Duration `json:"initial_backoff" yaml:"initial_backoff"`
	// MaxBackoff is the maximum backoff duration for retries
	MaxBackoff time.Duration `json:"max_backoff" yaml:"max_backoff"`
	// BackoffMultiplier is the multiplier for exponential backoff (must be > 1)
	BackoffMultiplier float64 `json:"backoff_multiplier" yaml:"backoff_multiplier"`

	// Clipboard selects the clipboard backend: "system" or "command"
	Clipboard string `json:"clipboard" yaml:"clipboard"`
	// ToastDisplay is how long a toast stays before fading
	ToastDisplay time.Duration `json:"toast_display" yaml:"toast_display"`
	// ToastFade is the length of the fade before removal
	ToastFade time.Duration `json:"toast_fade" yaml:"toast_fade"`

	// VerifyFeed fetches the feed after a successful copy
	VerifyFeed bool `json:"verify_feed" yaml:"verify_feed"`
	// LogLevel is one of debug, info, warn, error
	LogLevel string `json:"log_level" yaml:"log_level"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	httpCfg := ythttp.DefaultConfig()
	return &Config{
		HTTPTimeout:       httpCfg.Timeout,
		UserAgent:         httpCfg.UserAgent,
		RequestsPerSecond: httpCfg.RequestsPerSecond,
		MaxRetries:        httpCfg.Retry.MaxRetries,
		InitialBackoff:    httpCfg.Retry.InitialBackoff,
		MaxBackoff:        httpCfg.Retry.MaxBackoff,
		BackoffMultiplier: httpCfg.Retry.Multiplier,
		Clipboard:         "system",
		ToastDisplay:      3 * time.Second,
		ToastFade:         300 * time.Millisecond,
		VerifyFeed:        false,
		LogLevel:          "info",
	}
}

// Load loads configuration from a .env file, environment variables and a
// config file, and applies defaults.
// Priority: env vars > config file > defaults
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := DefaultConfig()

	if err := cfg.loadFromFile(searchPaths()); err != nil {
		// Config file is optional
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func searchPaths() []string {
	names := []string{"ytrss.json", "ytrss.yaml", "ytrss.yml"}
	paths := append([]string(nil), names...)
	if home, err := os.UserHomeDir(); err == nil {
		for _, n := range names {
			paths = append(paths, filepath.Join(home, ".config", "ytrss", n))
		}
	}
	return paths
}

// loadFromFile reads the first existing file in paths. The format follows
// the extension.
func (c *Config) loadFromFile(paths []string) error {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			err = yaml.Unmarshal(data, c)
		default:
			err = json.Unmarshal(data, c)
		}
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}

	return fs.ErrNotExist
}

// loadFromEnv overrides config with environment variables. Unlike file
// values, a malformed variable is an error rather than silently ignored.
func (c *Config) loadFromEnv() error {
	var errs []error
	str := func(key string, dst *string) {
		if v := os.Getenv(EnvPrefix + key); v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v := os.Getenv(EnvPrefix + key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = d
		}
	}
	float := func(key string, dst *float64) {
		if v := os.Getenv(EnvPrefix + key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = f
		}
	}

	dur("HTTP_TIMEOUT", &c.HTTPTimeout)
	str("USER_AGENT", &c.UserAgent)
	float("REQUESTS_PER_SECOND", &c.RequestsPerSecond)
	if v := os.Getenv(EnvPrefix + "MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sMAX_RETRIES: %w", EnvPrefix, err))
		} else {
			c.MaxRetries = n
		}
	}
	dur("INITIAL_BACKOFF", &c.InitialBackoff)
	dur("MAX_BACKOFF", &c.MaxBackoff)
	float("BACKOFF_MULTIPLIER", &c.BackoffMultiplier)
	str("CLIPBOARD", &c.Clipboard)
	dur("TOAST_DISPLAY", &c.ToastDisplay)
	dur("TOAST_FADE", &c.ToastFade)
	if v := os.Getenv(EnvPrefix + "VERIFY_FEED"); v != "" {
		c.VerifyFeed = v == "true" || v == "1"
	}
	str("LOG_LEVEL", &c.LogLevel)

	return errors.Join(errs...)
}

// Validate checks that configuration values are valid and consistent.
// It returns an error if any configuration value is invalid.
func (c *Config) Validate() error {
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive")
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must be non-negative")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative")
	}
	if c.InitialBackoff <= 0 {
		return fmt.Errorf("initial_backoff must be positive")
	}
	if c.MaxBackoff <= 0 {
		return fmt.Errorf("max_backoff must be positive")
	}
	if c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("max_backoff must be >= initial_backoff")
	}
	if c.BackoffMultiplier <= 1 {
		return fmt.Errorf("backoff_multiplier must be > 1")
	}
	switch c.Clipboard {
	case "system", "command":
	default:
		return fmt.Errorf("clipboard must be system or command, got %q", c.Clipboard)
	}
	if c.ToastDisplay <= 0 || c.ToastFade <= 0 {
		return fmt.Errorf("toast_display and toast_fade must be positive")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return nil
}

// Retry returns the retry settings.
func (c *Config) Retry() retry.Config {
	r := retry.DefaultConfig()
	r.MaxRetries = c.MaxRetries
	r.InitialBackoff = c.InitialBackoff
	r.MaxBackoff = c.MaxBackoff
	r.Multiplier = c.BackoffMultiplier
	return r
}

// HTTP returns the HTTP client settings.
func (c *Config) HTTP() *ythttp.Config {
	h := ythttp.DefaultConfig()
	h.Timeout = c.HTTPTimeout
	h.UserAgent = c.UserAgent
	h.RequestsPerSecond = c.RequestsPerSecond
	h.Retry = c.Retry()
	return h
}
