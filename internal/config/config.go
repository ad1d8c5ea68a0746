// Package config loads photo-studio-mcp settings.
//
// Values are resolved in order: built-in defaults, an optional YAML file, a
// .env file next to the process, and finally real environment variables.
// Later sources override earlier ones.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvLogLevel    = "PHOTO_STUDIO_LOG_LEVEL"
	EnvSiteBaseURL = "PHOTO_STUDIO_SITE_BASE_URL"
	EnvHTTPTimeout = "PHOTO_STUDIO_HTTP_TIMEOUT"
	EnvRemoveBGKey = "REMOVEBG_API_KEY"
	EnvRemoveBGURL = "REMOVEBG_BASE_URL"
)

// DefaultRemoveBGURL is the public remove.bg API root.
const DefaultRemoveBGURL = "https://api.remove.bg/v1.0"

// Config is the complete server configuration.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	RemoveBG RemoveBGConfig `yaml:"removebg"`
	Loader   LoaderConfig   `yaml:"loader"`
	Export   ExportConfig   `yaml:"export"`
	Editor   EditorConfig   `yaml:"editor"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // trace, debug, info, warn, error
}

type RemoveBGConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	Size           string `yaml:"size"` // "auto", "preview", "full"...
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	BatchSize      int    `yaml:"batch_size"`     // concurrent requests per batch
	BatchDelayMs   int    `yaml:"batch_delay_ms"` // pause between batches
}

type LoaderConfig struct {
	SiteBaseURL        string `yaml:"site_base_url"` // resolves "/path" sources
	HTTPTimeoutSeconds int    `yaml:"http_timeout_seconds"`
	MaxSourceMB        int    `yaml:"max_source_mb"`
}

type ExportConfig struct {
	Format      string `yaml:"format"`       // "png" or "jpeg"
	JPEGQuality int    `yaml:"jpeg_quality"` // 1-100
}

type EditorConfig struct {
	MaxSessions        int `yaml:"max_sessions"`         // 0 means unlimited
	IdleTimeoutMinutes int `yaml:"idle_timeout_minutes"` // 0 disables expiry
	MaxHistory         int `yaml:"max_history"`          // steps kept per session
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info"},
		RemoveBG: RemoveBGConfig{
			BaseURL:        DefaultRemoveBGURL,
			Size:           "auto",
			TimeoutSeconds: 60,
			BatchSize:      3,
			BatchDelayMs:   1000,
		},
		Loader: LoaderConfig{
			HTTPTimeoutSeconds: 30,
			MaxSourceMB:        50,
		},
		Export: ExportConfig{
			Format:      "png",
			JPEGQuality: 95,
		},
		Editor: EditorConfig{
			MaxSessions:        16,
			IdleTimeoutMinutes: 30,
			MaxHistory:         50,
		},
	}
}

// Load reads the YAML file at path (skipped when path is empty) and the .env
// file in the working directory, applies environment overrides and validates
// the result.
func Load(path string) (*Config, error) {
	return LoadFiles(path, ".env")
}

// LoadFiles is Load with an explicit .env location. A missing .env file is
// not an error; a missing YAML file or an invalid value is.
func LoadFiles(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	dotenv := map[string]string{}
	if envFile != "" {
		vals, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			dotenv = vals
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read env file %s: %w", envFile, err)
		}
	}

	// Real environment variables win over the .env file, as with godotenv.Load.
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookup(EnvRemoveBGKey); ok {
		c.RemoveBG.APIKey = v
	}
	if v, ok := lookup(EnvRemoveBGURL); ok && v != "" {
		c.RemoveBG.BaseURL = v
	}
	if v, ok := lookup(EnvSiteBaseURL); ok {
		c.Loader.SiteBaseURL = v
	}
	if v, ok := lookup(EnvHTTPTimeout); ok && v != "" {
		secs, err := parseSeconds(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvHTTPTimeout, err)
		}
		c.Loader.HTTPTimeoutSeconds = secs
	}
	return nil
}

// parseSeconds accepts "45" or a Go duration such as "1m30s".
func parseSeconds(s string) (int, error) {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return n, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return int(d / time.Second), nil
}

// Validate checks that all values are usable.
func (c *Config) Validate() error {
	var errs []error

	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	if u, err := url.Parse(c.RemoveBG.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("removebg.base_url: %q is not an absolute URL", c.RemoveBG.BaseURL))
	}
	if c.RemoveBG.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("removebg.batch_size must be at least 1, got %d", c.RemoveBG.BatchSize))
	}
	if c.RemoveBG.BatchDelayMs < 0 {
		errs = append(errs, fmt.Errorf("removebg.batch_delay_ms must not be negative"))
	}
	// A zero timeout would leave http.Client waiting forever.
	if c.RemoveBG.TimeoutSeconds < 1 {
		errs = append(errs, fmt.Errorf("removebg.timeout_seconds must be at least 1, got %d", c.RemoveBG.TimeoutSeconds))
	}
	if c.Loader.HTTPTimeoutSeconds < 1 {
		errs = append(errs, fmt.Errorf("loader.http_timeout_seconds must be at least 1, got %d", c.Loader.HTTPTimeoutSeconds))
	}
	if c.Loader.SiteBaseURL != "" {
		if u, err := url.Parse(c.Loader.SiteBaseURL); err != nil || u.Scheme == "" {
			errs = append(errs, fmt.Errorf("loader.site_base_url: %q is not an absolute URL", c.Loader.SiteBaseURL))
		}
	}
	if c.Loader.MaxSourceMB < 0 {
		errs = append(errs, fmt.Errorf("loader.max_source_mb must not be negative"))
	}
	if c.Export.JPEGQuality < 1 || c.Export.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("export.jpeg_quality must be 1-100, got %d", c.Export.JPEGQuality))
	}
	if c.Editor.MaxSessions < 0 || c.Editor.IdleTimeoutMinutes < 0 {
		errs = append(errs, fmt.Errorf("editor limits must not be negative"))
	}
	if c.Editor.MaxHistory < 1 {
		errs = append(errs, fmt.Errorf("editor.max_history must be at least 1, got %d", c.Editor.MaxHistory))
	}
	switch strings.ToLower(c.Export.Format) {
	case "png", "jpg", "jpeg":
	default:
		errs = append(errs, fmt.Errorf("export.format: unsupported %q", c.Export.Format))
	}
	return errors.Join(errs...)
}

// LogLevel returns the parsed log level, falling back to info.
func (c *Config) LogLevel() logrus.Level {
	lvl, err := logrus.ParseLevel(c.Logging.Level)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// RemoveBGTimeout is the per-request timeout of the background-removal API.
func (c *Config) RemoveBGTimeout() time.Duration {
	return time.Duration(c.RemoveBG.TimeoutSeconds) * time.Second
}

// BatchDelay is the pause between background-removal batches.
func (c *Config) BatchDelay() time.Duration {
	return time.Duration(c.RemoveBG.BatchDelayMs) * time.Millisecond
}

// HTTPTimeout is the timeout for fetching remote image sources.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.Loader.HTTPTimeoutSeconds) * time.Second
}

// IdleTimeout is how long an untouched editor session is kept.
func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.Editor.IdleTimeoutMinutes) * time.Minute
}

// MaxSourceBytes is the size limit of a single image source.
func (c *Config) MaxSourceBytes() int64 {
	return int64(c.Loader.MaxSourceMB) << 20
}
