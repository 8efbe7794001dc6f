package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Env            string
	ServiceName    string
	ServiceVersion string
	LogLevel       string

	DatabaseURL string

	// RedisURL enables the background import queue and status store when set.
	RedisURL string

	OtelExporterOTLPEndpoint string
	OtelExporterOTLPHeaders  string
	SentryDSN                string

	Port string

	Extraction   ExtractionConfig
	ImportStatus ImportStatusConfig
}

type ExtractionConfig struct {
	OpenAIModel          string   `yaml:"openai_model"`
	GeminiModel          string   `yaml:"gemini_model"`
	Temperature          *float32 `yaml:"temperature"`
	MaxContentChars      int      `yaml:"max_content_chars"`
	FetchTimeoutSeconds  int      `yaml:"fetch_timeout_seconds"`
	MaxUploadBytes       int64    `yaml:"max_upload_bytes"`
	YouTubeClientVersion string   `yaml:"youtube_client_version"`
}

type ImportStatusConfig struct {
	TTLMinutes int `yaml:"ttl_minutes"`
}

const (
	DefaultOpenAIModel          = "gpt-4o-mini"
	DefaultGeminiModel          = "gemini-2.5-flash"
	DefaultTemperature          = float32(0.3)
	DefaultMaxContentChars      = 8000
	DefaultFetchTimeoutSeconds  = 60
	DefaultMaxUploadBytes       = 20 << 20
	DefaultYouTubeClientVersion = "2.20240313.05.00"
	DefaultImportStatusTTL      = 24 * 60
)

func Load() (*Config, error) {
	cfg := &Config{
		Env:                      os.Getenv("ENV"),
		ServiceName:              os.Getenv("SERVICE_NAME"),
		ServiceVersion:           os.Getenv("SERVICE_VERSION"),
		LogLevel:                 os.Getenv("LOG_LEVEL"),
		DatabaseURL:              os.Getenv("DATABASE_URL"),
		RedisURL:                 os.Getenv("REDIS_URL"),
		OtelExporterOTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OtelExporterOTLPHeaders:  os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"),
		SentryDSN:                os.Getenv("SENTRY_DSN"),
		Port:                     os.Getenv("PORT"),
	}

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}
	if err := cfg.LoadFromYAML(path); err != nil {
		return nil, fmt.Errorf("failed to load YAML config: %w", err)
	}

	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "recipebook"
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = "1.0.0"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	cfg.SetExtractionDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) LoadFromYAML(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var yamlConfig struct {
		Extraction   ExtractionConfig   `yaml:"extraction"`
		ImportStatus ImportStatusConfig `yaml:"import_status"`
	}

	if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	ex := yamlConfig.Extraction
	if ex.OpenAIModel != "" {
		c.Extraction.OpenAIModel = ex.OpenAIModel
	}
	if ex.GeminiModel != "" {
		c.Extraction.GeminiModel = ex.GeminiModel
	}
	if ex.Temperature != nil {
		c.Extraction.Temperature = ex.Temperature
	}
	if ex.MaxContentChars > 0 {
		c.Extraction.MaxContentChars = ex.MaxContentChars
	}
	if ex.FetchTimeoutSeconds > 0 {
		c.Extraction.FetchTimeoutSeconds = ex.FetchTimeoutSeconds
	}
	if ex.MaxUploadBytes > 0 {
		c.Extraction.MaxUploadBytes = ex.MaxUploadBytes
	}
	if ex.YouTubeClientVersion != "" {
		c.Extraction.YouTubeClientVersion = ex.YouTubeClientVersion
	}
	if yamlConfig.ImportStatus.TTLMinutes > 0 {
		c.ImportStatus.TTLMinutes = yamlConfig.ImportStatus.TTLMinutes
	}

	return nil
}

func (c *Config) SetExtractionDefaults() {
	if c.Extraction.OpenAIModel == "" {
		c.Extraction.OpenAIModel = DefaultOpenAIModel
	}
	if c.Extraction.GeminiModel == "" {
		c.Extraction.GeminiModel = DefaultGeminiModel
	}
	if c.Extraction.Temperature == nil {
		t := DefaultTemperature
		c.Extraction.Temperature = &t
	}
	if c.Extraction.MaxContentChars == 0 {
		c.Extraction.MaxContentChars = DefaultMaxContentChars
	}
	if c.Extraction.FetchTimeoutSeconds == 0 {
		c.Extraction.FetchTimeoutSeconds = DefaultFetchTimeoutSeconds
	}
	if c.Extraction.MaxUploadBytes == 0 {
		c.Extraction.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.Extraction.YouTubeClientVersion == "" {
		c.Extraction.YouTubeClientVersion = DefaultYouTubeClientVersion
	}
	if c.ImportStatus.TTLMinutes == 0 {
		c.ImportStatus.TTLMinutes = DefaultImportStatusTTL
	}
}

// FetchTimeout is the timeout applied to outbound page and model calls.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Extraction.FetchTimeoutSeconds) * time.Second
}

func (c *Config) ImportStatusTTL() time.Duration {
	return time.Duration(c.ImportStatus.TTLMinutes) * time.Minute
}

// AsyncImportEnabled reports whether the redis-backed queue is configured.
func (c *Config) AsyncImportEnabled() bool {
	return c.RedisURL != ""
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if t := c.Extraction.Temperature; t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("extraction.temperature must be between 0 and 2, got %v", *t)
	}
	return nil
}
