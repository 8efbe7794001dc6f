package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}
	return path
}

func TestLoadExtractionConfig(t *testing.T) {
	configPath := writeConfig(t, `extraction:
  openai_model: gpt-4o
  gemini_model: gemini-2.0-flash
  temperature: 0.1
  max_content_chars: 12000
  fetch_timeout_seconds: 15
  max_upload_bytes: 1048576
import_status:
  ttl_minutes: 30`)

	cfg := &Config{}
	if err := cfg.LoadFromYAML(configPath); err != nil {
		t.Fatalf("Failed to load YAML config: %v", err)
	}

	if cfg.Extraction.OpenAIModel != "gpt-4o" {
		t.Errorf("Expected openai_model 'gpt-4o', got '%s'", cfg.Extraction.OpenAIModel)
	}
	if cfg.Extraction.GeminiModel != "gemini-2.0-flash" {
		t.Errorf("Expected gemini_model 'gemini-2.0-flash', got '%s'", cfg.Extraction.GeminiModel)
	}
	if cfg.Extraction.Temperature == nil || *cfg.Extraction.Temperature != 0.1 {
		t.Errorf("Expected temperature 0.1, got %v", cfg.Extraction.Temperature)
	}
	if cfg.Extraction.MaxContentChars != 12000 {
		t.Errorf("Expected max_content_chars 12000, got %d", cfg.Extraction.MaxContentChars)
	}
	if cfg.FetchTimeout() != 15*time.Second {
		t.Errorf("Expected fetch timeout 15s, got %v", cfg.FetchTimeout())
	}
	if cfg.Extraction.MaxUploadBytes != 1048576 {
		t.Errorf("Expected max_upload_bytes 1048576, got %d", cfg.Extraction.MaxUploadBytes)
	}
	if cfg.ImportStatusTTL() != 30*time.Minute {
		t.Errorf("Expected status TTL 30m, got %v", cfg.ImportStatusTTL())
	}
}

func TestLoadExtractionConfigPartial(t *testing.T) {
	configPath := writeConfig(t, `extraction:
  gemini_model: gemini-custom`)

	cfg := &Config{}
	cfg.SetExtractionDefaults()
	if err := cfg.LoadFromYAML(configPath); err != nil {
		t.Fatalf("Failed to load YAML config: %v", err)
	}

	if cfg.Extraction.GeminiModel != "gemini-custom" {
		t.Errorf("Expected gemini_model 'gemini-custom', got '%s'", cfg.Extraction.GeminiModel)
	}
	if cfg.Extraction.OpenAIModel != DefaultOpenAIModel {
		t.Errorf("Expected default openai model, got '%s'", cfg.Extraction.OpenAIModel)
	}
	if cfg.Extraction.MaxContentChars != DefaultMaxContentChars {
		t.Errorf("Expected default content cap %d, got %d", DefaultMaxContentChars, cfg.Extraction.MaxContentChars)
	}
}

func TestTemperatureZeroIsKept(t *testing.T) {
	configPath := writeConfig(t, `extraction:
  temperature: 0`)

	cfg := &Config{}
	if err := cfg.LoadFromYAML(configPath); err != nil {
		t.Fatalf("Failed to load YAML config: %v", err)
	}
	cfg.SetExtractionDefaults()

	if cfg.Extraction.Temperature == nil || *cfg.Extraction.Temperature != 0 {
		t.Errorf("Expected explicit temperature 0 to survive defaults, got %v", cfg.Extraction.Temperature)
	}
}

func TestSetExtractionDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.SetExtractionDefaults()

	if cfg.Extraction.OpenAIModel != "gpt-4o-mini" {
		t.Errorf("Expected default openai model 'gpt-4o-mini', got '%s'", cfg.Extraction.OpenAIModel)
	}
	if cfg.Extraction.GeminiModel != "gemini-2.5-flash" {
		t.Errorf("Expected default gemini model 'gemini-2.5-flash', got '%s'", cfg.Extraction.GeminiModel)
	}
	if *cfg.Extraction.Temperature != 0.3 {
		t.Errorf("Expected default temperature 0.3, got %v", *cfg.Extraction.Temperature)
	}
	if cfg.Extraction.MaxContentChars != 8000 {
		t.Errorf("Expected default content cap 8000, got %d", cfg.Extraction.MaxContentChars)
	}
}

func TestLoadFromYAMLMissingFile(t *testing.T) {
	cfg := &Config{}
	if err := cfg.LoadFromYAML(filepath.Join(t.TempDir(), "nope.yaml")); err != nil {
		t.Errorf("Expected no error for missing file, got %v", err)
	}
}

func TestLoadFromYAMLInvalid(t *testing.T) {
	configPath := writeConfig(t, "extraction: [unclosed")

	cfg := &Config{}
	if err := cfg.LoadFromYAML(configPath); err == nil {
		t.Error("Expected parse error for invalid YAML")
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("DATABASE_URL", "postgres://localhost/recipebook")
	t.Setenv("REDIS_URL", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.AsyncImportEnabled() {
		t.Error("Expected async import to be disabled without REDIS_URL")
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Error("Expected error when DATABASE_URL is missing")
	}
}

func TestValidateTemperatureRange(t *testing.T) {
	hot := float32(3)
	cfg := &Config{DatabaseURL: "postgres://x", Extraction: ExtractionConfig{Temperature: &hot}}

	if err := cfg.validate(); err == nil {
		t.Error("Expected error for out-of-range temperature")
	}
}

func TestLoadExtractionConfigNonPositiveCapKeepsDefault(t *testing.T) {
	configPath := writeConfig(t, `extraction:
  max_content_chars: -5`)

	cfg := &Config{}
	if err := cfg.LoadFromYAML(configPath); err != nil {
		t.Fatalf("Failed to load YAML config: %v", err)
	}
	cfg.SetExtractionDefaults()

	if cfg.Extraction.MaxContentChars != DefaultMaxContentChars {
		t.Errorf("Expected default content cap %d, got %d", DefaultMaxContentChars, cfg.Extraction.MaxContentChars)
	}
}
