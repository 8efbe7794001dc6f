package recipe

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/socialchef/recipebook/internal/config"
	apperrors "github.com/socialchef/recipebook/internal/errors"
	"github.com/socialchef/recipebook/internal/metrics"
)

const msgClassifierUnsupported = "File analysis is currently only supported for Gemini. Please select Gemini in settings."

// Registry holds one TextExtractor per ProviderKind. Callers pick a provider
// by kind and never branch on provider identity themselves.
type Registry struct {
	extractors map[ProviderKind]TextExtractor
}

// NewRegistry builds a registry from explicit extractors.
func NewRegistry(extractors map[ProviderKind]TextExtractor) *Registry {
	return &Registry{extractors: extractors}
}

// NewRegistryFromConfig wires the OpenAI and Gemini providers from configuration.
func NewRegistryFromConfig(cfg config.ExtractionConfig, httpClient *http.Client) *Registry {
	temperature := config.DefaultTemperature
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}
	return NewRegistry(map[ProviderKind]TextExtractor{
		ProviderOpenAI: NewOpenAIProvider(cfg.OpenAIModel, temperature, httpClient),
		ProviderGemini: NewGeminiProvider(cfg.GeminiModel),
	})
}

// Extractor returns the extractor registered for kind.
func (r *Registry) Extractor(kind ProviderKind) (TextExtractor, error) {
	ex, ok := r.extractors[kind]
	if !ok {
		return nil, apperrors.NewConfigurationError(
			fmt.Sprintf("Unsupported AI provider: %s", kind),
			"UNKNOWN_PROVIDER",
			"Select OpenAI or Gemini on the settings page.",
		)
	}
	return ex, nil
}

// ExtractRecipe runs text through the provider selected by kind.
func (r *Registry) ExtractRecipe(ctx context.Context, text string, kind ProviderKind, apiKey string) (*Recipe, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewExtractionError(msgEmptyInput, "EXTRACTION_EMPTY_INPUT", nil)
	}

	ex, err := r.Extractor(kind)
	if err != nil {
		return nil, err
	}

	rec, err := ex.ExtractRecipe(ctx, apiKey, text)
	if err != nil {
		classified := ClassifyError(err, string(kind))
		slog.WarnContext(ctx, "Recipe extraction failed",
			"provider", kind,
			"error_type", classified.Type,
			"error", err,
		)
		metrics.RecordExtraction(ctx, string(kind), classified.Type)
		return nil, err
	}

	metrics.RecordExtraction(ctx, string(kind), "ok")
	return rec, nil
}

// Classifier returns the FileClassifier for kind, or an unsupported operation
// error when that provider cannot analyse files.
func (r *Registry) Classifier(kind ProviderKind) (FileClassifier, error) {
	ex, err := r.Extractor(kind)
	if err != nil {
		return nil, err
	}
	classifier, ok := ex.(FileClassifier)
	if !ok {
		return nil, apperrors.NewUnsupportedOperationError(msgClassifierUnsupported, "CLASSIFIER_UNSUPPORTED")
	}
	return classifier, nil
}
