package recipe

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/socialchef/recipebook/internal/errors"
)

// ProviderKind names one of the supported AI backends.
type ProviderKind string

const (
	ProviderOpenAI ProviderKind = "openai"
	ProviderGemini ProviderKind = "gemini"
)

// DisplayName is the human readable provider name used in user-facing messages.
func (k ProviderKind) DisplayName() string {
	switch k {
	case ProviderGemini:
		return "Gemini"
	case ProviderOpenAI:
		return "OpenAI"
	default:
		return string(k)
	}
}

// ParseProviderKind maps a stored ai_provider value to a ProviderKind.
// An empty value means openai.
func ParseProviderKind(s string) (ProviderKind, error) {
	switch ProviderKind(strings.ToLower(strings.TrimSpace(s))) {
	case "", ProviderOpenAI:
		return ProviderOpenAI, nil
	case ProviderGemini:
		return ProviderGemini, nil
	default:
		return "", apperrors.NewConfigurationError(
			fmt.Sprintf("Unsupported AI provider: %s", s),
			"UNKNOWN_PROVIDER",
			"Select OpenAI or Gemini on the settings page.",
		)
	}
}

// Recipe is the structured result of an extraction.
type Recipe struct {
	Name         string `json:"name"`
	Ingredients  string `json:"ingredients"`
	Instructions string `json:"instructions"`
	SourceURL    string `json:"source_url,omitempty"`
}

// Complete reports whether all content fields are present.
func (r *Recipe) Complete() bool {
	return r != nil && r.Name != "" && r.Ingredients != "" && r.Instructions != ""
}

// ClassificationType is the tag of a file classification.
type ClassificationType string

const (
	ClassificationRecipe  ClassificationType = "recipe"
	ClassificationURLList ClassificationType = "url_list"
	ClassificationUnknown ClassificationType = "unknown"
)

// Classification is the outcome of analysing an uploaded file.
// Recipe is set for ClassificationRecipe, URLs for ClassificationURLList.
type Classification struct {
	Type   ClassificationType
	Recipe *Recipe
	URLs   []string
}

// TextExtractor turns free text into a recipe.
type TextExtractor interface {
	ExtractRecipe(ctx context.Context, apiKey, text string) (*Recipe, error)
}

// FileClassifier sorts an image or document into a Classification.
type FileClassifier interface {
	ClassifyFile(ctx context.Context, apiKey string, data []byte, mimeType string) (*Classification, error)
}
