package recipe

import (
	"encoding/json"
	"strconv"
	"strings"

	apperrors "github.com/socialchef/recipebook/internal/errors"
	"github.com/socialchef/recipebook/internal/services/ai"
)

const (
	msgExtractionFailed = "Failed to extract recipe from text."
	msgNoRecipe         = "No valid recipe found in the text."
	msgNoResult         = "AI model did not return a result."
	msgEmptyInput       = "Input text is empty."
	msgClassifyFailed   = "Failed to analyze file with Gemini."
)

// ParseRecipe decodes a model's JSON answer into a complete Recipe.
// An "error" marker or a missing name, ingredients or instructions field
// is an extraction failure even when the JSON itself is valid.
func ParseRecipe(raw string) (*Recipe, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, apperrors.NewExtractionError(msgNoResult, "EXTRACTION_EMPTY_RESULT", nil)
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, apperrors.NewExtractionError(msgExtractionFailed, "EXTRACTION_INVALID_JSON", err)
	}

	if truthy(fields["error"]) {
		return nil, apperrors.NewExtractionError(msgNoRecipe, "EXTRACTION_NO_RECIPE", nil)
	}

	r := recipeFromFields(fields)
	if !r.Complete() {
		return nil, apperrors.NewExtractionError(msgNoRecipe, "EXTRACTION_INCOMPLETE", nil)
	}
	return r, nil
}

// parseClassification decodes the first JSON object found in a classifier answer.
func parseClassification(raw string) (*Classification, error) {
	span, err := ai.ExtractJSONObject(raw)
	if err != nil {
		return nil, apperrors.NewClassificationError(msgClassifyFailed, "CLASSIFICATION_NO_JSON", err)
	}

	var envelope struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal([]byte(span), &envelope); err != nil {
		return nil, apperrors.NewClassificationError(msgClassifyFailed, "CLASSIFICATION_INVALID_JSON", err)
	}

	switch ClassificationType(envelope.Type) {
	case ClassificationRecipe:
		var fields map[string]any
		// A malformed payload still counts as a recipe; the caller reviews it.
		_ = json.Unmarshal(envelope.Data, &fields)
		return &Classification{Type: ClassificationRecipe, Recipe: recipeFromFields(fields)}, nil
	case ClassificationURLList:
		// Every entry is kept so the batch total matches the list the model
		// returned; blanks and non-strings fail when fetched.
		var items []json.RawMessage
		_ = json.Unmarshal(envelope.Data, &items)
		urls := make([]string, 0, len(items))
		for _, item := range items {
			urls = append(urls, urlEntry(item))
		}
		return &Classification{Type: ClassificationURLList, URLs: urls}, nil
	default:
		return &Classification{Type: ClassificationUnknown}, nil
	}
}

func urlEntry(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	if string(raw) == "null" {
		return ""
	}
	return string(raw)
}

func recipeFromFields(fields map[string]any) *Recipe {
	return &Recipe{
		Name:         asText(fields["name"]),
		Ingredients:  asText(fields["ingredients"]),
		Instructions: asText(fields["instructions"]),
	}
}

// asText flattens a JSON value into newline-delimited text. Models sometimes
// answer lists where a string was asked for.
func asText(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case []any:
		lines := make([]string, 0, len(val))
		for _, item := range val {
			if s := asText(item); s != "" {
				lines = append(lines, s)
			}
		}
		return strings.Join(lines, "\n")
	case float64:
		if val == 0 {
			return ""
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "true"
		}
		return ""
	default:
		return ""
	}
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case float64:
		return val != 0
	default:
		return true
	}
}
