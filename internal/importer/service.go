// Package importer coordinates fetching, extraction and persistence for the
// recipe import flows.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/socialchef/recipebook/internal/db"
	apperrors "github.com/socialchef/recipebook/internal/errors"
	"github.com/socialchef/recipebook/internal/logger"
	"github.com/socialchef/recipebook/internal/metrics"
	"github.com/socialchef/recipebook/internal/services/recipe"
)

const (
	msgSourceRequired    = "URL and User ID are required"
	msgNoContent         = "Could not retrieve content from the URL."
	msgSettingsNotFound  = "User settings not found."
	msgKeyNotConfigured  = "AI provider API key is not configured."
	msgUnrecognizedFile  = "The uploaded file does not appear to be a recipe or a list of recipe URLs."
	msgMissingKeyPattern = "%s APIキーが設定されていません。設定ページでAPIキーを登録してください。"
)

// ContentFetcher turns a URL into plain text.
type ContentFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// Extractor dispatches extraction and classification by provider kind.
type Extractor interface {
	ExtractRecipe(ctx context.Context, text string, kind recipe.ProviderKind, apiKey string) (*recipe.Recipe, error)
	Classifier(kind recipe.ProviderKind) (recipe.FileClassifier, error)
}

// Source is a single-source extraction request. URL wins over Text when both are set.
type Source struct {
	URL    string
	Text   string
	UserID string
}

// FileResult is the outcome of a file import: either a recipe to review or a
// summary of the persisted URL list.
type FileResult struct {
	Recipe  *recipe.Recipe
	Summary *BatchSummary
}

type Service struct {
	settings  SettingsStore
	recipes   RecipeStore
	fetcher   ContentFetcher
	extractor Extractor
}

func NewService(settings SettingsStore, recipes RecipeStore, fetcher ContentFetcher, extractor Extractor) *Service {
	return &Service{
		settings:  settings,
		recipes:   recipes,
		fetcher:   fetcher,
		extractor: extractor,
	}
}

// ExtractFromSource extracts a recipe from a URL or pasted text without
// persisting it.
func (s *Service) ExtractFromSource(ctx context.Context, src Source) (*recipe.Recipe, error) {
	start := time.Now()
	defer metrics.RecordImport(ctx, "single", start)

	src.URL = strings.TrimSpace(src.URL)
	if src.UserID == "" || (src.URL == "" && strings.TrimSpace(src.Text) == "") {
		return nil, apperrors.NewValidationError(msgSourceRequired, "SOURCE_REQUIRED", "")
	}

	kind, apiKey, err := s.ResolveCredential(ctx, src.UserID)
	if err != nil {
		return nil, err
	}

	text := src.Text
	if src.URL != "" {
		text, err = s.fetcher.FetchText(ctx, src.URL)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(text) == "" {
			return nil, apperrors.NewNotFoundError(msgNoContent, "NO_CONTENT", "")
		}
	}

	rec, err := s.extractor.ExtractRecipe(ctx, text, kind, apiKey)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Recipe extracted",
		"user_id", src.UserID,
		"provider", kind,
		"source_url", src.URL,
		logger.WithTraceContext(ctx),
	)
	return rec, nil
}

// ResolveCredential returns the user's provider and the key stored for it.
// A user without settings is treated as having empty settings.
func (s *Service) ResolveCredential(ctx context.Context, userID string) (recipe.ProviderKind, string, error) {
	settings, _, err := loadSettings(ctx, s.settings, userID)
	if err != nil {
		return "", "", apperrors.NewInternalError("Failed to load user settings", err)
	}

	kind, apiKey, err := settings.Credential()
	if err != nil {
		return "", "", err
	}
	if apiKey == "" {
		return "", "", apperrors.NewMissingKeyError(fmt.Sprintf(msgMissingKeyPattern, kind.DisplayName()), "MISSING_API_KEY")
	}
	return kind, apiKey, nil
}

// ImportFile classifies an uploaded image or PDF. A recipe is returned for
// review; a URL list is imported and persisted item by item.
func (s *Service) ImportFile(ctx context.Context, userID string, data []byte, mimeType string) (*FileResult, error) {
	start := time.Now()
	defer metrics.RecordImport(ctx, "file", start)

	settings, found, err := loadSettings(ctx, s.settings, userID)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to load user settings", err)
	}
	if !found {
		return nil, apperrors.NewConfigurationNotFoundError(msgSettingsNotFound, "SETTINGS_NOT_FOUND")
	}

	kind, apiKey, err := settings.Credential()
	if err != nil {
		return nil, err
	}
	if apiKey == "" {
		return nil, apperrors.NewMissingKeyError(msgKeyNotConfigured, "MISSING_API_KEY")
	}

	classifier, err := s.extractor.Classifier(kind)
	if err != nil {
		return nil, err
	}

	result, err := classifier.ClassifyFile(ctx, apiKey, data, mimeType)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "File classified",
		"user_id", userID,
		"mime_type", mimeType,
		"type", result.Type,
		logger.WithTraceContext(ctx),
	)

	switch result.Type {
	case recipe.ClassificationRecipe:
		return &FileResult{Recipe: result.Recipe}, nil
	case recipe.ClassificationURLList:
		summary := s.ImportURLs(ctx, userID, kind, apiKey, result.URLs)
		return &FileResult{Summary: &summary}, nil
	default:
		return nil, apperrors.NewValidationError(msgUnrecognizedFile, "UNRECOGNIZED_FILE", "")
	}
}

// ProgressFunc observes the running totals after each URL of a batch.
type ProgressFunc func(BatchSummary)

// ImportURLs fetches, extracts and persists each URL in order. Item failures
// are logged and counted, never returned.
func (s *Service) ImportURLs(ctx context.Context, userID string, kind recipe.ProviderKind, apiKey string, urls []string) BatchSummary {
	return s.ImportURLsWithProgress(ctx, userID, kind, apiKey, urls, nil)
}

func (s *Service) ImportURLsWithProgress(ctx context.Context, userID string, kind recipe.ProviderKind, apiKey string, urls []string, progress ProgressFunc) BatchSummary {
	summary := BatchSummary{TotalURLs: len(urls)}

	for _, url := range urls {
		if err := s.importOne(ctx, userID, kind, apiKey, url); err != nil {
			summary.ErrorCount++
			metrics.RecordBatchItem(ctx, "error")
			slog.WarnContext(ctx, "Failed to import recipe URL",
				"url", url,
				"user_id", userID,
				"error_type", recipe.ClassifyError(err, string(kind)).Type,
				"error", err,
				logger.WithTraceContext(ctx),
			)
		} else {
			summary.SuccessCount++
			metrics.RecordBatchItem(ctx, "ok")
		}
		if progress != nil {
			progress(summary)
		}
	}

	slog.InfoContext(ctx, "URL list import finished",
		"user_id", userID,
		"total", summary.TotalURLs,
		"success", summary.SuccessCount,
		"errors", summary.ErrorCount,
	)
	return summary
}

func (s *Service) importOne(ctx context.Context, userID string, kind recipe.ProviderKind, apiKey, url string) error {
	text, err := s.fetcher.FetchText(ctx, url)
	if err != nil {
		return err
	}

	rec, err := s.extractor.ExtractRecipe(ctx, text, kind, apiKey)
	if err != nil {
		return err
	}

	_, err = s.recipes.CreateRecipe(ctx, db.CreateRecipeParams{
		UserID:       userID,
		Name:         rec.Name,
		Ingredients:  rec.Ingredients,
		Instructions: rec.Instructions,
		SourceUrl:    url,
	})
	if err != nil {
		return fmt.Errorf("save recipe: %w", err)
	}
	return nil
}
