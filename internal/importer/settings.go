package importer

import (
	"context"
	"errors"

	"github.com/socialchef/recipebook/internal/db"
	"github.com/socialchef/recipebook/internal/services/recipe"
)

// UserSettings is a user's provider choice and stored API keys.
type UserSettings struct {
	Provider     string
	OpenAIAPIKey string
	GeminiAPIKey string
}

// Credential resolves the provider kind and the key stored for it. The key is
// empty when the user has not registered one.
func (s UserSettings) Credential() (recipe.ProviderKind, string, error) {
	kind, err := recipe.ParseProviderKind(s.Provider)
	if err != nil {
		return "", "", err
	}
	if kind == recipe.ProviderGemini {
		return kind, s.GeminiAPIKey, nil
	}
	return kind, s.OpenAIAPIKey, nil
}

// SettingsStore looks up user settings. Implementations return db.ErrNotFound
// when the user has no settings row.
type SettingsStore interface {
	GetUserSettings(ctx context.Context, userID string) (db.UserSetting, error)
}

// RecipeStore persists extracted recipes.
type RecipeStore interface {
	CreateRecipe(ctx context.Context, arg db.CreateRecipeParams) (db.Recipe, error)
}

// loadSettings returns found=false without error when no row exists.
func loadSettings(ctx context.Context, store SettingsStore, userID string) (UserSettings, bool, error) {
	row, err := store.GetUserSettings(ctx, userID)
	if errors.Is(err, db.ErrNotFound) {
		return UserSettings{}, false, nil
	}
	if err != nil {
		return UserSettings{}, false, err
	}
	return UserSettings{
		Provider:     row.AiProvider.String,
		OpenAIAPIKey: row.OpenaiApiKey.String,
		GeminiAPIKey: row.GeminiApiKey.String,
	}, true, nil
}
