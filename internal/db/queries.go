package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("db: not found")

type DBTX interface {
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

const getUserSettings = `-- name: GetUserSettings :one
SELECT user_id, ai_provider, openai_api_key, gemini_api_key
FROM user_settings
WHERE user_id = $1
`

// GetUserSettings returns ErrNotFound when the user has no settings row.
func (q *Queries) GetUserSettings(ctx context.Context, userID string) (UserSetting, error) {
	var i UserSetting
	row := q.db.QueryRow(ctx, getUserSettings, userID)
	err := row.Scan(
		&i.UserID,
		&i.AiProvider,
		&i.OpenaiApiKey,
		&i.GeminiApiKey,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return i, ErrNotFound
	}
	return i, err
}

const createRecipe = `-- name: CreateRecipe :one
INSERT INTO recipes (id, user_id, name, ingredients, instructions, source_url)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, user_id, name, ingredients, instructions, source_url, created_at
`

type CreateRecipeParams struct {
	UserID       string
	Name         string
	Ingredients  string
	Instructions string
	SourceUrl    string
}

func (q *Queries) CreateRecipe(ctx context.Context, arg CreateRecipeParams) (Recipe, error) {
	var i Recipe
	if arg.UserID == "" {
		return i, errors.New("create recipe: empty user id")
	}
	row := q.db.QueryRow(ctx, createRecipe,
		pgtype.UUID{Bytes: uuid.New(), Valid: true},
		arg.UserID,
		arg.Name,
		arg.Ingredients,
		arg.Instructions,
		pgtype.Text{String: arg.SourceUrl, Valid: arg.SourceUrl != ""},
	)
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Name,
		&i.Ingredients,
		&i.Instructions,
		&i.SourceUrl,
		&i.CreatedAt,
	)
	return i, err
}
