package db

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type UserSetting struct {
	UserID       string
	AiProvider   pgtype.Text
	OpenaiApiKey pgtype.Text
	GeminiApiKey pgtype.Text
}

type Recipe struct {
	ID           pgtype.UUID
	UserID       string
	Name         string
	Ingredients  string
	Instructions string
	SourceUrl    pgtype.Text
	CreatedAt    pgtype.Timestamptz
}
