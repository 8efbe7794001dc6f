// Package integration drives the HTTP router end to end with the real
// importer, fetcher, registry and query layer. Only the database connection
// and the AI providers are replaced.
package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/socialchef/recipebook/internal/api"
	"github.com/socialchef/recipebook/internal/db"
	"github.com/socialchef/recipebook/internal/httpclient"
	"github.com/socialchef/recipebook/internal/importer"
	"github.com/socialchef/recipebook/internal/sentry"
	"github.com/socialchef/recipebook/internal/services/recipe"
	"github.com/socialchef/recipebook/internal/services/scraper"
)

// ============================================================================
// In-memory database
// ============================================================================

type row struct {
	values []any
	err    error
}

func (r row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan: got %d destinations for %d columns", len(dest), len(r.values))
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.values[i]))
	}
	return nil
}

type storedRecipe struct {
	UserID       string
	Name         string
	Ingredients  string
	Instructions string
	SourceURL    pgtype.Text
}

// memoryDB answers the two statements db.Queries issues.
type memoryDB struct {
	mu       sync.Mutex
	settings map[string]db.UserSetting
	recipes  []storedRecipe
}

func newMemoryDB() *memoryDB {
	return &memoryDB{settings: map[string]db.UserSetting{}}
}

func (m *memoryDB) setSettings(userID, provider, openaiKey, geminiKey string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[userID] = db.UserSetting{
		UserID:       userID,
		AiProvider:   pgtype.Text{String: provider, Valid: provider != ""},
		OpenaiApiKey: pgtype.Text{String: openaiKey, Valid: openaiKey != ""},
		GeminiApiKey: pgtype.Text{String: geminiKey, Valid: geminiKey != ""},
	}
}

func (m *memoryDB) savedRecipes() []storedRecipe {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]storedRecipe(nil), m.recipes...)
}

func (m *memoryDB) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case strings.Contains(sql, "FROM user_settings"):
		s, ok := m.settings[args[0].(string)]
		if !ok {
			return row{err: pgx.ErrNoRows}
		}
		return row{values: []any{s.UserID, s.AiProvider, s.OpenaiApiKey, s.GeminiApiKey}}

	case strings.Contains(sql, "INSERT INTO recipes"):
		rec := storedRecipe{
			UserID:       args[1].(string),
			Name:         args[2].(string),
			Ingredients:  args[3].(string),
			Instructions: args[4].(string),
			SourceURL:    args[5].(pgtype.Text),
		}
		m.recipes = append(m.recipes, rec)
		return row{values: []any{
			args[0].(pgtype.UUID), rec.UserID, rec.Name, rec.Ingredients, rec.Instructions, rec.SourceURL,
			pgtype.Timestamptz{Time: time.Now(), Valid: true},
		}}
	}
	return row{err: fmt.Errorf("unexpected statement: %s", sql)}
}

// ============================================================================
// AI provider fakes
// ============================================================================

// textProvider extracts "name|ingredients|instructions" from the first line
// that starts with "RECIPE:".
type textProvider struct {
	mu    sync.Mutex
	texts []string
}

func (p *textProvider) ExtractRecipe(ctx context.Context, apiKey, text string) (*recipe.Recipe, error) {
	p.mu.Lock()
	p.texts = append(p.texts, text)
	p.mu.Unlock()

	_, after, ok := strings.Cut(text, "RECIPE:")
	if !ok {
		return recipe.ParseRecipe(`{"error":"見つかりませんでした"}`)
	}
	fields := strings.SplitN(strings.Fields(after)[0], "|", 3)
	if len(fields) != 3 {
		return recipe.ParseRecipe(`{}`)
	}
	return &recipe.Recipe{Name: fields[0], Ingredients: fields[1], Instructions: fields[2]}, nil
}

// visionProvider adds a canned file classification to textProvider.
type visionProvider struct {
	textProvider
	classification *recipe.Classification
}

func (p *visionProvider) ClassifyFile(ctx context.Context, apiKey string, data []byte, mimeType string) (*recipe.Classification, error) {
	return p.classification, nil
}

// noDescriptions fails every YouTube lookup; these tests use plain pages.
type noDescriptions struct{}

func (noDescriptions) ShortDescription(ctx context.Context, videoID string) (string, error) {
	return "", scraper.ErrVideoNotFound
}

// ============================================================================
// Router
// ============================================================================

type harness struct {
	db     *memoryDB
	gemini *visionProvider
	openai *textProvider
	router http.Handler
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		db:     newMemoryDB(),
		gemini: &visionProvider{},
		openai: &textProvider{},
	}

	queries := db.New(h.db)
	fetcher := scraper.NewFetcher(httpclient.New(5*time.Second), noDescriptions{}, scraper.DefaultMaxChars)
	registry := recipe.NewRegistry(map[recipe.ProviderKind]recipe.TextExtractor{
		recipe.ProviderOpenAI: h.openai,
		recipe.ProviderGemini: h.gemini,
	})
	service := importer.NewService(queries, queries, fetcher, registry)

	r := chi.NewRouter()
	r.Use(sentry.HTTPMiddleware)
	api.NewServer(service, nil, nil, 1<<20).Mount(r)
	h.router = r
	return h
}

func (h *harness) serve(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.router.ServeHTTP(rr, req)
	return rr
}
