package api

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"

	"github.com/socialchef/recipebook/internal/cache"
	"github.com/socialchef/recipebook/internal/importer"
	"github.com/socialchef/recipebook/internal/services/recipe"
)

// Importer is the part of importer.Service the handlers call.
type Importer interface {
	ExtractFromSource(ctx context.Context, src importer.Source) (*recipe.Recipe, error)
	ImportFile(ctx context.Context, userID string, data []byte, mimeType string) (*importer.FileResult, error)
	ResolveCredential(ctx context.Context, userID string) (recipe.ProviderKind, string, error)
}

// Enqueuer submits background tasks. *asynq.Client satisfies it.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type Server struct {
	importer       Importer
	queue          Enqueuer
	statuses       cache.StatusStore
	maxUploadBytes int64
}

// NewServer builds the HTTP handlers. queue and statuses may be nil, which
// disables the background import routes.
func NewServer(imp Importer, queue Enqueuer, statuses cache.StatusStore, maxUploadBytes int64) *Server {
	return &Server{
		importer:       imp,
		queue:          queue,
		statuses:       statuses,
		maxUploadBytes: maxUploadBytes,
	}
}

// Mount registers the recipe routes on r.
func (s *Server) Mount(r chi.Router) {
	r.Post("/scrape-recipe", s.HandleScrapeRecipe)
	r.Post("/ocr-recipe", s.HandleOCRRecipe)

	if s.queue != nil && s.statuses != nil {
		r.Post("/import-urls", s.HandleImportURLs)
		r.Get("/import-status", s.HandleImportStatus)
	}
}
