package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/socialchef/recipebook/internal/cache"
	"github.com/socialchef/recipebook/internal/importer"
	"github.com/socialchef/recipebook/internal/services/recipe"
)

// URLListImporter is the part of importer.Service the worker drives.
type URLListImporter interface {
	ResolveCredential(ctx context.Context, userID string) (recipe.ProviderKind, string, error)
	ImportURLsWithProgress(ctx context.Context, userID string, kind recipe.ProviderKind, apiKey string, urls []string, progress importer.ProgressFunc) importer.BatchSummary
}

type ImportProcessor struct {
	importer URLListImporter
	statuses cache.StatusStore
	metrics  *JobMetrics
}

func NewImportProcessor(imp URLListImporter, statuses cache.StatusStore, metrics *JobMetrics) *ImportProcessor {
	return &ImportProcessor{
		importer: imp,
		statuses: statuses,
		metrics:  metrics,
	}
}

// HandleImportURLList runs a queued URL-list import and records its progress.
// Errors that a retry cannot fix are wrapped with asynq.SkipRetry.
func (p *ImportProcessor) HandleImportURLList(ctx context.Context, t *asynq.Task) (err error) {
	start := time.Now()
	defer func() {
		status := jobSucceeded
		switch {
		case errors.Is(err, asynq.SkipRetry):
			status = jobRejected
		case err != nil:
			status = jobFailed
		}
		p.metrics.recordJob(ctx, t.Type(), status, start)
	}()

	var payload ImportURLListPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	slog.InfoContext(ctx, "Importing URL list", "job_id", payload.JobID, "user_id", payload.UserID, "urls", len(payload.URLs))

	status := &cache.ImportStatus{
		JobID:     payload.JobID,
		UserID:    payload.UserID,
		Status:    cache.StatusProcessing,
		TotalURLs: len(payload.URLs),
	}
	p.saveStatus(ctx, status)

	kind, apiKey, err := p.importer.ResolveCredential(ctx, payload.UserID)
	if err != nil {
		status.Status = cache.StatusFailed
		status.Error = err.Error()
		p.saveStatus(ctx, status)
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}

	summary := p.importer.ImportURLsWithProgress(ctx, payload.UserID, kind, apiKey, payload.URLs, func(s importer.BatchSummary) {
		status.SuccessCount = s.SuccessCount
		status.ErrorCount = s.ErrorCount
		p.saveStatus(ctx, status)
	})

	p.metrics.recordSummary(ctx, summary)

	status.Status = cache.StatusCompleted
	status.SuccessCount = summary.SuccessCount
	status.ErrorCount = summary.ErrorCount
	status.Message = summary.Message()
	p.saveStatus(ctx, status)

	return nil
}

func (p *ImportProcessor) saveStatus(ctx context.Context, status *cache.ImportStatus) {
	if err := p.statuses.Set(ctx, status); err != nil {
		slog.WarnContext(ctx, "Failed to store import status", "job_id", status.JobID, "status", status.Status, "error", err)
	}
}
