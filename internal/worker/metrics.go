package worker

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/socialchef/recipebook/internal/importer"
)

var meter = otel.Meter("github.com/socialchef/recipebook/worker")

// Job outcomes used as the status label.
const (
	jobSucceeded = "success"
	jobFailed    = "failed"
	jobRejected  = "rejected"
)

// JobMetrics records queued import jobs. A nil *JobMetrics records nothing.
type JobMetrics struct {
	jobs     metric.Int64Counter
	duration metric.Float64Histogram
	batch    metric.Int64Histogram
	urls     metric.Int64Counter
}

func NewJobMetrics() (*JobMetrics, error) {
	jobs, err := meter.Int64Counter(
		"worker.jobs.total",
		metric.WithDescription("Queued import jobs by outcome"),
		metric.WithUnit("{job}"),
	)
	if err != nil {
		return nil, err
	}

	// A URL list is imported one page and one model call at a time.
	duration, err := meter.Float64Histogram(
		"worker.job.duration",
		metric.WithDescription("Wall time of a queued import job"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 30, 60, 120, 300, 600, 1200),
	)
	if err != nil {
		return nil, err
	}

	batch, err := meter.Int64Histogram(
		"worker.job.urls",
		metric.WithDescription("URLs per queued import job"),
		metric.WithUnit("{url}"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100),
	)
	if err != nil {
		return nil, err
	}

	urls, err := meter.Int64Counter(
		"worker.job.url_outcomes",
		metric.WithDescription("URLs handled by queued import jobs, by outcome"),
		metric.WithUnit("{url}"),
	)
	if err != nil {
		return nil, err
	}

	return &JobMetrics{jobs: jobs, duration: duration, batch: batch, urls: urls}, nil
}

func (m *JobMetrics) recordJob(ctx context.Context, jobType, status string, start time.Time) {
	if m == nil {
		return
	}
	typeAttr := attribute.String("job.type", jobType)
	m.jobs.Add(ctx, 1, metric.WithAttributes(typeAttr, attribute.String("status", status)))
	m.duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(typeAttr))
}

func (m *JobMetrics) recordSummary(ctx context.Context, s importer.BatchSummary) {
	if m == nil {
		return
	}
	m.batch.Record(ctx, int64(s.TotalURLs))
	if s.SuccessCount > 0 {
		m.urls.Add(ctx, int64(s.SuccessCount), metric.WithAttributes(attribute.String("outcome", "saved")))
	}
	if s.ErrorCount > 0 {
		m.urls.Add(ctx, int64(s.ErrorCount), metric.WithAttributes(attribute.String("outcome", "failed")))
	}
}
