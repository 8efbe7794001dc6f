package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter = otel.Meter("recipebook/business")

	// Recipe metrics
	RecipeExtractionsTotal metric.Int64Counter
	RecipeImportDuration   metric.Float64Histogram
	BatchItemsTotal        metric.Int64Counter

	// File classification
	FileClassificationsTotal metric.Int64Counter

	// External API metrics
	ExternalAPICallsTotal metric.Int64Counter
	ExternalAPIDuration   metric.Float64Histogram

	// AI metrics
	AIGenerationDuration metric.Float64Histogram
)

func Init() error {
	var err error

	RecipeExtractionsTotal, err = meter.Int64Counter(
		"recipe.extractions.total",
		metric.WithDescription("Total number of recipe extractions by provider and outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	RecipeImportDuration, err = meter.Float64Histogram(
		"recipe.import.duration",
		metric.WithDescription("Duration of a URL list import"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.5, 1, 2, 5, 10, 30, 60, 120, 300),
	)
	if err != nil {
		return err
	}

	BatchItemsTotal, err = meter.Int64Counter(
		"batch.items.total",
		metric.WithDescription("URL list items processed, by outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	FileClassificationsTotal, err = meter.Int64Counter(
		"file.classifications.total",
		metric.WithDescription("Uploaded file classifications by result type"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	ExternalAPICallsTotal, err = meter.Int64Counter(
		"external.api.calls.total",
		metric.WithDescription("Total number of external API calls"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	ExternalAPIDuration, err = meter.Float64Histogram(
		"external.api.duration",
		metric.WithDescription("Duration of external API calls"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30),
	)
	if err != nil {
		return err
	}

	AIGenerationDuration, err = meter.Float64Histogram(
		"ai.generation.duration",
		metric.WithDescription("Duration of AI recipe generation"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30, 60),
	)
	if err != nil {
		return err
	}

	return nil
}

// RecordExternalCall records one outbound call. Safe before Init.
func RecordExternalCall(ctx context.Context, target, outcome string, start time.Time) {
	attrs := metric.WithAttributes(
		attribute.String("provider", target),
		attribute.String("outcome", outcome),
	)
	if ExternalAPIDuration != nil {
		ExternalAPIDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	}
	if ExternalAPICallsTotal != nil {
		ExternalAPICallsTotal.Add(ctx, 1, attrs)
	}
}

// RecordGeneration records the latency of one model call. Safe before Init.
func RecordGeneration(ctx context.Context, provider string, start time.Time) {
	if AIGenerationDuration == nil {
		return
	}
	AIGenerationDuration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("provider", provider)))
}

// RecordExtraction counts one extraction attempt. Safe before Init.
func RecordExtraction(ctx context.Context, provider, outcome string) {
	if RecipeExtractionsTotal == nil {
		return
	}
	RecipeExtractionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("outcome", outcome),
	))
}

// RecordClassification counts one file classification. Safe before Init.
func RecordClassification(ctx context.Context, resultType string) {
	if FileClassificationsTotal == nil {
		return
	}
	FileClassificationsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("type", resultType)))
}

// RecordBatchItem counts one fan-out item. Safe before Init.
func RecordBatchItem(ctx context.Context, outcome string) {
	if BatchItemsTotal == nil {
		return
	}
	BatchItemsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordImport records the duration of a whole URL list import. Safe before Init.
func RecordImport(ctx context.Context, mode string, start time.Time) {
	if RecipeImportDuration == nil {
		return
	}
	RecipeImportDuration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("mode", mode)))
}
