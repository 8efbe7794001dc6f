package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/socialchef/recipebook/internal/logger"
	"github.com/socialchef/recipebook/internal/telemetry"
)

// OTelMiddleware wraps asynq job handlers with a consumer span and start/finish logs.
func OTelMiddleware(h asynq.Handler) asynq.Handler {
	return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
		tracer := telemetry.Tracer("github.com/socialchef/recipebook/worker")

		taskID, _ := asynq.GetTaskID(ctx)
		queueName, _ := asynq.GetQueueName(ctx)
		retryCount, _ := asynq.GetRetryCount(ctx)

		ctx, span := tracer.Start(ctx, fmt.Sprintf("job:%s", t.Type()), trace.WithSpanKind(trace.SpanKindConsumer))
		defer span.End()

		span.SetAttributes(
			attribute.String("job.id", taskID),
			attribute.String("job.type", t.Type()),
			attribute.String("job.queue", queueName),
			attribute.Int("job.retry_count", retryCount),
		)

		start := time.Now()
		slog.InfoContext(ctx, "Job started", "task_id", taskID, "type", t.Type(), logger.WithTraceContext(ctx))

		err := h.ProcessTask(ctx, t)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.SetAttributes(attribute.Bool("job.skip_retry", errors.Is(err, asynq.SkipRetry)))
			slog.ErrorContext(ctx, "Job failed",
				"task_id", taskID,
				"type", t.Type(),
				"duration_ms", time.Since(start).Milliseconds(),
				"error", err,
				logger.WithTraceContext(ctx),
			)
			return err
		}

		slog.InfoContext(ctx, "Job finished",
			"task_id", taskID,
			"type", t.Type(),
			"duration_ms", time.Since(start).Milliseconds(),
			logger.WithTraceContext(ctx),
		)
		return nil
	})
}
