package worker

import (
	"context"
	"net/http"
	"strconv"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"

	apperrors "github.com/socialchef/recipebook/internal/errors"
)

// SentryMiddleware reports failed jobs and panics to Sentry. Failures caused
// by user configuration (a 4xx AppError) are not reported.
func SentryMiddleware(h asynq.Handler) asynq.Handler {
	return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) (err error) {
		taskID, _ := asynq.GetTaskID(ctx)
		queueName, _ := asynq.GetQueueName(ctx)
		retryCount, _ := asynq.GetRetryCount(ctx)

		hub := sentry.CurrentHub().Clone()
		hub.Scope().SetTag("task_type", t.Type())
		hub.Scope().SetTag("task_id", taskID)
		hub.Scope().SetTag("queue", queueName)
		hub.Scope().SetTag("retry_count", strconv.Itoa(retryCount))

		ctx = sentry.SetHubOnContext(ctx, hub)

		defer func() {
			if r := recover(); r != nil {
				hub.RecoverWithContext(ctx, r)
				panic(r)
			}
		}()

		err = h.ProcessTask(ctx, t)
		if err != nil && reportable(err) {
			hub.CaptureException(err)
		}
		return err
	})
}

func reportable(err error) bool {
	return apperrors.StatusCode(err) >= http.StatusInternalServerError
}
