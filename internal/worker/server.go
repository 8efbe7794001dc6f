package worker

import (
	"github.com/hibiken/asynq"
)

// NewServer creates an Asynq server for processing imports.
func NewServer(redisURL string, concurrency int) (*asynq.Server, error) {
	opt, err := ParseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	if concurrency <= 0 {
		concurrency = 4
	}

	return asynq.NewServer(
		opt,
		asynq.Config{
			Concurrency: concurrency,
			Queues:      map[string]int{QueueImports: 1},
			Logger:      newAsynqLogger(),
		},
	), nil
}

// NewServeMux registers the import handler behind the Sentry and tracing middleware.
func NewServeMux(processor *ImportProcessor) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Use(SentryMiddleware)
	mux.Use(OTelMiddleware)
	mux.HandleFunc(TypeImportURLList, processor.HandleImportURLList)
	return mux
}
