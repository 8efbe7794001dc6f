package worker

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TypeImportURLList = "import:url_list"

// importTimeout bounds a whole URL list; each URL costs a page fetch and a
// model call.
const importTimeout = 30 * time.Minute

// ImportURLListPayload is the payload for background URL-list imports.
// API keys are resolved when the task runs and never travel in the payload.
type ImportURLListPayload struct {
	JobID  string   `json:"job_id"`
	UserID string   `json:"user_id"`
	URLs   []string `json:"urls"`
}

// NewImportURLListTask creates a new URL-list import task. Imports are not
// retried: a rerun would persist the already imported recipes again.
func NewImportURLListTask(payload ImportURLListPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeImportURLList, data,
		asynq.Queue(QueueImports),
		asynq.MaxRetry(0),
		asynq.Timeout(importTimeout),
	), nil
}
