package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// ImportStatus is the state of a background URL-list import.
type ImportStatus struct {
	JobID        string    `json:"job_id"`
	UserID       string    `json:"user_id"`
	Status       string    `json:"status"`
	TotalURLs    int       `json:"totalUrls"`
	SuccessCount int       `json:"successCount"`
	ErrorCount   int       `json:"errorCount"`
	Message      string    `json:"message,omitempty"`
	Error        string    `json:"error,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ImportStatusStore keeps ImportStatus records in Redis. A nil client turns
// every operation into a no-op.
type ImportStatusStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewImportStatusStore creates a store whose records expire after ttl.
func NewImportStatusStore(client *redis.Client, ttl time.Duration) *ImportStatusStore {
	return &ImportStatusStore{
		client: client,
		prefix: "import:status:",
		ttl:    ttl,
	}
}

// NewRedisClient parses a redis:// or rediss:// URL and verifies the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Connected to Redis", "addr", opts.Addr)
	return client, nil
}

func (s *ImportStatusStore) key(jobID string) string {
	return s.prefix + jobID
}

func (s *ImportStatusStore) Get(ctx context.Context, jobID string) (*ImportStatus, error) {
	if s.client == nil {
		return nil, nil
	}

	data, err := s.client.Get(ctx, s.key(jobID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get import status: %w", err)
	}

	var status ImportStatus
	if err := json.Unmarshal(data, &status); err != nil {
		slog.Warn("Failed to unmarshal import status", "job_id", jobID, "error", err)
		return nil, nil
	}
	return &status, nil
}

func (s *ImportStatusStore) Set(ctx context.Context, status *ImportStatus) error {
	if s.client == nil {
		return nil
	}
	if status.JobID == "" {
		return errors.New("import status has no job id")
	}

	status.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.key(status.JobID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("set import status: %w", err)
	}
	return nil
}
