package cache

import (
	"context"
)

// StatusStore persists background import progress.
type StatusStore interface {
	// Get returns nil, nil when the job is unknown or has expired.
	Get(ctx context.Context, jobID string) (*ImportStatus, error)

	// Set stores the status under its JobID, refreshing the TTL.
	Set(ctx context.Context, status *ImportStatus) error
}
