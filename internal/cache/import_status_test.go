package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportStatusStore_NilClient(t *testing.T) {
	store := NewImportStatusStore(nil, time.Hour)

	err := store.Set(context.Background(), &ImportStatus{JobID: "job-1", Status: StatusQueued})
	require.NoError(t, err)

	got, err := store.Get(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestImportStatusStore_Key(t *testing.T) {
	store := NewImportStatusStore(nil, time.Hour)
	assert.Equal(t, "import:status:abc", store.key("abc"))
}

func TestImportStatusStore_ImplementsStatusStore(t *testing.T) {
	var _ StatusStore = NewImportStatusStore(nil, time.Minute)
}

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "http://not-redis")
	assert.Error(t, err)
}
