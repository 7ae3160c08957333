package cache

import (
	"context"
	"time"
)

// BytesCache is the minimal cache contract the tracking lookup needs.
// Implementations are best-effort: callers must work correctly when every
// Get misses and every Set fails.
type BytesCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
