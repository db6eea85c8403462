package cache

import (
	"context"
	"time"

	"script-split/internal/chunker"
)

// NoOpCache is a cache implementation that does nothing.
// Used when no cache is configured or Redis is unavailable - all operations
// succeed but no actual caching occurs (always cache miss).
type NoOpCache struct{}

// NewNoOpCache creates a new no-op cache instance
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// GetChunks always returns nil (cache miss)
func (c *NoOpCache) GetChunks(ctx context.Context, key string) ([]chunker.Chunk, error) {
	return nil, nil
}

// SetChunks does nothing and always succeeds
func (c *NoOpCache) SetChunks(ctx context.Context, key string, chunks []chunker.Chunk, ttl time.Duration) error {
	return nil
}

// Close does nothing and always succeeds
func (c *NoOpCache) Close() error {
	return nil
}
