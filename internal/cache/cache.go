package cache

import (
	"context"
	"time"

	"script-split/internal/chunker"
)

// Cache memoizes smart-split results so repeated requests skip the delegate.
type Cache interface {
	// GetChunks retrieves cached chunks by key.
	// Returns nil if not found
	GetChunks(ctx context.Context, key string) ([]chunker.Chunk, error)

	// SetChunks stores chunks with TTL
	SetChunks(ctx context.Context, key string, chunks []chunker.Chunk, ttl time.Duration) error

	// Close closes the cache connection
	Close() error
}
