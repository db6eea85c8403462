package cache

import (
	"context"
	"testing"
	"time"

	"script-split/internal/chunker"
)

// TestNoOpCache verifies that NoOpCache implements the Cache interface correctly
func TestNoOpCache(t *testing.T) {
	var cache Cache = NewNoOpCache()
	ctx := context.Background()

	// GetChunks - should always return nil (cache miss)
	result, err := cache.GetChunks(ctx, "test-key")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if result != nil {
		t.Errorf("Expected nil result (cache miss), got %v", result)
	}

	// SetChunks - should succeed silently
	err = cache.SetChunks(ctx, "test-key", []chunker.Chunk{chunker.NewChunk(1, "Hello.")}, 1*time.Hour)
	if err != nil {
		t.Errorf("Expected no error on SetChunks, got %v", err)
	}

	// Verify it still returns nil (nothing was actually cached)
	result, err = cache.GetChunks(ctx, "test-key")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if result != nil {
		t.Errorf("Expected nil result (no-op cache doesn't store), got %v", result)
	}

	if err := cache.Close(); err != nil {
		t.Errorf("Expected no error on Close, got %v", err)
	}
}
