package cache

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"script-split/internal/chunker"
)

// MockCache is a mock implementation of the Cache interface for testing
type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetChunks(ctx context.Context, key string) ([]chunker.Chunk, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]chunker.Chunk), args.Error(1)
}

func (m *MockCache) SetChunks(ctx context.Context, key string, chunks []chunker.Chunk, ttl time.Duration) error {
	args := m.Called(ctx, key, chunks, ttl)
	return args.Error(0)
}

func (m *MockCache) Close() error {
	args := m.Called()
	return args.Error(0)
}
