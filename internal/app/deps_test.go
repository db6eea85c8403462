package app

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"script-split/internal/cache"
	"script-split/internal/config"
	"script-split/internal/splitter"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildLLM(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		wantName string
		wantErr  bool
	}{
		{name: "disabled", cfg: config.Config{LLMProvider: "none"}},
		{name: "gemini without key", cfg: config.Config{LLMProvider: "gemini"}},
		{name: "openai without key", cfg: config.Config{LLMProvider: "openai"}},
		{name: "openai with key", cfg: config.Config{LLMProvider: "openai", OpenAIKey: "sk-test"}, wantName: "openai"},
		{name: "unknown provider", cfg: config.Config{LLMProvider: "claude"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := buildLLM(context.Background(), tt.cfg, discardLogger())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantName == "" {
				assert.Nil(t, client)
				return
			}
			require.NotNil(t, client)
			assert.Equal(t, tt.wantName, client.Name())
		})
	}
}

func TestBuildCache(t *testing.T) {
	c, err := buildCache(config.Config{CacheProvider: "none"}, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &cache.NoOpCache{}, c)

	c, err = buildCache(config.Config{CacheProvider: "redis", RedisAddr: "127.0.0.1:1"}, discardLogger())
	require.NoError(t, err, "unreachable redis degrades to no cache")
	assert.IsType(t, &cache.NoOpCache{}, c)

	_, err = buildCache(config.Config{CacheProvider: "memcached"}, discardLogger())
	assert.Error(t, err)
}

func TestAssembleWithoutDelegate(t *testing.T) {
	deps, err := Assemble(context.Background(), config.Config{LLMProvider: "none", CacheProvider: "none"}, discardLogger())
	require.NoError(t, err)
	defer deps.Close()

	assert.Nil(t, deps.LLM)
	require.NotNil(t, deps.Splitter)
	assert.False(t, deps.Splitter.SmartSplitAvailable())

	res, err := deps.Splitter.Split(context.Background(), "One. Two. Three.", splitter.Options{Limit: 5, SmartSplit: true})
	require.NoError(t, err)
	assert.Equal(t, splitter.StrategyAlgorithmic, res.Strategy)
	assert.Len(t, res.Chunks, 3)
}

func TestAssembleWithDelegate(t *testing.T) {
	deps, err := Assemble(context.Background(), config.Config{LLMProvider: "openai", OpenAIKey: "sk-test"}, discardLogger())
	require.NoError(t, err)
	assert.True(t, deps.Splitter.SmartSplitAvailable())
}

func TestConnectQueueRequiresURL(t *testing.T) {
	deps := Deps{Log: discardLogger()}
	_, _, err := deps.ConnectQueue("test")
	assert.Error(t, err)
}
