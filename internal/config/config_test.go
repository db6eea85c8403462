package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "DEFAULT_LIMIT", "MAX_LIMIT", "LLM_PROVIDER", "LLM_MODEL",
		"SMART_SPLIT_TIMEOUT", "SMART_SPLIT_ATTEMPTS", "CACHE_PROVIDER", "CACHE_TTL",
		"WORKER_CONCURRENCY", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Port", cfg.Port, 8080},
		{"LogLevel", cfg.LogLevel, "info"},
		{"MaxUploadSize", cfg.MaxUploadSize, int64(10485760)},
		{"DefaultLimit", cfg.DefaultLimit, 2000},
		{"MaxLimit", cfg.MaxLimit, 100000},
		{"LLMProvider", cfg.LLMProvider, "gemini"},
		{"LLMModel", cfg.LLMModel, ""},
		{"SmartSplitTimeout", cfg.SmartSplitTimeout, 45 * time.Second},
		{"SmartSplitAttempts", cfg.SmartSplitAttempts, 2},
		{"CacheProvider", cfg.CacheProvider, "none"},
		{"CacheTTL", cfg.CacheTTL, 3600},
		{"WorkerConcurrency", cfg.WorkerConcurrency, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("expected %s=%v, got %v", tt.name, tt.expected, tt.got)
			}
		})
	}
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEFAULT_LIMIT", "500")
	t.Setenv("SMART_SPLIT_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg := Load()

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 500, cfg.DefaultLimit)
	assert.Equal(t, 5*time.Second, cfg.SmartSplitTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadProviderOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("CACHE_PROVIDER", "redis")

	cfg := Load()

	if cfg.LLMProvider != "openai" {
		t.Errorf("expected LLM provider 'openai', got %s", cfg.LLMProvider)
	}
	if cfg.CacheProvider != "redis" {
		t.Errorf("expected cache provider 'redis', got %s", cfg.CacheProvider)
	}
}
