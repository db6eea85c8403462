package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds runtime configuration shared by the gateway, worker and CLI.
type Config struct {
	// Server
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Upload limits
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"` // 10MB in bytes

	// Splitting
	DefaultLimit int `env:"DEFAULT_LIMIT" envDefault:"2000"`
	MaxLimit     int `env:"MAX_LIMIT" envDefault:"100000"`

	// Smart split delegate
	LLMProvider        string        `env:"LLM_PROVIDER" envDefault:"gemini"` // "gemini", "openai" or "none"
	GeminiKey          string        `env:"GEMINI_API_KEY"`
	OpenAIKey          string        `env:"OPENAI_API_KEY"`
	LLMModel           string        `env:"LLM_MODEL"` // provider default when empty
	SmartSplitTimeout  time.Duration `env:"SMART_SPLIT_TIMEOUT" envDefault:"45s"`
	SmartSplitAttempts int           `env:"SMART_SPLIT_ATTEMPTS" envDefault:"2"`

	// Cache for delegate results
	CacheProvider string `env:"CACHE_PROVIDER" envDefault:"none"` // "none" or "redis"
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	CacheTTL      int    `env:"CACHE_TTL" envDefault:"3600"` // seconds

	// Queue
	QueueURL          string `env:"QUEUE_URL"`
	WorkerConcurrency int    `env:"WORKER_CONCURRENCY" envDefault:"4"`

	// HTTP
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}
