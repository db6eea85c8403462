package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/openai/openai-go/v3"

	"script-split/internal/cache"
	"script-split/internal/config"
	"script-split/internal/llm"
	"script-split/internal/logger"
	"script-split/internal/queue"
	"script-split/internal/splitter"
)

// Deps bundles common runtime dependencies for services.
type Deps struct {
	Config   config.Config
	Log      *slog.Logger
	Cache    cache.Cache
	LLM      llm.Client // nil when no smart split provider is configured
	Splitter *splitter.Service
}

// Build loads env, config, and shared components. Logs go to logOut, or
// stdout when it is nil.
func Build(ctx context.Context, logOut io.Writer) (Deps, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return Deps{}, err
	}
	log := logger.New(cfg.LogLevel, logOut)
	return Assemble(ctx, cfg, log)
}

// LoadConfig reads .env when present, then the environment.
func LoadConfig() (config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config.Config{}, fmt.Errorf("failed to load environment variables: %w", err)
	}
	return config.Load(), nil
}

// Assemble wires the shared components for an already loaded config.
func Assemble(ctx context.Context, cfg config.Config, log *slog.Logger) (Deps, error) {
	llmClient, err := buildLLM(ctx, cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize LLM: %w", err)
	}
	c, err := buildCache(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize cache: %w", err)
	}

	opts := []splitter.Option{
		splitter.WithCache(c, time.Duration(cfg.CacheTTL)*time.Second),
		splitter.WithTimeout(cfg.SmartSplitTimeout),
		splitter.WithRetry(cfg.SmartSplitAttempts, 500*time.Millisecond),
	}
	if llmClient != nil {
		opts = append(opts, splitter.WithDelegate(llmClient))
	}

	return Deps{
		Config:   cfg,
		Log:      log,
		Cache:    c,
		LLM:      llmClient,
		Splitter: splitter.New(log, opts...),
	}, nil
}

// Close releases connections held by Deps.
func (d Deps) Close() {
	if d.Cache == nil {
		return
	}
	if err := d.Cache.Close(); err != nil {
		d.Log.Warn("failed to close cache", "err", err)
	}
}

// ConnectQueue dials NATS at QUEUE_URL. The returned func drains the connection.
func (d Deps) ConnectQueue(name string) (queue.Queue, func(), error) {
	if d.Config.QueueURL == "" {
		return nil, nil, errors.New("QUEUE_URL is required")
	}
	nc, err := nats.Connect(d.Config.QueueURL, nats.Name(name))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	d.Log.Info("using NATS queue", "url", nc.ConnectedUrl())
	closeFn := func() {
		if err := nc.Drain(); err != nil {
			d.Log.Warn("failed to drain NATS connection", "err", err)
		}
	}
	return queue.NewNATS(d.Log, nc, d.Config.WorkerConcurrency), closeFn, nil
}

// buildLLM returns a nil client, not an error, when the provider's key is
// missing: requests then fall back to the algorithmic splitter.
func buildLLM(ctx context.Context, cfg config.Config, log *slog.Logger) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "gemini":
		if cfg.GeminiKey == "" {
			log.Warn("GEMINI_API_KEY not set; smart split disabled")
			return nil, nil
		}
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiKey, cfg.LLMModel)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
		}
		log.Info("using Gemini smart split", "model", cfg.LLMModel)
		return client, nil
	case "openai":
		if cfg.OpenAIKey == "" {
			log.Warn("OPENAI_API_KEY not set; smart split disabled")
			return nil, nil
		}
		client, err := llm.NewOpenAIClient(cfg.OpenAIKey, openai.ChatModel(cfg.LLMModel))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI client: %w", err)
		}
		log.Info("using OpenAI smart split", "model", cfg.LLMModel)
		return client, nil
	case "none", "":
		log.Info("smart split disabled")
		return nil, nil
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER: %s (valid options: gemini, openai, none)", cfg.LLMProvider)
	}
}

func buildCache(cfg config.Config, log *slog.Logger) (cache.Cache, error) {
	switch cfg.CacheProvider {
	case "redis":
		c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Warn("redis unavailable; caching disabled", "addr", cfg.RedisAddr, "err", err)
			return cache.NewNoOpCache(), nil
		}
		log.Info("using Redis cache", "addr", cfg.RedisAddr)
		return c, nil
	case "none", "":
		return cache.NewNoOpCache(), nil
	default:
		return nil, fmt.Errorf("invalid CACHE_PROVIDER: %s (valid options: redis, none)", cfg.CacheProvider)
	}
}
