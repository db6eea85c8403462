package splitter

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"script-split/internal/cache"
	"script-split/internal/chunker"
	"script-split/internal/llm"
	"script-split/internal/retry"
)

// Strategy names the path that produced a result.
type Strategy string

const (
	StrategySmart       Strategy = "smart"
	StrategyAlgorithmic Strategy = "algorithmic"
)

const (
	defaultTimeout  = 45 * time.Second
	defaultBackoff  = 500 * time.Millisecond
	defaultCacheTTL = time.Hour
)

// Options describes one split request.
type Options struct {
	Limit      int  `json:"limit"`
	SmartSplit bool `json:"smart_split"`
}

// Result is the chunk sequence for one request plus how it was produced.
type Result struct {
	Chunks         []chunker.Chunk `json:"chunks" yaml:"chunks"`
	Strategy       Strategy        `json:"strategy" yaml:"strategy"`
	FallbackReason string          `json:"fallback_reason,omitempty" yaml:"fallback_reason,omitempty"`
	Cached         bool            `json:"cached" yaml:"cached"`
	Stats          chunker.Stats   `json:"stats" yaml:"stats"`
}

// Service tries the smart-split delegate when asked to and always falls back
// to chunker.ChunkText when the delegate is missing, slow or wrong.
type Service struct {
	log      *slog.Logger
	delegate llm.Client
	cache    cache.Cache
	cacheTTL time.Duration
	timeout  time.Duration
	attempts int
	backoff  time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithDelegate sets the smart-split provider. A nil client disables smart splitting.
func WithDelegate(c llm.Client) Option {
	return func(s *Service) {
		s.delegate = c
	}
}

// WithCache memoizes validated delegate results for ttl.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithTimeout bounds the total time spent waiting on the delegate, retries included.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithRetry sets how many delegate attempts are made and the base backoff between them.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(s *Service) {
		s.attempts = attempts
		s.backoff = backoff
	}
}

// New builds a Service. Without WithDelegate every request is split algorithmically.
func New(log *slog.Logger, opts ...Option) *Service {
	s := &Service{
		log:      log,
		cache:    cache.NewNoOpCache(),
		cacheTTL: defaultCacheTTL,
		timeout:  defaultTimeout,
		attempts: 1,
		backoff:  defaultBackoff,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SmartSplitAvailable reports whether a delegate is configured.
func (s *Service) SmartSplitAvailable() bool {
	return s.delegate != nil
}

// Split returns exactly one chunk sequence for text. The only error is
// chunker.ErrInvalidLimit; delegate failures are logged and absorbed.
func (s *Service) Split(ctx context.Context, text string, opts Options) (Result, error) {
	if err := chunker.ValidateLimit(opts.Limit); err != nil {
		return Result{}, err
	}
	if !opts.SmartSplit {
		return s.algorithmic(text, opts.Limit, "")
	}
	if reason := s.skipReason(text, opts.Limit); reason != "" {
		s.log.Debug("skipping smart split", "reason", reason)
		return s.algorithmic(text, opts.Limit, reason)
	}

	chunks, cached, err := s.trySmartSplit(ctx, text, opts.Limit)
	if err != nil {
		s.log.Warn("smart split failed, falling back to algorithm",
			"provider", s.delegate.Name(), "limit", opts.Limit, "err", err)
		return s.algorithmic(text, opts.Limit, err.Error())
	}
	return Result{
		Chunks:   chunks,
		Strategy: StrategySmart,
		Cached:   cached,
		Stats:    chunker.Summarize(text, chunks),
	}, nil
}

func (s *Service) skipReason(text string, limit int) string {
	switch {
	case s.delegate == nil:
		return "no smart split provider configured"
	case strings.TrimSpace(text) == "":
		return "empty input"
	case utf8.RuneCountInString(text) < limit:
		return "text already within limit"
	}
	return ""
}

func (s *Service) algorithmic(text string, limit int, reason string) (Result, error) {
	chunks, err := chunker.ChunkText(text, limit)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Chunks:         chunks,
		Strategy:       StrategyAlgorithmic,
		FallbackReason: reason,
		Stats:          chunker.Summarize(text, chunks),
	}, nil
}

func (s *Service) trySmartSplit(ctx context.Context, text string, limit int) ([]chunker.Chunk, bool, error) {
	key := cache.GenerateCacheKey(s.delegate.Name(), limit, text)
	if hit, err := s.cache.GetChunks(ctx, key); err != nil {
		s.log.Warn("cache read failed", "err", err)
	} else if hit != nil {
		if chunks, err := buildChunks(text, contentsOf(hit), limit); err == nil {
			return chunks, true, nil
		}
		s.log.Warn("discarding invalid cached split", "key", key)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var chunks []chunker.Chunk
	err := retry.Do(callCtx, s.attempts, s.backoff, func(ctx context.Context) error {
		contents, err := s.callDelegate(ctx, text, limit)
		if err != nil {
			return err
		}
		chunks, err = buildChunks(text, contents, limit)
		return err
	})
	if err != nil {
		return nil, false, err
	}

	if err := s.cache.SetChunks(ctx, key, chunks, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache split", "err", err)
	}
	return chunks, false, nil
}

// callDelegate stops waiting once ctx is done, even if the provider ignores it.
func (s *Service) callDelegate(ctx context.Context, text string, limit int) ([]string, error) {
	type reply struct {
		contents []string
		err      error
	}
	ch := make(chan reply, 1)
	go func() {
		contents, err := s.delegate.SmartSplit(ctx, text, limit)
		ch <- reply{contents: contents, err: err}
	}()
	select {
	case r := <-ch:
		return r.contents, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func contentsOf(chunks []chunker.Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Content
	}
	return out
}
