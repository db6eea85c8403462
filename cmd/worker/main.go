package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"script-split/internal/app"
	"script-split/internal/httputil"
	"script-split/internal/queue"
	"script-split/internal/splitter"
)

type splitTaskPayload struct {
	Text       string `json:"text"`
	Limit      int    `json:"limit"`
	SmartSplit bool   `json:"smart_split"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := app.Build(ctx, nil)
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	defer deps.Close()

	q, closeQueue, err := deps.ConnectQueue("split-worker")
	if err != nil {
		deps.Log.Error("failed to initialize queue", "err", err)
		os.Exit(1)
	}
	defer closeQueue()

	deps.Log.Info("split worker starting",
		"concurrency", deps.Config.WorkerConcurrency,
		"smart_split", deps.Splitter.SmartSplitAvailable())

	g, ctx := errgroup.WithContext(ctx)

	// Run queue worker
	g.Go(func() error {
		return consume(ctx, deps, q)
	})

	// Run health check server
	g.Go(func() error {
		return httputil.ServeHealth(ctx, deps.Log, deps.Config.Port, "worker")
	})

	if err := g.Wait(); err != nil {
		deps.Log.Error("split worker stopped", "err", err)
	}
}

func consume(ctx context.Context, deps app.Deps, q queue.Queue) error {
	return q.Worker(ctx, queue.TaskTypeSplit, func(ctx context.Context, task queue.Task) ([]byte, error) {
		return handleSplit(ctx, deps, task)
	})
}

// handleSplit runs one split task and returns the JSON result for the reply.
// Malformed payloads and bad limits fail permanently.
func handleSplit(ctx context.Context, deps app.Deps, task queue.Task) ([]byte, error) {
	var payload splitTaskPayload
	if err := json.Unmarshal(task.Payload, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode payload: %v", queue.ErrPermanent, err)
	}
	if deps.Config.MaxLimit > 0 && payload.Limit > deps.Config.MaxLimit {
		return nil, fmt.Errorf("%w: limit must be at most %d", queue.ErrPermanent, deps.Config.MaxLimit)
	}

	res, err := deps.Splitter.Split(ctx, payload.Text, splitter.Options{Limit: payload.Limit, SmartSplit: payload.SmartSplit})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", queue.ErrPermanent, err)
	}
	deps.Log.Info("split task done",
		"task_id", task.ID,
		"chunks", len(res.Chunks),
		"strategy", res.Strategy,
		"cached", res.Cached)

	return json.Marshal(res)
}
