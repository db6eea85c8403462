package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TaskType enumerates supported task categories.
type TaskType string

const (
	TaskTypeSplit TaskType = "split"
)

// ErrPermanent marks handler errors that retrying cannot fix.
var ErrPermanent = errors.New("permanent task failure")

// Task represents a unit of work for a worker.
type Task struct {
	ID          uuid.UUID
	Type        TaskType
	Payload     []byte
	Attempts    int
	MaxAttempts int
	NotBefore   time.Time
	ReplyTo     string `json:",omitempty"`
}

// Handler processes a task and returns the reply body, if any.
type Handler func(context.Context, Task) ([]byte, error)

// Queue exposes a minimal contract to enqueue, request and consume tasks.
type Queue interface {
	Enqueue(ctx context.Context, task Task) error
	// Request enqueues task and waits for the worker's reply body.
	Request(ctx context.Context, task Task) ([]byte, error)
	Worker(ctx context.Context, taskType TaskType, handler Handler) error
}

// Reply is the envelope a worker sends back to a requester.
type Reply struct {
	Body  json.RawMessage `json:"body,omitempty"`
	Error string          `json:"error,omitempty"`
}

// Subject returns the subject tasks of type t are published on.
func Subject(t TaskType) string {
	return "tasks." + string(t)
}

func decodeReply(data []byte) ([]byte, error) {
	var r Reply
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode reply: %w", err)
	}
	if r.Error != "" {
		return nil, fmt.Errorf("worker: %s", r.Error)
	}
	return r.Body, nil
}
