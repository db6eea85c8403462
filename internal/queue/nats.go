package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/panjf2000/ants/v2"

	"script-split/internal/retry"
)

const drainTimeout = 10 * time.Second

// NewNATS constructs a thin NATS-based queue. Each Worker runs at most
// concurrency handlers at once.
func NewNATS(log *slog.Logger, nc *nats.Conn, concurrency int) Queue {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &natsQueue{log: log, nc: nc, publish: nc.Publish, concurrency: concurrency}
}

type natsQueue struct {
	log         *slog.Logger
	nc          *nats.Conn
	publish     func(subject string, data []byte) error
	concurrency int
}

func (q *natsQueue) Enqueue(_ context.Context, task Task) error {
	body, err := encodeTask(&task)
	if err != nil {
		return err
	}
	return q.publish(Subject(task.Type), body)
}

func (q *natsQueue) Request(ctx context.Context, task Task) ([]byte, error) {
	body, err := encodeTask(&task)
	if err != nil {
		return nil, err
	}
	msg, err := q.nc.RequestWithContext(ctx, Subject(task.Type), body)
	if err != nil {
		return nil, err
	}
	return decodeReply(msg.Data)
}

func encodeTask(task *Task) ([]byte, error) {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	if task.Type == "" {
		return nil, errors.New("task type required")
	}
	return json.Marshal(task)
}

func (q *natsQueue) Worker(ctx context.Context, taskType TaskType, handler Handler) error {
	pool, err := ants.NewPool(q.concurrency)
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer func() {
		if err := pool.ReleaseTimeout(drainTimeout); err != nil {
			q.log.Warn("worker pool did not drain", "err", err)
		}
	}()

	subject := Subject(taskType)
	group := "workers-" + string(taskType)
	sub, err := q.nc.QueueSubscribe(subject, group, func(msg *nats.Msg) {
		if err := pool.Submit(func() { q.handleMessage(ctx, msg, handler) }); err != nil {
			q.log.Error("failed to schedule task", "subject", msg.Subject, "err", err)
		}
	})
	if err != nil {
		return err
	}
	<-ctx.Done()
	return sub.Unsubscribe()
}

func (q *natsQueue) handleMessage(ctx context.Context, msg *nats.Msg, handler Handler) {
	var task Task
	if err := json.Unmarshal(msg.Data, &task); err != nil {
		q.log.Error("failed to decode task", "err", err)
		q.reply(msg.Reply, nil, fmt.Errorf("decode task: %w", err))
		return
	}
	if task.ReplyTo == "" {
		task.ReplyTo = msg.Reply
	}

	if wait := time.Until(task.NotBefore); wait > 0 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}

	body, err := handler(ctx, task)
	if err != nil {
		q.retryTask(ctx, task, err)
		return
	}
	q.reply(task.ReplyTo, body, nil)
}

func (q *natsQueue) retryTask(ctx context.Context, task Task, handlerErr error) {
	task.Attempts++
	if task.MaxAttempts == 0 {
		task.MaxAttempts = 5
	}

	if !errors.Is(handlerErr, ErrPermanent) && task.Attempts < task.MaxAttempts {
		task.NotBefore = time.Now().Add(retry.ExponentialBackoff(task.Attempts, time.Second))
		if err := q.Enqueue(ctx, task); err != nil {
			q.log.Error("failed to re-enqueue task after failure", "id", task.ID, "type", task.Type, "original_err", handlerErr, "enqueue_err", err)
			q.reply(task.ReplyTo, nil, handlerErr)
		}
		return
	}
	q.log.Error("task permanently failed", "id", task.ID, "type", task.Type, "attempts", task.Attempts, "original_err", handlerErr)
	q.reply(task.ReplyTo, nil, handlerErr)
}

// reply publishes the outcome to subject when the task came from a requester.
func (q *natsQueue) reply(subject string, body []byte, handlerErr error) {
	if subject == "" {
		return
	}
	r := Reply{Body: body}
	if handlerErr != nil {
		r.Error = handlerErr.Error()
	}
	data, err := json.Marshal(r)
	if err != nil {
		q.log.Error("failed to encode reply", "err", err)
		return
	}
	if err := q.publish(subject, data); err != nil {
		q.log.Error("failed to publish reply", "subject", subject, "err", err)
	}
}
