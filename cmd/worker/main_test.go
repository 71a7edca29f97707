package main

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"jobassist-backend/internal/bootstrap"
	"jobassist-backend/internal/queue"
	"jobassist-backend/internal/shared/config"
	"jobassist-backend/internal/shared/telemetry"
)

// chanQueue is an in-process queue.Client and queue.Consumer.
type chanQueue struct {
	ch      chan []byte
	mu      sync.Mutex
	results []error
}

func (q *chanQueue) Send(ctx context.Context, msg queue.Message) error {
	b, err := queue.EncodeMessage(msg)
	if err != nil {
		return err
	}
	q.ch <- b
	return nil
}

func (q *chanQueue) Consume(ctx context.Context, concurrency int, h queue.Handler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case body := <-q.ch:
			err := h(ctx, body)
			q.mu.Lock()
			q.results = append(q.results, err)
			q.mu.Unlock()
		}
	}
}

func (q *chanQueue) handled() []error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]error(nil), q.results...)
}

func testApp(t *testing.T) *bootstrap.App {
	t.Helper()
	prev := telemetry.SetOutput(io.Discard)
	t.Cleanup(func() { telemetry.SetOutput(prev) })
	app, err := bootstrap.Build(config.Config{
		Env:               "test",
		LocalStoreDir:     t.TempDir(),
		WorkerConcurrency: 1,
		AutoApplyCron:     "off",
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return app
}

func TestRunConsumesUntilCanceled(t *testing.T) {
	app := testApp(t)
	q := &chanQueue{ch: make(chan []byte, 4)}
	app.Queue = q

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, app) }()

	// The user has no preferences, so the run is a completed no-op.
	if err := q.Send(ctx, queue.NewMessage("guest:w1", "req-1", time.Now())); err != nil {
		t.Fatalf("Send: %v", err)
	}
	q.ch <- []byte("{not json")

	deadline := time.After(2 * time.Second)
	for len(q.handled()) < 2 {
		select {
		case <-deadline:
			t.Fatalf("messages not handled: %v", q.handled())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}

	got := q.handled()
	if got[0] != nil {
		t.Fatalf("precondition run should complete, got %v", got[0])
	}
	if got[1] == nil {
		t.Fatalf("malformed body should fail")
	}
}

func TestRunWithoutQueueWaits(t *testing.T) {
	app := testApp(t)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := run(ctx, app); err != nil {
		t.Fatalf("run: %v", err)
	}
}
