package queue

import (
	"context"
	"errors"
)

// Client sends messages to a queue backend.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

// Consumer delivers queued payloads to a Handler until ctx is done, with at
// most concurrency handlers running at once.
type Consumer interface {
	Consume(ctx context.Context, concurrency int, h Handler) error
}

// Handler processes one delivered payload.
type Handler func(ctx context.Context, body []byte) error

// ErrUnrecoverable marks a payload that will never succeed; consumers drop it
// instead of redelivering.
var ErrUnrecoverable = errors.New("unrecoverable message")
