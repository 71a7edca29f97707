// Package workerproc turns queue payloads into auto-apply runs for both the
// long-running worker and the Lambda handler.
package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"jobassist-backend/internal/autoapply"
	"jobassist-backend/internal/queue"
	"jobassist-backend/internal/shared/metrics"
	"jobassist-backend/internal/shared/telemetry"
)

// Runner runs auto-apply for one user.
type Runner interface {
	Run(ctx context.Context, userID string) (autoapply.Result, error)
}

// InvalidMessageError is a payload that can never be processed. It matches
// queue.ErrUnrecoverable so consumers drop it.
type InvalidMessageError struct {
	Reason string
	// Digest is the SHA-256 of the body, logged instead of the body itself.
	Digest    string
	RequestID string
	Err       error
}

func (e *InvalidMessageError) Error() string {
	if e.Err != nil {
		return "invalid message: " + e.Reason + ": " + e.Err.Error()
	}
	return "invalid message: " + e.Reason
}

func (e *InvalidMessageError) Unwrap() error { return e.Err }

func (e *InvalidMessageError) Is(target error) bool { return target == queue.ErrUnrecoverable }

// RunError is an engine failure for a well-formed message. It is retryable.
type RunError struct {
	UserID    string
	RequestID string
	Err       error
}

func (e *RunError) Error() string { return fmt.Sprintf("auto-apply for %s: %v", e.UserID, e.Err) }

func (e *RunError) Unwrap() error { return e.Err }

func digest(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// ParseMessage decodes and validates a payload. Messages from a newer
// producer than this build understands are rejected.
func ParseMessage(body []byte) (queue.Message, error) {
	invalid := func(reason string, err error, requestID string) error {
		return &InvalidMessageError{Reason: reason, Digest: digest(body), RequestID: requestID, Err: err}
	}
	if strings.TrimSpace(string(body)) == "" {
		return queue.Message{}, invalid("empty body", nil, "")
	}
	msg, err := queue.DecodeMessage(body)
	if err != nil {
		return queue.Message{}, invalid("decode", err, "")
	}
	if msg.Version > queue.MessageVersion {
		return msg, invalid(fmt.Sprintf("unsupported version %d", msg.Version), nil, msg.RequestID)
	}
	if strings.TrimSpace(msg.UserID) == "" {
		return msg, invalid("missing userId", nil, msg.RequestID)
	}
	return msg, nil
}

// Process runs auto-apply for one payload. Runs refused by a precondition
// (auto-apply off, no resume) count as done: retrying cannot change them.
func Process(ctx context.Context, runner Runner, body []byte) error {
	if runner == nil {
		return errors.New("auto-apply engine not configured")
	}
	msg, err := ParseMessage(body)
	if err != nil {
		return err
	}

	ctx = telemetry.WithRequestID(ctx, msg.RequestID)
	fields := map[string]any{"user_id": msg.UserID, "request_id": msg.RequestID}
	res, err := runner.Run(ctx, msg.UserID)
	if errors.Is(err, autoapply.ErrAutoApplyDisabled) || errors.Is(err, autoapply.ErrNoResumeFound) {
		fields["reason"] = err.Error()
		telemetry.Info("worker.autoapply.skipped", fields)
		return nil
	}
	if err != nil {
		return &RunError{UserID: msg.UserID, RequestID: msg.RequestID, Err: err}
	}
	fields["applications"] = res.Applications
	fields["limit_reached"] = res.LimitReached
	telemetry.Info("worker.autoapply.done", fields)
	return nil
}

// Consume wraps Process as a queue.Handler and records worker metrics.
func Consume(runner Runner) queue.Handler {
	return func(ctx context.Context, body []byte) error {
		metrics.IncWorkerMessagesReceived()
		err := Process(ctx, runner, body)

		var invalid *InvalidMessageError
		var run *RunError
		switch {
		case err == nil:
			metrics.IncWorkerMessagesCompleted()
		case errors.As(err, &invalid):
			metrics.IncWorkerMessagesUnrecovered()
			telemetry.Error("worker.message.dropped", map[string]any{
				"reason":      invalid.Reason,
				"request_id":  invalid.RequestID,
				"body_sha256": invalid.Digest,
			})
		case errors.As(err, &run):
			metrics.IncWorkerMessagesFailed()
			telemetry.Error("worker.message.failed", map[string]any{
				"user_id":    run.UserID,
				"request_id": run.RequestID,
				"error":      run.Err.Error(),
			})
		default:
			metrics.IncWorkerMessagesFailed()
			telemetry.Error("worker.message.failed", map[string]any{"error": err.Error()})
		}
		return err
	}
}
