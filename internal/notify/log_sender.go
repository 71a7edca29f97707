package notify

import (
	"context"

	"jobassist-backend/internal/shared/telemetry"
)

// LogSender records messages in the log instead of sending them. It is used
// when no mail transport is configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	telemetry.Info("notify.email.logged", map[string]any{
		"request_id": telemetry.RequestIDFromContext(ctx),
		"to":         msg.To,
		"subject":    msg.Subject,
		"bytes":      len(msg.HTML),
	})
	return nil
}
