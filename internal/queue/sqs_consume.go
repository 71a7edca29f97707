package queue

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"jobassist-backend/internal/shared/telemetry"
)

const (
	sqsMaxBatch        = 10
	sqsLongPollSeconds = 20
	receiveCountAttr   = "ApproximateReceiveCount"
)

// Consume long-polls the queue and runs h for each message. A message is
// deleted when h succeeds or returns ErrUnrecoverable; otherwise it stays
// hidden until its visibility timeout lapses and SQS redelivers it.
func (s *SQSClient) Consume(ctx context.Context, concurrency int, h Handler) error {
	concurrency = max(1, concurrency)
	visibility := s.VisibilityTimeout
	if visibility <= 0 {
		visibility = 5 * time.Minute
	}
	drain := s.DrainTimeout
	if drain <= 0 {
		drain = 30 * time.Second
	}

	slots := make(chan struct{}, concurrency)
	var inflight sync.WaitGroup
	defer func() {
		done := make(chan struct{})
		go func() {
			inflight.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(drain):
			telemetry.Warn("queue.sqs.drain_timeout", map[string]any{"timeout": drain.String()})
		}
	}()

	telemetry.Info("queue.sqs.consuming", map[string]any{
		"queue":       s.url,
		"concurrency": concurrency,
		"visibility":  visibility.String(),
	})
	for ctx.Err() == nil {
		out, err := s.api.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:                    aws.String(s.url),
			MaxNumberOfMessages:         sqsMaxBatch,
			WaitTimeSeconds:             sqsLongPollSeconds,
			VisibilityTimeout:           int32(visibility / time.Second),
			MessageSystemAttributeNames: []sqstypes.MessageSystemAttributeName{receiveCountAttr},
		})
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			telemetry.Error("queue.sqs.receive_failed", map[string]any{"error": err.Error()})
			if sleepErr := pause(ctx, time.Second); sleepErr != nil {
				break
			}
			continue
		}

		for _, m := range out.Messages {
			select {
			case slots <- struct{}{}:
			case <-ctx.Done():
				// Unstarted messages become visible again on their own.
				return nil
			}
			inflight.Add(1)
			go func(m sqstypes.Message) {
				defer inflight.Done()
				defer func() { <-slots }()
				s.handle(telemetry.Detach(ctx), h, m)
			}(m)
		}
	}
	return nil
}

// handle runs h for one message and settles it.
func (s *SQSClient) handle(ctx context.Context, h Handler, m sqstypes.Message) {
	fields := map[string]any{
		"sqs_message_id": aws.ToString(m.MessageId),
		"receive_count":  receiveCount(m),
	}
	err := h(ctx, []byte(aws.ToString(m.Body)))
	if err != nil && !errors.Is(err, ErrUnrecoverable) {
		fields["error"] = err.Error()
		telemetry.Warn("queue.sqs.retry_later", fields)
		return
	}

	receipt := aws.ToString(m.ReceiptHandle)
	if receipt == "" {
		telemetry.Error("queue.sqs.delete_failed", fields)
		return
	}
	if _, err := s.api.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(s.url),
		ReceiptHandle: aws.String(receipt),
	}); err != nil {
		fields["error"] = err.Error()
		telemetry.Error("queue.sqs.delete_failed", fields)
	}
}

func receiveCount(m sqstypes.Message) int {
	n, err := strconv.Atoi(m.Attributes[receiveCountAttr])
	if err != nil {
		return 0
	}
	return n
}

func pause(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var _ Consumer = (*SQSClient)(nil)
