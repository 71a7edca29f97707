package main

// Build the SQS-triggered worker:
//
//	GOOS=linux GOARCH=amd64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-worker

import (
	"context"
	"errors"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"jobassist-backend/internal/bootstrap"
	"jobassist-backend/internal/queue"
	"jobassist-backend/internal/workerproc"
)

var lazyApp bootstrap.Lazy

func handler(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	app, err := lazyApp.Get(ctx)
	if err != nil {
		// Report the whole batch so SQS redelivers it.
		failures := make([]events.SQSBatchItemFailure, 0, len(event.Records))
		for _, record := range event.Records {
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
		return events.SQSEventResponse{BatchItemFailures: failures}, nil
	}

	handle := workerproc.Consume(app.AutoApply)
	failures := make([]events.SQSBatchItemFailure, 0)
	for _, record := range event.Records {
		err := handle(ctx, []byte(record.Body))
		// Unrecoverable messages are dropped, not retried.
		if err != nil && !errors.Is(err, queue.ErrUnrecoverable) {
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
	}

	return events.SQSEventResponse{BatchItemFailures: failures}, nil
}

func main() {
	lambda.Start(handler)
}
