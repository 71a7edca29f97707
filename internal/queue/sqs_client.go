package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

type sqsAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// SQSClient publishes auto-apply requests to an SQS queue and consumes them.
// FIFO queues (URL ending in ".fifo") group by user so one user's runs never
// overlap.
type SQSClient struct {
	// VisibilityTimeout hides a received message from other consumers while
	// it is processed. Zero means 300 seconds.
	VisibilityTimeout time.Duration
	// DrainTimeout bounds how long Consume waits for in-flight handlers
	// after ctx is done. Zero means 30 seconds.
	DrainTimeout time.Duration

	api  sqsAPI
	url  string
	fifo bool
}

// NewSQSClient loads the default AWS credential chain for region
// (us-east-1 when empty).
func NewSQSClient(ctx context.Context, region, queueURL string) (*SQSClient, error) {
	queueURL = strings.TrimSpace(queueURL)
	if queueURL == "" {
		return nil, errors.New("SQS_QUEUE_URL is required")
	}
	if region = strings.TrimSpace(region); region == "" {
		region = "us-east-1"
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}
	return newSQSClient(sqs.NewFromConfig(cfg), queueURL), nil
}

func newSQSClient(api sqsAPI, queueURL string) *SQSClient {
	return &SQSClient{api: api, url: queueURL, fifo: strings.HasSuffix(queueURL, ".fifo")}
}

// Send publishes msg. The request id also travels as a message attribute so
// it shows up in the console without decoding the body.
func (s *SQSClient) Send(ctx context.Context, msg Message) error {
	body, err := EncodeMessage(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	in := &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.url),
		MessageBody: aws.String(string(body)),
	}
	if msg.RequestID != "" {
		in.MessageAttributes = map[string]sqstypes.MessageAttributeValue{
			"RequestId": {DataType: aws.String("String"), StringValue: aws.String(msg.RequestID)},
		}
	}
	if s.fifo {
		in.MessageGroupId = aws.String(msg.UserID)
		dedup := msg.RequestID
		if dedup == "" {
			dedup = msg.UserID + ":" + msg.EnqueuedAt
		}
		in.MessageDeduplicationId = aws.String(dedup)
	}
	if _, err := s.api.SendMessage(ctx, in); err != nil {
		return fmt.Errorf("sqs send: %w", err)
	}
	return nil
}

var _ Client = (*SQSClient)(nil)
