// Package queue publishes coin analysis requests to SQS and reads their
// attributes back out of delivered events.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/google/uuid"
)

const (
	// AttributeCoinID names the message attribute carrying the coin identifier.
	AttributeCoinID = "coin_id"
	// MessageBody is the fixed body of every analysis request.
	MessageBody = "Sent for coin analysis"

	defaultDelaySeconds = 1
	maxDelaySeconds     = 900
)

// sqsAPI is the minimal SQS interface required by Producer.
// *sqs.Client from aws-sdk-go-v2 satisfies this interface.
type sqsAPI interface {
	SendMessage(ctx context.Context, in *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Producer sends analysis requests to one queue.
type Producer struct {
	api          sqsAPI
	queueURL     string
	delaySeconds int32
	fifo         bool
	logger       *slog.Logger
}

type ProducerOption func(*Producer)

// WithDelaySeconds sets the per-message delivery delay, clamped to the SQS
// range of 0-900 seconds. It has no effect on FIFO queues.
func WithDelaySeconds(seconds int) ProducerOption {
	return func(p *Producer) {
		p.delaySeconds = int32(min(max(seconds, 0), maxDelaySeconds))
	}
}

func WithLogger(logger *slog.Logger) ProducerOption {
	return func(p *Producer) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewProducer creates a Producer for queueURL.
func NewProducer(api sqsAPI, queueURL string, opts ...ProducerOption) (*Producer, error) {
	if api == nil {
		return nil, errors.New("queue: api must not be nil")
	}
	queueURL = strings.TrimSpace(queueURL)
	if queueURL == "" {
		return nil, errors.New("queue: queue URL must not be empty")
	}
	p := &Producer{
		api:          api,
		queueURL:     queueURL,
		delaySeconds: defaultDelaySeconds,
		fifo:         strings.HasSuffix(queueURL, ".fifo"),
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Send publishes one analysis request for coinID and returns the SQS
// message ID.
func (p *Producer) Send(ctx context.Context, coinID string) (string, error) {
	in := &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(MessageBody),
		MessageAttributes: map[string]types.MessageAttributeValue{
			AttributeCoinID: {
				DataType:    aws.String("String"),
				StringValue: aws.String(coinID),
			},
		},
	}
	if p.fifo {
		// FIFO queues reject per-message delays.
		in.MessageGroupId = aws.String(coinID)
		in.MessageDeduplicationId = aws.String(newUUID())
	} else {
		in.DelaySeconds = p.delaySeconds
	}

	out, err := p.api.SendMessage(ctx, in)
	if err != nil {
		return "", fmt.Errorf("queue: send %s=%q: %w", AttributeCoinID, coinID, err)
	}
	if out == nil || out.MessageId == nil {
		return "", errors.New("queue: send: response missing message id")
	}

	p.logger.Info("queued coin for analysis", "coin_id", coinID, "message_id", *out.MessageId)
	return *out.MessageId, nil
}

var newUUID = func() string {
	return uuid.NewString()
}
