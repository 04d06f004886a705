// Package coingetter assembles the AWS-backed pipeline utilities from a
// config.Config: object storage, the chat notifier and the analysis queue.
package coingetter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	"coin-getter/config"
	"coin-getter/internal/paramstore"
	"coin-getter/notifier"
	"coin-getter/objectstore"
	"coin-getter/queue"
)

// S3API is the subset of *s3.Client the Toolkit uses.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// SQSAPI is the subset of *sqs.Client the Toolkit uses.
type SQSAPI interface {
	SendMessage(ctx context.Context, in *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SSMAPI is the subset of *ssm.Client the Toolkit uses.
type SSMAPI interface {
	GetParameter(ctx context.Context, in *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// Clients carries the AWS service clients a Toolkit is built from.
type Clients struct {
	S3  S3API
	SQS SQSAPI
	SSM SSMAPI
}

// Toolkit groups the configured components. Notifier is nil when no webhook
// is configured and Queue is nil when no queue URL is configured.
type Toolkit struct {
	Storage  *objectstore.Client
	Notifier *notifier.Notifier
	Queue    *queue.Producer
}

// New loads the default AWS SDK configuration (credentials and region from
// the ambient environment) and builds a Toolkit.
func New(ctx context.Context, cfg config.Config) (*Toolkit, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("coingetter: load AWS config: %w", err)
	}
	return NewWithClients(ctx, cfg, Clients{
		S3:  s3.NewFromConfig(awsCfg),
		SQS: sqs.NewFromConfig(awsCfg),
		SSM: ssm.NewFromConfig(awsCfg),
	})
}

// NewWithClients builds a Toolkit around the given service clients.
func NewWithClients(ctx context.Context, cfg config.Config, c Clients) (*Toolkit, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if c.S3 == nil {
		return nil, errors.New("coingetter: S3 client must not be nil")
	}

	storage, err := objectstore.New(c.S3)
	if err != nil {
		return nil, err
	}
	tk := &Toolkit{Storage: storage}

	webhookURL, err := resolveWebhookURL(ctx, cfg, c.SSM)
	if err != nil {
		return nil, err
	}
	if webhookURL != "" {
		tk.Notifier, err = notifier.New(webhookURL,
			notifier.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
			notifier.WithChunkLimit(cfg.ChunkLimit),
			notifier.WithDelay(cfg.NotifyDelay),
		)
		if err != nil {
			return nil, err
		}
	} else {
		slog.Warn("no chat webhook configured, notifications disabled")
	}

	if cfg.QueueURL != "" {
		if c.SQS == nil {
			return nil, errors.New("coingetter: SQS client must not be nil when a queue URL is set")
		}
		tk.Queue, err = queue.NewProducer(c.SQS, cfg.QueueURL, queue.WithDelaySeconds(cfg.QueueDelaySeconds))
		if err != nil {
			return nil, err
		}
	}
	return tk, nil
}

// resolveWebhookURL prefers the literal URL and falls back to Parameter Store.
func resolveWebhookURL(ctx context.Context, cfg config.Config, api SSMAPI) (string, error) {
	if cfg.WebhookURL != "" || cfg.WebhookParam == "" {
		return cfg.WebhookURL, nil
	}
	if api == nil {
		return "", errors.New("coingetter: SSM client must not be nil when a webhook parameter is set")
	}
	params, err := paramstore.New(api)
	if err != nil {
		return "", err
	}
	url, err := params.Get(ctx, cfg.WebhookParam)
	if err != nil {
		return "", fmt.Errorf("coingetter: resolve webhook URL: %w", err)
	}
	slog.Debug("webhook URL resolved from parameter store", "param", cfg.WebhookParam)
	return url, nil
}
