package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"coin-getter/timeutil"
)

// s3API is the minimal S3 interface required by Client.
// *s3.Client from aws-sdk-go-v2 satisfies this interface.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Client writes and reads whole objects addressed by bucket and key.
type Client struct {
	api s3API
}

// New creates a Client with the given S3 API implementation.
func New(api s3API) (*Client, error) {
	if api == nil {
		return nil, errors.New("objectstore: api must not be nil")
	}
	return &Client{api: api}, nil
}

func location(bucket, key string) (string, string, error) {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return "", "", errors.New("objectstore: bucket is required")
	}
	if strings.TrimSpace(key) == "" {
		return "", "", errors.New("objectstore: key is required")
	}
	return bucket, key, nil
}

// Write uploads data to bucket/key in a single PutObject call and returns
// the provider's acknowledgment.
func (c *Client) Write(ctx context.Context, data []byte, bucket, key string) (*s3.PutObjectOutput, error) {
	bucket, key, err := location(bucket, key)
	if err != nil {
		return nil, err
	}

	out, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return nil, fmt.Errorf("objectstore: put s3://%s/%s: %w", bucket, key, err)
	}
	return out, nil
}

// Read fetches bucket/key. The caller owns out.Body and must close it.
func (c *Client) Read(ctx context.Context, bucket, key string) (*s3.GetObjectOutput, error) {
	bucket, key, err := location(bucket, key)
	if err != nil {
		return nil, err
	}

	out, err := c.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("objectstore: get s3://%s/%s: %w", bucket, key, err)
	}
	if out == nil || out.Body == nil {
		return nil, fmt.Errorf("objectstore: get s3://%s/%s: empty response", bucket, key)
	}
	return out, nil
}

// ReadAll fetches bucket/key and returns the full body.
func (c *Client) ReadAll(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := c.Read(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	defer func() { _ = out.Body.Close() }()

	buf, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("objectstore: read body s3://%s/%s: %w", bucket, key, err)
	}
	return buf, nil
}

// PartitionedKey places name under prefix/year=Y/month=M/day=D for the UTC
// date of t. An empty prefix is omitted.
func PartitionedKey(prefix string, t time.Time, name string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return path.Join(timeutil.PartitionPath(t), name)
	}
	return path.Join(prefix, timeutil.PartitionPath(t), name)
}
