// Package notifier posts text to a Discord-style chat webhook, split into
// ordered, line-bounded chunks.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultDelay   = 500 * time.Millisecond
	defaultTimeout = 10 * time.Second
)

// webhookPayload is the request body accepted by the webhook.
type webhookPayload struct {
	Content string `json:"content"`
}

// HTTPStatusError captures a non-2xx webhook response.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("notifier: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// Notifier sends messages to a single webhook URL.
type Notifier struct {
	webhookURL string
	displayURL string
	httpClient *http.Client
	chunkLimit int
	delay      time.Duration
	logger     *slog.Logger
}

type Option func(*Notifier)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(n *Notifier) {
		n.httpClient = httpClient
	}
}

// WithChunkLimit sets the per-chunk character budget; values <= 0 keep
// DefaultChunkLimit.
func WithChunkLimit(limit int) Option {
	return func(n *Notifier) {
		if limit > 0 {
			n.chunkLimit = limit
		}
	}
}

// WithDelay sets the pause between consecutive posts. Negative values are
// treated as zero.
func WithDelay(d time.Duration) Option {
	return func(n *Notifier) {
		if d < 0 {
			d = 0
		}
		n.delay = d
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(n *Notifier) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// New creates a Notifier for webhookURL.
func New(webhookURL string, opts ...Option) (*Notifier, error) {
	webhookURL = strings.TrimSpace(webhookURL)
	if webhookURL == "" {
		return nil, errors.New("notifier: webhook URL must not be empty")
	}
	u, err := url.Parse(webhookURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.New("notifier: webhook URL must be an absolute http(s) URL")
	}
	n := &Notifier{
		webhookURL: webhookURL,
		// The path carries the webhook token, so errors only show the host.
		displayURL: u.Scheme + "://" + u.Host,
		httpClient: &http.Client{Timeout: defaultTimeout},
		chunkLimit: DefaultChunkLimit,
		delay:      defaultDelay,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.httpClient == nil {
		n.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return n, nil
}

// Notify splits text and posts each chunk in order, pausing between posts.
// A failed post is logged and does not stop the remaining chunks; all
// failures are returned together. Blank chunks are skipped because the
// webhook rejects empty content. Cancelling ctx stops the run.
func (n *Notifier) Notify(ctx context.Context, text string) error {
	chunks := Split(text, n.chunkLimit)

	var errs []error
	attempted, sent := 0, 0
	for i, chunk := range chunks {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		if attempted > 0 {
			if err := n.wait(ctx); err != nil {
				errs = append(errs, fmt.Errorf("notifier: interrupted before chunk %d: %w", i, err))
				return errors.Join(errs...)
			}
		}
		attempted++
		if err := n.post(ctx, chunk); err != nil {
			n.logger.Warn("webhook post failed", "chunk", i, "chunks", len(chunks), "err", err)
			errs = append(errs, fmt.Errorf("notifier: chunk %d: %w", i, err))
			continue
		}
		sent++
	}

	n.logger.Info("notification complete", "chunks", len(chunks), "sent", sent, "failed", len(errs))
	return errors.Join(errs...)
}

func (n *Notifier) wait(ctx context.Context) error {
	if n.delay == 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(n.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (n *Notifier) post(ctx context.Context, content string) error {
	body, err := json.Marshal(webhookPayload{Content: content})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := n.httpClient.Do(req)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			uerr.URL = n.displayURL
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return &HTTPStatusError{
			StatusCode: res.StatusCode,
			URL:        n.displayURL,
			Body:       string(buf),
		}
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 1<<20))
	return nil
}
