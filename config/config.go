// Package config loads runtime settings from the environment. It is the
// only place the process environment is read; components receive values
// through their constructors.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultChunkLimit  = 1500
	defaultNotifyDelay = 500 * time.Millisecond
	defaultQueueDelay  = 1
	defaultHTTPTimeout = 10 * time.Second
	defaultEnvFile     = ".env"
)

// Config holds the settings shared by the pipeline utilities.
type Config struct {
	// WebhookURL is the chat webhook. When empty, WebhookParam names an SSM
	// parameter holding it.
	WebhookURL   string
	WebhookParam string
	ChunkLimit   int
	NotifyDelay  time.Duration

	QueueURL          string
	QueueDelaySeconds int

	HTTPTimeout time.Duration
}

// loadEnvFile is swapped out in tests.
var loadEnvFile = godotenv.Load

// Load reads a .env file from the working directory when present, then the
// process environment. Variables already set in the environment win over
// the file.
func Load() (Config, error) {
	if err := loadEnvFile(defaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load %s: %w", defaultEnvFile, err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (Config, error) {
	chunkLimit, err := envIntOrDefault("NOTIFY_CHUNK_LIMIT", defaultChunkLimit)
	if err != nil {
		return Config{}, err
	}
	delayMS, err := envIntOrDefault("NOTIFY_DELAY_MS", int(defaultNotifyDelay/time.Millisecond))
	if err != nil {
		return Config{}, err
	}
	queueDelay, err := envIntOrDefault("SQS_DELAY_SECONDS", defaultQueueDelay)
	if err != nil {
		return Config{}, err
	}
	timeoutSecs, err := envIntOrDefault("HTTP_TIMEOUT_SECONDS", int(defaultHTTPTimeout/time.Second))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		WebhookURL:   envTrim("DISCORD_BOT_WEBHOOK"),
		WebhookParam: envTrim("DISCORD_BOT_WEBHOOK_PARAM"),
		ChunkLimit:   chunkLimit,
		NotifyDelay:  time.Duration(delayMS) * time.Millisecond,

		QueueURL:          envTrim("SQS_QUEUE_URL"),
		QueueDelaySeconds: queueDelay,

		HTTPTimeout: time.Duration(timeoutSecs) * time.Second,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values no component can run with.
func (c Config) Validate() error {
	if c.ChunkLimit <= 0 {
		return fmt.Errorf("config: NOTIFY_CHUNK_LIMIT must be positive, got %d", c.ChunkLimit)
	}
	if c.NotifyDelay < 0 {
		return fmt.Errorf("config: NOTIFY_DELAY_MS must not be negative, got %s", c.NotifyDelay)
	}
	if c.QueueDelaySeconds < 0 || c.QueueDelaySeconds > 900 {
		return fmt.Errorf("config: SQS_DELAY_SECONDS must be within 0-900, got %d", c.QueueDelaySeconds)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("config: HTTP_TIMEOUT_SECONDS must be positive, got %s", c.HTTPTimeout)
	}
	return nil
}

func envTrim(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envIntOrDefault(key string, def int) (int, error) {
	raw := envTrim(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s: %w", key, err)
	}
	return n, nil
}
