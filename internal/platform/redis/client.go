package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Config holds connection settings for the store client.
type Config struct {
	Addr     string
	Password string
	DB       int

	// Timeout bounds dialing and every read or write on the socket.
	Timeout time.Duration

	// Retries is the number of retries for a failed command, with exponential
	// backoff between attempts.
	Retries int
}

// DefaultTimeout applies when Config.Timeout is not set.
const DefaultTimeout = 3 * time.Second

const (
	minRetryBackoff = 8 * time.Millisecond
	maxRetryBackoff = 512 * time.Millisecond
)

// Options converts cfg to go-redis client options.
func (cfg Config) Options() *goredis.Options {
	return &goredis.Options{
		Addr:            cfg.Addr,
		Password:        cfg.Password,
		DB:              cfg.DB,
		DialTimeout:     cfg.Timeout,
		ReadTimeout:     cfg.Timeout,
		WriteTimeout:    cfg.Timeout,
		MaxRetries:      cfg.Retries,
		MinRetryBackoff: minRetryBackoff,
		MaxRetryBackoff: maxRetryBackoff,
	}
}

// NewClient creates a client and verifies connectivity with PING.
// The returned client is usable even when err is non-nil; commands retry
// the connection on their own.
func NewClient(ctx context.Context, cfg Config) (*goredis.Client, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	client := goredis.NewClient(cfg.Options())

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout*time.Duration(cfg.Retries+1))
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return client, fmt.Errorf("ping redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}
