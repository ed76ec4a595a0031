/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/suparena/rediskv/logging"
)

// Client wraps a go-redis client with logging and lifecycle handling.
type Client struct {
	rdb    *goredis.Client
	log    zerolog.Logger
	closed bool
	mu     sync.Mutex
}

// New creates a new Redis client with the given configuration and logger.
func New(cfg Config, log zerolog.Logger) (*Client, error) {
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("redis config: %w", err)
	}

	opts := &goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.URL != "" {
		parsed, err := goredis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis URL: %w", err)
		}
		opts = parsed
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.MaxRetries = cfg.MaxRetries
	opts.DialTimeout, _ = time.ParseDuration(cfg.DialTimeout)
	opts.ReadTimeout, _ = time.ParseDuration(cfg.ReadTimeout)
	opts.WriteTimeout, _ = time.ParseDuration(cfg.WriteTimeout)
	if cfg.PoolTimeout != "" {
		opts.PoolTimeout, _ = time.ParseDuration(cfg.PoolTimeout)
	}

	rdb := goredis.NewClient(opts)
	if cfg.Metrics {
		rdb.AddHook(&MetricsHook{})
	}

	c := NewFromClient(rdb, log)
	c.log.Info().
		Str("addr", opts.Addr).
		Int("db", opts.DB).
		Int("pool_size", opts.PoolSize).
		Msg("Redis client created")
	return c, nil
}

// NewFromClient wraps an existing go-redis client.
func NewFromClient(rdb *goredis.Client, log zerolog.Logger) *Client {
	return &Client{rdb: rdb, log: logging.WithComponent(log, "redis")}
}

// Ping verifies the Redis connection is alive.
func (c *Client) Ping(ctx context.Context) error {
	pong, err := c.rdb.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	if pong != "PONG" {
		return fmt.Errorf("unexpected redis ping response: %s", pong)
	}
	return nil
}

// Delete removes whole keys and returns how many existed.
func (c *Client) Delete(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	return c.rdb.Del(ctx, keys...).Result()
}

// Close closes the Redis connection. Safe to call multiple times.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.log.Info().Msg("Closing Redis connection")
	c.closed = true
	return c.rdb.Close()
}

// Unwrap returns the underlying go-redis client for advanced operations.
func (c *Client) Unwrap() *goredis.Client {
	return c.rdb
}

// Logger returns the client's component logger.
func (c *Client) Logger() zerolog.Logger {
	return c.log
}
