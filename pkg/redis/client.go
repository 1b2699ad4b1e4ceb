// Package redis wraps the go-redis client used for the state fan-out between
// gateway instances.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const pingTimeout = 2 * time.Second

// Client is an optional Redis connection. A nil *Client means Redis is
// disabled; its methods are safe to call.
type Client struct {
	*redis.Client
	addr   string
	logger *zap.Logger
}

// NewClient connects to addr and verifies it with a ping. An empty addr
// disables Redis and returns nil, nil.
func NewClient(ctx context.Context, addr, password string, db int, logger *zap.Logger) (*Client, error) {
	if addr == "" {
		logger.Info("redis disabled, state stays local to this instance")
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	c := &Client{Client: rdb, addr: addr, logger: logger}
	if err := c.Ping(ctx); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	logger.Info("redis client connected", zap.String("addr", addr), zap.Int("db", db))
	return c, nil
}

// Ping checks the connection within a short deadline.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", c.addr, err)
	}
	return nil
}

// Health reports "disabled", "up" or "down" for the health endpoint.
func (c *Client) Health(ctx context.Context) string {
	if c == nil {
		return "disabled"
	}
	if err := c.Ping(ctx); err != nil {
		c.logger.Warn("redis health", zap.Error(err))
		return "down"
	}
	return "up"
}

// Close closes the connection pool.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.Client.Close()
}
