// Package redis establishes and owns the Redis connection used for
// session history.
package redis

import (
	"context"
	"fmt"

	goredis "github.com/go-redis/redis/v8"

	"ragbot/internal/config"
)

// Client wraps a connected go-redis client.
type Client struct {
	Client *goredis.Client
}

// Connect creates a Redis client and verifies the connection with a ping.
func Connect(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Address, err)
	}
	return &Client{Client: rdb}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.Client == nil {
		return nil
	}
	return c.Client.Close()
}

// HealthCheck pings the server.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	return c.Client.Ping(ctx).Err()
}
