// Package milvus holds the Milvus connection. The client is constructed
// once at process start and injected into its consumers; there is no
// process-wide singleton.
package milvus

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus-sdk-go/v2/client"

	"ragbot/internal/config"
)

// Client wraps the raw Milvus SDK client.
type Client struct {
	Client client.Client
}

// Connect establishes the Milvus connection.
func Connect(ctx context.Context, cfg *config.MilvusConfig) (*Client, error) {
	c, err := client.NewClient(ctx, client.Config{Address: cfg.Address})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to milvus at %s: %w", cfg.Address, err)
	}
	return &Client{Client: c}, nil
}

// Close shuts the connection down.
func (c *Client) Close() {
	if c.Client != nil {
		c.Client.Close()
	}
}

// HealthCheck verifies the server is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.Client == nil {
		return fmt.Errorf("milvus client is not initialized")
	}
	if _, err := c.Client.ListCollections(ctx); err != nil {
		return fmt.Errorf("milvus health check failed: %w", err)
	}
	return nil
}
