// Package mongodb stores the audit trail in MongoDB or the Cosmos DB MongoDB API.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/unifiedui/variables-service/internal/core/docdb"
)

// Client implements the docdb.Client interface for MongoDB.
type Client struct {
	client     *mongo.Client
	actionLogs *ActionLogsCollection
}

const (
	appName                = "variables-service"
	defaultConnectTimeout  = 10 * time.Second
	serverSelectionTimeout = 5 * time.Second
)

// ClientConfig holds MongoDB connection configuration.
type ClientConfig struct {
	URI          string
	DatabaseName string
	// ConnectTimeout bounds the initial ping. Defaults to 10s.
	ConnectTimeout time.Duration
}

// NewClient creates a new MongoDB client.
func NewClient(ctx context.Context, config *ClientConfig) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if config.URI == "" {
		return nil, fmt.Errorf("mongodb URI is required")
	}
	if config.DatabaseName == "" {
		return nil, fmt.Errorf("database name is required")
	}

	clientOpts := options.Client().
		ApplyURI(config.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(serverSelectionTimeout)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	timeout := config.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(config.DatabaseName)

	return &Client{
		client:     client,
		actionLogs: NewActionLogsCollection(db),
	}, nil
}

// ActionLogs returns the action logs collection.
func (c *Client) ActionLogs() docdb.ActionLogsCollection {
	return c.actionLogs
}

// Ping verifies the connection to MongoDB.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongodb ping failed: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (c *Client) Close(ctx context.Context) error {
	if err := c.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongodb: %w", err)
	}
	return nil
}

// EnsureIndexes creates the action log indexes.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	if err := c.actionLogs.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to ensure action log indexes: %w", err)
	}
	return nil
}

var _ docdb.Client = (*Client)(nil)
