// Package redis provides the Redis-backed common variables store.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/unifiedui/variables-service/internal/core/commonvars"
)

// Config holds Redis connection configuration.
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
	// HashKey is the Redis hash holding one field per common variable.
	HashKey string
}

// Store implements commonvars.Store over a single Redis hash.
type Store struct {
	client  *redis.Client
	hashKey string
}

// NewStore creates a new Redis common variables store.
func NewStore(cfg Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Store{
		client:  client,
		hashKey: cfg.HashKey,
	}, nil
}

// GetVariables returns every field of the hash.
func (s *Store) GetVariables(ctx context.Context) (map[string]string, error) {
	vars, err := s.client.HGetAll(ctx, s.hashKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read common variables: %w", err)
	}
	return vars, nil
}

// SetVariable stores a common variable.
func (s *Store) SetVariable(ctx context.Context, name, value string) error {
	if err := s.client.HSet(ctx, s.hashKey, name, value).Err(); err != nil {
		return fmt.Errorf("failed to set common variable %s: %w", name, err)
	}
	return nil
}

// DeleteVariable removes a common variable.
func (s *Store) DeleteVariable(ctx context.Context, name string) (bool, error) {
	n, err := s.client.HDel(ctx, s.hashKey, name).Result()
	if err != nil {
		return false, fmt.Errorf("failed to delete common variable %s: %w", name, err)
	}
	return n > 0, nil
}

// Ping checks if the Redis connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}

var _ commonvars.Store = (*Store)(nil)
