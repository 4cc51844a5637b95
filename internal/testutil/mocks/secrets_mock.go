// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/unifiedui/variables-service/internal/core/secrets"
)

// MockSecretBackend is a mock implementation of secrets.Backend.
type MockSecretBackend struct {
	mock.Mock
}

func stringMap(args mock.Arguments, i int) map[string]string {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).(map[string]string)
}

// ListAll returns every secret.
func (m *MockSecretBackend) ListAll(ctx context.Context) (map[string]map[string]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]map[string]string), args.Error(1)
}

// Get returns one secret.
func (m *MockSecretBackend) Get(ctx context.Context, name string, failIfAbsent bool) (map[string]string, error) {
	args := m.Called(ctx, name, failIfAbsent)
	return stringMap(args, 0), args.Error(1)
}

// Create creates an empty secret.
func (m *MockSecretBackend) Create(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

// AddEntries appends entries to a secret.
func (m *MockSecretBackend) AddEntries(ctx context.Context, name string, entries map[string]string, isEmpty bool) (map[string]string, error) {
	args := m.Called(ctx, name, entries, isEmpty)
	return stringMap(args, 0), args.Error(1)
}

// UpdateEntries overwrites entries of a secret.
func (m *MockSecretBackend) UpdateEntries(ctx context.Context, name string, entries map[string]string) (map[string]string, error) {
	args := m.Called(ctx, name, entries)
	return stringMap(args, 0), args.Error(1)
}

// RemoveEntries removes keys from a secret.
func (m *MockSecretBackend) RemoveEntries(ctx context.Context, name string, keys []string) (map[string]string, error) {
	args := m.Called(ctx, name, keys)
	return stringMap(args, 0), args.Error(1)
}

// RemoveEntriesAsync removes keys without waiting.
func (m *MockSecretBackend) RemoveEntriesAsync(ctx context.Context, name string, keys []string, callback secrets.UpdateCallback) (*secrets.Call, error) {
	args := m.Called(ctx, name, keys, callback)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secrets.Call), args.Error(1)
}

// Template renders a secret manifest.
func (m *MockSecretBackend) Template(ctx context.Context, name string) ([]byte, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Ping checks if the backend is reachable.
func (m *MockSecretBackend) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close releases backend resources.
func (m *MockSecretBackend) Close() error {
	args := m.Called()
	return args.Error(0)
}
