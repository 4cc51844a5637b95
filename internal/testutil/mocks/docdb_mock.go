package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/unifiedui/variables-service/internal/core/docdb"
	"github.com/unifiedui/variables-service/internal/domain/models"
)

// MockDocDBClient is a mock implementation of docdb.Client.
type MockDocDBClient struct {
	mock.Mock
}

// ActionLogs returns the action logs collection.
func (m *MockDocDBClient) ActionLogs() docdb.ActionLogsCollection {
	args := m.Called()
	return args.Get(0).(docdb.ActionLogsCollection)
}

// EnsureIndexes creates indexes.
func (m *MockDocDBClient) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Ping verifies the database connection.
func (m *MockDocDBClient) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close closes the database connection.
func (m *MockDocDBClient) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockActionLogsCollection is a mock implementation of docdb.ActionLogsCollection.
type MockActionLogsCollection struct {
	mock.Mock
}

// SaveBatch inserts entries.
func (m *MockActionLogsCollection) SaveBatch(ctx context.Context, logs []models.ActionLog) error {
	args := m.Called(ctx, logs)
	return args.Error(0)
}

// Find returns matching entries.
func (m *MockActionLogsCollection) Find(ctx context.Context, opts *docdb.FindActionLogsOptions) ([]models.ActionLog, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ActionLog), args.Error(1)
}

// CountOlderThan counts entries older than t.
func (m *MockActionLogsCollection) CountOlderThan(ctx context.Context, t time.Time, filters []models.ActionLogFilter) (int64, error) {
	args := m.Called(ctx, t, filters)
	return args.Get(0).(int64), args.Error(1)
}

// DeleteOlderThan removes entries older than t.
func (m *MockActionLogsCollection) DeleteOlderThan(ctx context.Context, t time.Time) (int64, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(int64), args.Error(1)
}

// EnsureIndexes creates indexes.
func (m *MockActionLogsCollection) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
