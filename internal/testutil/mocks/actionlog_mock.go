package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/unifiedui/variables-service/internal/domain/models"
)

// MockActionLogService is a mock implementation of actionlog.Service.
type MockActionLogService struct {
	mock.Mock
}

// LogAction submits an entry.
func (m *MockActionLogService) LogAction(ctx context.Context, action *models.ActionLog) bool {
	args := m.Called(ctx, action)
	return args.Bool(0)
}

// Search returns matching entries.
func (m *MockActionLogService) Search(ctx context.Context, criteria models.ActionLogSearchCriteria) (*models.ActionLogSearchResult, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ActionLogSearchResult), args.Error(1)
}

// DeleteOlderThan removes entries older than age.
func (m *MockActionLogService) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	args := m.Called(ctx, age)
	return args.Get(0).(int64), args.Error(1)
}
