package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockCommonVariables is a mock implementation of commonvars.Store.
type MockCommonVariables struct {
	mock.Mock
}

// GetVariables returns the common variables.
func (m *MockCommonVariables) GetVariables(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

// SetVariable stores a common variable.
func (m *MockCommonVariables) SetVariable(ctx context.Context, name, value string) error {
	args := m.Called(ctx, name, value)
	return args.Error(0)
}

// DeleteVariable removes a common variable.
func (m *MockCommonVariables) DeleteVariable(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

// Ping checks if the store connection is alive.
func (m *MockCommonVariables) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close closes the store connection.
func (m *MockCommonVariables) Close() error {
	args := m.Called()
	return args.Error(0)
}
