package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/unifiedui/variables-service/internal/domain/models"
)

// MockVariablesService is a mock implementation of variables.Service.
type MockVariablesService struct {
	mock.Mock
}

// ResolveSecretName resolves the default secret alias.
func (m *MockVariablesService) ResolveSecretName(name string) string {
	args := m.Called(name)
	return args.String(0)
}

// DefaultSecretName returns the default secret name.
func (m *MockVariablesService) DefaultSecretName() string {
	args := m.Called()
	return args.String(0)
}

// ListVariableNames lists the variables of a secret.
func (m *MockVariablesService) ListVariableNames(ctx context.Context, secretName string, failIfMissing bool) ([]string, error) {
	args := m.Called(ctx, secretName, failIfMissing)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// ListAllVariableNames lists the variables of every secret.
func (m *MockVariablesService) ListAllVariableNames(ctx context.Context) (map[string][]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]string), args.Error(1)
}

// AddVariables adds variables to a secret.
func (m *MockVariablesService) AddVariables(ctx context.Context, secretName string, entries map[string]string, importMode bool) (*models.SecretVariables, error) {
	args := m.Called(ctx, secretName, entries, importMode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SecretVariables), args.Error(1)
}

// UpdateVariables updates variables of a secret.
func (m *MockVariablesService) UpdateVariables(ctx context.Context, secretName string, entries map[string]*string) (*models.SecretVariables, error) {
	args := m.Called(ctx, secretName, entries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SecretVariables), args.Error(1)
}

// UpdateVariable updates one variable of the default secret.
func (m *MockVariablesService) UpdateVariable(ctx context.Context, name string, value *string) (string, error) {
	args := m.Called(ctx, name, value)
	return args.String(0), args.Error(1)
}

// DeleteVariables deletes variables from a secret.
func (m *MockVariablesService) DeleteVariables(ctx context.Context, secretName string, names []string, logOperation bool) error {
	args := m.Called(ctx, secretName, names, logOperation)
	return args.Error(0)
}

// DeleteVariablesForMultipleSecrets deletes variables from many secrets.
func (m *MockVariablesService) DeleteVariablesForMultipleSecrets(ctx context.Context, variablesPerSecret map[string][]string) ([]models.SecretError, error) {
	args := m.Called(ctx, variablesPerSecret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SecretError), args.Error(1)
}

// ImportVariables imports variables into the default secret.
func (m *MockVariablesService) ImportVariables(ctx context.Context, content []byte) ([]string, error) {
	args := m.Called(ctx, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// CreateSecret creates a secret.
func (m *MockVariablesService) CreateSecret(ctx context.Context, secretName string) (bool, error) {
	args := m.Called(ctx, secretName)
	return args.Bool(0), args.Error(1)
}

// SecretTemplate renders a secret manifest.
func (m *MockVariablesService) SecretTemplate(ctx context.Context, secretName string) ([]byte, error) {
	args := m.Called(ctx, secretName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
