package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockSealer is a mock implementation of encryption.Sealer.
type MockSealer struct {
	mock.Mock
}

// Seal seals plaintext for slot.
func (m *MockSealer) Seal(slot, plaintext string) (string, error) {
	args := m.Called(slot, plaintext)
	return args.String(0), args.Error(1)
}

// Open opens a sealed value for slot.
func (m *MockSealer) Open(slot, sealed string) (string, error) {
	args := m.Called(slot, sealed)
	return args.String(0), args.Error(1)
}
