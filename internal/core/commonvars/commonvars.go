// Package commonvars defines the provider of plain (non-secret) configuration
// variables whose names must stay disjoint from the default secret.
package commonvars

import (
	"context"
)

// Provider exposes a read-only snapshot of the common variables.
type Provider interface {
	// GetVariables returns the current common variables by name.
	GetVariables(ctx context.Context) (map[string]string, error)
}

// Store is a Provider that can also be written to and health-checked.
type Store interface {
	Provider

	// SetVariable stores a common variable.
	SetVariable(ctx context.Context, name, value string) error

	// DeleteVariable removes a common variable. Returns false if it was absent.
	DeleteVariable(ctx context.Context, name string) (bool, error)

	// Ping checks if the store connection is alive.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	Close() error
}
