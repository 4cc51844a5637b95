// Package secrets defines the secret backend interface.
package secrets

import (
	"context"
	"errors"
)

// ErrSecretNotFound is returned (wrapped) by a Backend when a required secret
// does not exist.
var ErrSecretNotFound = errors.New("secret not found")

// Backend defines the operations the variables service needs from a secret
// store. Every returned map is the full post-operation content of the secret
// and is owned by the caller.
type Backend interface {
	// ListAll returns the contents of every secret managed by this service.
	ListAll(ctx context.Context) (map[string]map[string]string, error)

	// Get returns the contents of one secret. A missing secret yields
	// ErrSecretNotFound when failIfAbsent is set and an empty map otherwise.
	Get(ctx context.Context, name string, failIfAbsent bool) (map[string]string, error)

	// Create creates an empty secret. Returns false if it already exists.
	Create(ctx context.Context, name string) (bool, error)

	// AddEntries appends entries to a secret. isEmpty tells the backend the
	// secret currently holds no data, so it may be created from scratch.
	AddEntries(ctx context.Context, name string, entries map[string]string, isEmpty bool) (map[string]string, error)

	// UpdateEntries overwrites the given entries of an existing secret.
	UpdateEntries(ctx context.Context, name string, entries map[string]string) (map[string]string, error)

	// RemoveEntries removes the given keys from a secret.
	RemoveEntries(ctx context.Context, name string, keys []string) (map[string]string, error)

	// RemoveEntriesAsync removes the given keys without waiting for the
	// result. The callback is invoked exactly once, on a backend goroutine.
	RemoveEntriesAsync(ctx context.Context, name string, keys []string, callback UpdateCallback) (*Call, error)

	// Template renders the secret as a deployable manifest whose values are
	// replaced by Helm value references.
	Template(ctx context.Context, name string) ([]byte, error)

	// Ping checks if the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
