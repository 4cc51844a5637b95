// Package memory provides an in-process secret backend for development and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/unifiedui/variables-service/internal/core/secrets"
	"github.com/unifiedui/variables-service/internal/pkg/encryption"
)

// Backend implements secrets.Backend with values sealed in memory.
type Backend struct {
	mu      sync.RWMutex
	secrets map[string]map[string]string
	sealer  encryption.Sealer
	labels  map[string]string

	hookMu       sync.Mutex
	asyncDelay   time.Duration
	failures     map[string]error
	issueFailure map[string]error
}

// Option configures a Backend.
type Option func(*Backend)

// WithSealer seals stored values with s instead of the plain sealer.
func WithSealer(s encryption.Sealer) Option {
	return func(b *Backend) {
		b.sealer = s
	}
}

// WithLabel sets the label rendered into templates.
func WithLabel(label string) Option {
	return func(b *Backend) {
		b.labels = map[string]string{label: secrets.ManagedLabelValue}
	}
}

// NewBackend creates an empty memory backend.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		secrets:      make(map[string]map[string]string),
		sealer:       encryption.NewPlainSealer(),
		failures:     make(map[string]error),
		issueFailure: make(map[string]error),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetAsyncDelay delays every asynchronous removal by d.
func (b *Backend) SetAsyncDelay(d time.Duration) {
	b.hookMu.Lock()
	defer b.hookMu.Unlock()
	b.asyncDelay = d
}

// FailMutations makes every mutating call on secret fail with err.
// A nil err clears the failure.
func (b *Backend) FailMutations(secret string, err error) {
	b.hookMu.Lock()
	defer b.hookMu.Unlock()
	if err == nil {
		delete(b.failures, secret)
		return
	}
	b.failures[secret] = err
}

// FailAsyncIssue makes RemoveEntriesAsync on secret fail before a call is issued.
func (b *Backend) FailAsyncIssue(secret string, err error) {
	b.hookMu.Lock()
	defer b.hookMu.Unlock()
	if err == nil {
		delete(b.issueFailure, secret)
		return
	}
	b.issueFailure[secret] = err
}

func (b *Backend) failure(secret string) error {
	b.hookMu.Lock()
	defer b.hookMu.Unlock()
	return b.failures[secret]
}

// ListAll returns every stored secret.
func (b *Backend) ListAll(ctx context.Context) (map[string]map[string]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(map[string]map[string]string, len(b.secrets))
	for name, sealed := range b.secrets {
		data, err := b.open(name, sealed)
		if err != nil {
			return nil, fmt.Errorf("failed to read secret %s: %w", name, err)
		}
		out[name] = data
	}
	return out, nil
}

// Get returns one secret.
func (b *Backend) Get(ctx context.Context, name string, failIfAbsent bool) (map[string]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	sealed, ok := b.secrets[name]
	if !ok {
		if failIfAbsent {
			return nil, fmt.Errorf("%w: %s", secrets.ErrSecretNotFound, name)
		}
		return map[string]string{}, nil
	}
	return b.open(name, sealed)
}

// Create creates an empty secret.
func (b *Backend) Create(ctx context.Context, name string) (bool, error) {
	if err := b.failure(name); err != nil {
		return false, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.secrets[name]; ok {
		return false, nil
	}
	b.secrets[name] = make(map[string]string)
	return true, nil
}

// AddEntries appends entries, creating the secret when it is missing and empty.
func (b *Backend) AddEntries(ctx context.Context, name string, entries map[string]string, isEmpty bool) (map[string]string, error) {
	if err := b.failure(name); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.secrets[name]; !ok {
		if !isEmpty {
			return nil, fmt.Errorf("%w: %s", secrets.ErrSecretNotFound, name)
		}
		b.secrets[name] = make(map[string]string)
	}
	return b.write(name, entries, nil)
}

// UpdateEntries overwrites entries of an existing secret.
func (b *Backend) UpdateEntries(ctx context.Context, name string, entries map[string]string) (map[string]string, error) {
	if err := b.failure(name); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.secrets[name]; !ok {
		return nil, fmt.Errorf("%w: %s", secrets.ErrSecretNotFound, name)
	}
	return b.write(name, entries, nil)
}

// RemoveEntries deletes keys from an existing secret.
func (b *Backend) RemoveEntries(ctx context.Context, name string, keys []string) (map[string]string, error) {
	if err := b.failure(name); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.secrets[name]; !ok {
		return nil, fmt.Errorf("%w: %s", secrets.ErrSecretNotFound, name)
	}
	return b.write(name, nil, keys)
}

// RemoveEntriesAsync runs RemoveEntries on a separate goroutine after the
// configured delay.
func (b *Backend) RemoveEntriesAsync(ctx context.Context, name string, keys []string, callback secrets.UpdateCallback) (*secrets.Call, error) {
	b.hookMu.Lock()
	issueErr := b.issueFailure[name]
	delay := b.asyncDelay
	b.hookMu.Unlock()

	if issueErr != nil {
		return nil, issueErr
	}

	keys = append([]string(nil), keys...)
	return secrets.RunAsync(ctx, func(ctx context.Context) (map[string]string, error) {
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		return b.RemoveEntries(ctx, name, keys)
	}, callback), nil
}

// Template renders the secret manifest.
func (b *Backend) Template(ctx context.Context, name string) ([]byte, error) {
	data, err := b.Get(ctx, name, true)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return secrets.RenderTemplate(name, b.labels, keys)
}

// Ping checks if the backend is available (always returns nil).
func (b *Backend) Ping(ctx context.Context) error {
	return nil
}

// Close closes the backend (no-op).
func (b *Backend) Close() error {
	return nil
}

// write applies additions and removals to a secret and returns its new
// contents. Caller must hold b.mu.
func (b *Backend) write(name string, entries map[string]string, removals []string) (map[string]string, error) {
	sealed := b.secrets[name]
	next := make(map[string]string, len(sealed)+len(entries))
	for k, v := range sealed {
		next[k] = v
	}
	for k, v := range entries {
		s, err := b.sealer.Seal(encryption.Slot(name, k), v)
		if err != nil {
			return nil, fmt.Errorf("failed to seal value %s: %w", k, err)
		}
		next[k] = s
	}
	for _, k := range removals {
		delete(next, k)
	}
	b.secrets[name] = next
	return b.open(name, next)
}

func (b *Backend) open(name string, sealed map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(sealed))
	for k, v := range sealed {
		plain, err := b.sealer.Open(encryption.Slot(name, k), v)
		if err != nil {
			return nil, fmt.Errorf("failed to open value %s: %w", k, err)
		}
		out[k] = plain
	}
	return out, nil
}

var _ secrets.Backend = (*Backend)(nil)
