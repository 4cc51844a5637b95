// Package variables provides the serialized store for secured variables.
package variables

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/unifiedui/variables-service/internal/core/commonvars"
	"github.com/unifiedui/variables-service/internal/core/secrets"
	domainerrors "github.com/unifiedui/variables-service/internal/domain/errors"
	"github.com/unifiedui/variables-service/internal/domain/models"
	"github.com/unifiedui/variables-service/internal/pkg/fairlock"
)

const (
	// DefaultSecretAlias addresses the default secret, case-insensitively.
	DefaultSecretAlias = "default"

	// DefaultAsyncDeleteTimeout bounds the wait for asynchronous deletions.
	DefaultAsyncDeleteTimeout = 30 * time.Second
)

// ActionLogger accepts audit entries without blocking.
type ActionLogger interface {
	// LogAction submits an entry and reports whether it was accepted.
	LogAction(ctx context.Context, action *models.ActionLog) bool
}

// Service manages secured variables across secrets. Every operation that
// reads and then writes secret contents runs under one process-wide FIFO lock.
type Service interface {
	// ResolveSecretName maps blank names and "default" to the default secret.
	ResolveSecretName(name string) string

	// DefaultSecretName returns the configured default secret name.
	DefaultSecretName() string

	// ListVariableNames returns the sorted variable names of a secret. A missing
	// secret is an error only when failIfMissing is set.
	ListVariableNames(ctx context.Context, secretName string, failIfMissing bool) ([]string, error)

	// ListAllVariableNames returns the variable names of every secret.
	ListAllVariableNames(ctx context.Context) (map[string][]string, error)

	// AddVariables creates or overwrites variables in a secret.
	AddVariables(ctx context.Context, secretName string, entries map[string]string, importMode bool) (*models.SecretVariables, error)

	// UpdateVariables overwrites existing variables. A nil value is stored as "".
	UpdateVariables(ctx context.Context, secretName string, entries map[string]*string) (*models.SecretVariables, error)

	// UpdateVariable overwrites one variable of the default secret.
	UpdateVariable(ctx context.Context, name string, value *string) (string, error)

	// DeleteVariables removes variables from a secret. Names that do not exist
	// are ignored.
	DeleteVariables(ctx context.Context, secretName string, names []string, logOperation bool) error

	// DeleteVariablesForMultipleSecrets removes variables from many secrets at
	// once. It fails only when every secret failed; otherwise the failed
	// secrets are returned.
	DeleteVariablesForMultipleSecrets(ctx context.Context, variablesPerSecret map[string][]string) ([]models.SecretError, error)

	// ImportVariables adds the name/value mapping held in a YAML or JSON
	// document to the default secret.
	ImportVariables(ctx context.Context, content []byte) ([]string, error)

	// CreateSecret creates an empty secret. Returns false if it already exists.
	CreateSecret(ctx context.Context, secretName string) (bool, error)

	// SecretTemplate renders a deployable manifest for a secret.
	SecretTemplate(ctx context.Context, secretName string) ([]byte, error)
}

// Config holds the configuration for the variables service.
type Config struct {
	Backend            secrets.Backend
	CommonVariables    commonvars.Provider
	ActionLogger       ActionLogger
	DefaultSecret      string
	AsyncDeleteTimeout time.Duration
}

// store implements the Service interface.
type store struct {
	backend            secrets.Backend
	commonVariables    commonvars.Provider
	actionLogger       ActionLogger
	defaultSecret      string
	asyncDeleteTimeout time.Duration

	lock  *fairlock.Lock
	cache *secretCache
}

// NewService creates a new variables service.
func NewService(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Backend == nil {
		return nil, fmt.Errorf("secret backend is required")
	}
	if cfg.CommonVariables == nil {
		return nil, fmt.Errorf("common variables provider is required")
	}
	if cfg.ActionLogger == nil {
		return nil, fmt.Errorf("action logger is required")
	}
	if strings.TrimSpace(cfg.DefaultSecret) == "" {
		return nil, fmt.Errorf("default secret name is required")
	}

	timeout := cfg.AsyncDeleteTimeout
	if timeout <= 0 {
		timeout = DefaultAsyncDeleteTimeout
	}

	return &store{
		backend:            cfg.Backend,
		commonVariables:    cfg.CommonVariables,
		actionLogger:       cfg.ActionLogger,
		defaultSecret:      cfg.DefaultSecret,
		asyncDeleteTimeout: timeout,
		lock:               fairlock.New(),
		cache:              newSecretCache(),
	}, nil
}

// ResolveSecretName maps blank names and "default" to the default secret.
func (s *store) ResolveSecretName(name string) string {
	if strings.TrimSpace(name) == "" || strings.EqualFold(name, DefaultSecretAlias) {
		return s.defaultSecret
	}
	return name
}

// DefaultSecretName returns the configured default secret name.
func (s *store) DefaultSecretName() string {
	return s.defaultSecret
}

func (s *store) isDefault(resolved string) bool {
	return resolved == s.defaultSecret
}

// ListVariableNames returns the sorted variable names of a secret.
func (s *store) ListVariableNames(ctx context.Context, secretName string, failIfMissing bool) ([]string, error) {
	resolved := s.ResolveSecretName(secretName)

	ctx, unlock, err := s.lock.Lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if _, err := s.refresh(ctx, resolved, failIfMissing); err != nil {
		return nil, err
	}
	return s.cache.names(resolved), nil
}

// ListAllVariableNames returns the variable names of every secret.
func (s *store) ListAllVariableNames(ctx context.Context) (map[string][]string, error) {
	ctx, unlock, err := s.lock.Lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.refreshAll(ctx); err != nil {
		return nil, err
	}

	out := make(map[string][]string)
	for _, name := range s.cache.secrets() {
		out[name] = s.cache.names(name)
	}
	return out, nil
}

// AddVariables creates or overwrites variables in a secret.
func (s *store) AddVariables(ctx context.Context, secretName string, entries map[string]string, importMode bool) (*models.SecretVariables, error) {
	resolved := s.ResolveSecretName(secretName)
	if len(entries) == 0 {
		return &models.SecretVariables{Secret: resolved, Variables: []string{}}, nil
	}

	current, err := s.addVariablesLocked(ctx, resolved, entries)
	if err != nil {
		return nil, err
	}

	names := sortedKeys(entries)
	for _, name := range names {
		operation := models.LogOperationCreate
		switch {
		case importMode:
			operation = models.LogOperationImport
		case hasKey(current, name):
			operation = models.LogOperationUpdate
		}
		s.logVariableAction(ctx, name, resolved, operation)
	}

	return &models.SecretVariables{Secret: resolved, Variables: names}, nil
}

// addVariablesLocked validates and writes entries under the lock and returns
// the secret contents as they were before the write.
func (s *store) addVariablesLocked(ctx context.Context, resolved string, entries map[string]string) (map[string]string, error) {
	ctx, unlock, err := s.lock.Lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	current, err := s.refresh(ctx, resolved, true)
	if err != nil {
		return nil, err
	}

	if s.isDefault(resolved) {
		if err := s.validateUniqueness(ctx, current, entries); err != nil {
			return nil, err
		}
	}

	for _, name := range sortedKeys(entries) {
		if err := validateName(name); err != nil {
			return nil, err
		}
	}

	data, err := s.backend.AddEntries(ctx, resolved, entries, len(current) == 0)
	if err != nil {
		return nil, s.backendError(resolved, "failed to add variables to secret", err)
	}
	s.cache.put(resolved, data)

	return current, nil
}

// UpdateVariables overwrites existing variables.
func (s *store) UpdateVariables(ctx context.Context, secretName string, entries map[string]*string) (*models.SecretVariables, error) {
	resolved := s.ResolveSecretName(secretName)
	if len(entries) == 0 {
		return &models.SecretVariables{Secret: resolved, Variables: []string{}}, nil
	}

	if err := s.updateVariablesLocked(ctx, resolved, entries); err != nil {
		return nil, err
	}

	names := sortedKeys(entries)
	for _, name := range names {
		s.logVariableAction(ctx, name, resolved, models.LogOperationUpdate)
	}

	return &models.SecretVariables{Secret: resolved, Variables: names}, nil
}

func (s *store) updateVariablesLocked(ctx context.Context, resolved string, entries map[string]*string) error {
	ctx, unlock, err := s.lock.Lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	current, err := s.refresh(ctx, resolved, true)
	if err != nil {
		return err
	}

	normalized := make(map[string]string, len(entries))
	for name, value := range entries {
		normalized[name] = ""
		if value != nil {
			normalized[name] = *value
		}
	}
	for _, name := range sortedKeys(normalized) {
		if err := validateName(name); err != nil {
			return err
		}
		if !hasKey(current, name) {
			return domainerrors.NewVariableNotFoundError(name)
		}
	}

	data, err := s.backend.UpdateEntries(ctx, resolved, normalized)
	if err != nil {
		return s.backendError(resolved, "failed to update variables in secret", err)
	}
	s.cache.put(resolved, data)
	return nil
}

// UpdateVariable overwrites one variable of the default secret.
func (s *store) UpdateVariable(ctx context.Context, name string, value *string) (string, error) {
	if _, err := s.UpdateVariables(ctx, s.defaultSecret, map[string]*string{name: value}); err != nil {
		return "", err
	}
	return name, nil
}

// DeleteVariables removes variables from a secret.
func (s *store) DeleteVariables(ctx context.Context, secretName string, names []string, logOperation bool) error {
	if len(names) == 0 {
		return nil
	}
	resolved := s.ResolveSecretName(secretName)

	existed, err := s.deleteVariablesLocked(ctx, resolved, names)
	if err != nil {
		return err
	}

	if logOperation {
		for _, name := range existed {
			s.logVariableAction(ctx, name, resolved, models.LogOperationDelete)
		}
	}
	return nil
}

// deleteVariablesLocked removes names under the lock and returns the sorted
// subset of names that existed before the removal.
func (s *store) deleteVariablesLocked(ctx context.Context, resolved string, names []string) ([]string, error) {
	ctx, unlock, err := s.lock.Lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	current, err := s.refresh(ctx, resolved, true)
	if err != nil {
		return nil, err
	}

	existed := existingNames(current, names)
	if len(existed) == 0 {
		return nil, nil
	}

	data, err := s.backend.RemoveEntries(ctx, resolved, existed)
	if err != nil {
		return nil, s.backendError(resolved, "failed to delete variables from secret", err)
	}
	s.cache.put(resolved, data)
	return existed, nil
}

// ImportVariables adds the mapping held in content to the default secret.
func (s *store) ImportVariables(ctx context.Context, content []byte) ([]string, error) {
	var imported map[string]string
	if err := yaml.Unmarshal(content, &imported); err != nil {
		return nil, domainerrors.NewImportFailedError(err)
	}

	result, err := s.AddVariables(ctx, s.defaultSecret, imported, true)
	if err != nil {
		return nil, err
	}
	return result.Variables, nil
}

// CreateSecret creates an empty secret.
func (s *store) CreateSecret(ctx context.Context, secretName string) (bool, error) {
	if strings.TrimSpace(secretName) == "" {
		return false, domainerrors.NewEmptyFieldError("secret name is empty")
	}
	resolved := s.ResolveSecretName(secretName)

	created, err := s.createSecretLocked(ctx, resolved)
	if err != nil {
		return false, err
	}

	if created {
		s.log(ctx, models.NewSecretAction(resolved, models.LogOperationCreate))
	}
	return created, nil
}

func (s *store) createSecretLocked(ctx context.Context, resolved string) (bool, error) {
	ctx, unlock, err := s.lock.Lock(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()

	created, err := s.backend.Create(ctx, resolved)
	if err != nil {
		return false, s.backendError(resolved, "failed to create secret", err)
	}
	if created {
		s.cache.put(resolved, map[string]string{})
	}
	return created, nil
}

// SecretTemplate renders a deployable manifest for a secret.
func (s *store) SecretTemplate(ctx context.Context, secretName string) ([]byte, error) {
	resolved := s.ResolveSecretName(secretName)

	out, err := s.backend.Template(ctx, resolved)
	if err != nil {
		return nil, s.backendError(resolved, "failed to render secret template", err)
	}
	return out, nil
}

// refresh reloads one secret into the cache. A secret the backend does not
// know is dropped from the cache. Caller must hold the lock.
func (s *store) refresh(ctx context.Context, name string, failIfMissing bool) (map[string]string, error) {
	data, err := s.backend.Get(ctx, name, true)
	if errors.Is(err, secrets.ErrSecretNotFound) {
		s.cache.remove(name)
		if failIfMissing {
			return nil, domainerrors.NewSecretNotFoundError(name, err)
		}
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, domainerrors.NewSecuredVariablesError(fmt.Sprintf("failed to read secret %s", name), err)
	}

	s.cache.put(name, data)
	return data, nil
}

// refreshAll replaces the whole cache with a full backend listing.
// Caller must hold the lock.
func (s *store) refreshAll(ctx context.Context) error {
	all, err := s.backend.ListAll(ctx)
	if err != nil {
		return domainerrors.NewSecuredVariablesError("failed to list secrets", err)
	}
	s.cache.replaceAll(all)
	return nil
}

// validateUniqueness rejects common variables that clash with the default
// secret's current or incoming names.
func (s *store) validateUniqueness(ctx context.Context, current, incoming map[string]string) error {
	common, err := s.commonVariables.GetVariables(ctx)
	if err != nil {
		return domainerrors.NewSecuredVariablesError("failed to read common variables", err)
	}

	for _, name := range sortedKeys(common) {
		if hasKey(current, name) || hasKey(incoming, name) {
			return domainerrors.NewEntityExistsError(
				fmt.Sprintf("common variable with name %s already exists", name), name)
		}
	}
	return nil
}

func (s *store) backendError(secret, message string, err error) error {
	if errors.Is(err, secrets.ErrSecretNotFound) {
		return domainerrors.NewSecretNotFoundError(secret, err)
	}
	return domainerrors.NewSecuredVariablesError(fmt.Sprintf("%s %s", message, secret), err)
}

func (s *store) logVariableAction(ctx context.Context, name, secret string, operation models.LogOperation) {
	s.log(ctx, models.NewSecuredVariableAction(name, secret, operation))
}

func (s *store) log(ctx context.Context, action *models.ActionLog) {
	// a full queue is reported by the logger itself
	_ = s.actionLogger.LogAction(ctx, action)
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return domainerrors.NewEmptyFieldError(domainerrors.EmptySecuredVariableNameMessage)
	}
	return nil
}

func hasKey(m map[string]string, key string) bool {
	_, ok := m[key]
	return ok
}

// existingNames returns the sorted, de-duplicated names present in data.
func existingNames(data map[string]string, names []string) []string {
	found := make(map[string]string)
	for _, name := range names {
		if hasKey(data, name) {
			found[name] = ""
		}
	}
	return sortedKeys(found)
}
