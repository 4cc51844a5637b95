package variables

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/unifiedui/variables-service/internal/core/secrets"
	domainerrors "github.com/unifiedui/variables-service/internal/domain/errors"
	"github.com/unifiedui/variables-service/internal/domain/models"
)

// deleteOutcome is one asynchronous removal result, marshalled from the
// backend goroutine back to the lock holder.
type deleteOutcome struct {
	secret string
	data   map[string]string
	err    error
}

// multiDelete tracks one DeleteVariablesForMultipleSecrets call.
type multiDelete struct {
	// requested holds the de-duplicated names per resolved secret.
	requested map[string][]string
	// existed is the snapshot of requested names present before deletion.
	existed  map[string][]string
	failures map[string]error
}

// DeleteVariablesForMultipleSecrets removes variables from many secrets under
// a single lock acquisition.
func (s *store) DeleteVariablesForMultipleSecrets(ctx context.Context, variablesPerSecret map[string][]string) ([]models.SecretError, error) {
	if len(variablesPerSecret) == 0 {
		return []models.SecretError{}, nil
	}

	op := &multiDelete{
		requested: make(map[string][]string),
		existed:   make(map[string][]string),
		failures:  make(map[string]error),
	}
	for secret, names := range variablesPerSecret {
		resolved := s.ResolveSecretName(secret)
		op.requested[resolved] = append(op.requested[resolved], names...)
	}
	for secret, names := range op.requested {
		op.requested[secret] = sortedKeys(namesSet(names))
	}

	if err := s.runMultiDelete(ctx, op); err != nil {
		return nil, err
	}

	if len(op.failures) == len(op.requested) {
		for _, secret := range sortedKeys(op.failures) {
			log.Error().Err(op.failures[secret]).Str("secret", secret).Msg("failed to delete variables from secret")
		}
		return nil, domainerrors.NewSecuredVariablesError("failed to delete variables from multiple secrets", nil)
	}

	for _, secret := range sortedKeys(op.requested) {
		if _, failed := op.failures[secret]; failed {
			continue
		}
		for _, name := range op.existed[secret] {
			s.logVariableAction(ctx, name, secret, models.LogOperationDelete)
		}
	}

	errs := make([]models.SecretError, 0, len(op.failures))
	for _, secret := range sortedKeys(op.failures) {
		err := op.failures[secret]
		log.Error().Err(err).Str("secret", secret).Msg("failed to delete variables from secret")
		errs = append(errs, models.SecretError{Secret: secret, Message: err.Error()})
	}
	return errs, nil
}

// runMultiDelete performs the locked part: full refresh, one asynchronous
// removal per present secret, then a bounded wait for every result.
func (s *store) runMultiDelete(ctx context.Context, op *multiDelete) error {
	ctx, unlock, err := s.lock.Lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.refreshAll(ctx); err != nil {
		return err
	}

	results := make(chan deleteOutcome, len(op.requested))
	pending := make(map[string]*secrets.Call, len(op.requested))

	for _, secret := range sortedKeys(op.requested) {
		current, ok := s.cache.get(secret)
		if !ok {
			op.failures[secret] = domainerrors.NewSecretNotFoundError(secret, nil)
			continue
		}
		op.existed[secret] = existingNames(current, op.requested[secret])

		secret := secret
		call, err := s.backend.RemoveEntriesAsync(ctx, secret, op.requested[secret], func(data map[string]string, err error) {
			results <- deleteOutcome{secret: secret, data: data, err: err}
		})
		if err != nil {
			op.failures[secret] = domainerrors.NewSecuredVariablesError(
				fmt.Sprintf("failed to delete variables from secret %s", secret), err)
			continue
		}
		pending[secret] = call
	}

	timer := time.NewTimer(s.asyncDeleteTimeout)
	defer timer.Stop()

	for len(pending) > 0 {
		select {
		case r := <-results:
			if _, ok := pending[r.secret]; !ok {
				continue
			}
			delete(pending, r.secret)
			if r.err != nil {
				op.failures[r.secret] = s.backendError(r.secret, "failed to delete variables from secret", r.err)
				continue
			}
			s.cache.put(r.secret, r.data)
		case <-timer.C:
			s.abandon(pending, op, domainerrors.NewTimeoutError(
				fmt.Sprintf("deleting variables after %s", s.asyncDeleteTimeout)))
		case <-ctx.Done():
			s.abandon(pending, op, domainerrors.NewSecuredVariablesError("variable deletion interrupted", ctx.Err()))
		}
	}
	return nil
}

// abandon cancels every pending call and fails its secret. The outcome of a
// cancelled call is unknown, so its cache entry is dropped.
func (s *store) abandon(pending map[string]*secrets.Call, op *multiDelete, err error) {
	for secret, call := range pending {
		call.Cancel()
		s.cache.remove(secret)
		op.failures[secret] = err
		delete(pending, secret)
	}
}

func namesSet(names []string) map[string]string {
	out := make(map[string]string, len(names))
	for _, name := range names {
		out[name] = ""
	}
	return out
}
