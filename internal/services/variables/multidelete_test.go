package variables

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/unifiedui/variables-service/internal/domain/errors"
	"github.com/unifiedui/variables-service/internal/domain/models"
)

func TestDeleteVariablesForMultipleSecrets_AllSucceed(t *testing.T) {
	// Arrange
	f := newFixture(t, nil)
	f.seed(t, "s1", map[string]string{"A": "1", "B": "2"})
	f.seed(t, "s2", map[string]string{"C": "3"})
	ctx := context.Background()

	// Act
	errs, err := f.store.DeleteVariablesForMultipleSecrets(ctx, map[string][]string{
		"s1": {"A", "ghost"},
		"s2": {"C"},
	})

	// Assert
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, []string{"DELETE A@s1", "DELETE C@s2"}, f.logger.entries())

	all, err := f.store.ListAllVariableNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, all["s1"])
	assert.Empty(t, all["s2"])
}

func TestDeleteVariablesForMultipleSecrets_PartialFailure(t *testing.T) {
	// Arrange
	f := newFixture(t, nil)
	f.seed(t, "s1", map[string]string{"X": "1"})

	// Act
	errs, err := f.store.DeleteVariablesForMultipleSecrets(context.Background(), map[string][]string{
		"s1":      {"X"},
		"missing": {"Y"},
	})

	// Assert
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "missing", errs[0].Secret)
	assert.NotEmpty(t, errs[0].Message)
	assert.Equal(t, []string{"DELETE X@s1"}, f.logger.entries())

	stored, err := f.backend.Get(context.Background(), "s1", true)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestDeleteVariablesForMultipleSecrets_TotalFailure(t *testing.T) {
	f := newFixture(t, nil)

	errs, err := f.store.DeleteVariablesForMultipleSecrets(context.Background(), map[string][]string{
		"missing-1": {"A"},
		"missing-2": {"B"},
	})

	assert.Nil(t, errs)
	assert.True(t, domainerrors.IsSecuredVariablesError(err))
	assert.Empty(t, f.logger.entries())
}

func TestDeleteVariablesForMultipleSecrets_ResolvesDefaultAlias(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t, defaultSecret, map[string]string{"A": "1", "B": "2"})

	errs, err := f.store.DeleteVariablesForMultipleSecrets(context.Background(), map[string][]string{
		"default": {"A"},
		"":        {"B", "A"},
	})

	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, []string{
		"DELETE A@" + defaultSecret,
		"DELETE B@" + defaultSecret,
	}, f.logger.entries())
}

func TestDeleteVariablesForMultipleSecrets_IssueFailure(t *testing.T) {
	// Arrange
	f := newFixture(t, nil)
	f.seed(t, "s1", map[string]string{"A": "1"})
	f.seed(t, "s2", map[string]string{"B": "2"})
	f.backend.FailAsyncIssue("s2", errors.New("connection refused"))

	// Act
	errs, err := f.store.DeleteVariablesForMultipleSecrets(context.Background(), map[string][]string{
		"s1": {"A"},
		"s2": {"B"},
	})

	// Assert
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "s2", errs[0].Secret)
	assert.Contains(t, errs[0].Message, "connection refused")
	assert.Equal(t, []string{"DELETE A@s1"}, f.logger.entries())

	stored, err := f.backend.Get(context.Background(), "s2", true)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"B": "2"}, stored)
}

func TestDeleteVariablesForMultipleSecrets_CallbackFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t, "s1", map[string]string{"A": "1"})
	f.seed(t, "s2", map[string]string{"B": "2"})
	f.backend.FailMutations("s1", errors.New("conflict"))

	errs, err := f.store.DeleteVariablesForMultipleSecrets(context.Background(), map[string][]string{
		"s1": {"A"},
		"s2": {"B"},
	})

	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "s1", errs[0].Secret)
	assert.Contains(t, errs[0].Message, "conflict")
	assert.Equal(t, []string{"DELETE B@s2"}, f.logger.entries())
}

func TestDeleteVariablesForMultipleSecrets_Timeout(t *testing.T) {
	// Arrange
	f := newFixture(t, nil)
	f.store.asyncDeleteTimeout = 30 * time.Millisecond
	f.seed(t, "s1", map[string]string{"A": "1"})
	f.backend.SetAsyncDelay(time.Hour)
	ctx := context.Background()

	// Act
	start := time.Now()
	errs, err := f.store.DeleteVariablesForMultipleSecrets(ctx, map[string][]string{"s1": {"A"}})

	// Assert
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Nil(t, errs)
	assert.True(t, domainerrors.IsSecuredVariablesError(err))
	assert.Empty(t, f.logger.entries())
	assert.False(t, f.store.cache.contains("s1"))

	// the cancelled call never reaches the backend
	f.backend.SetAsyncDelay(0)
	stored, err := f.backend.Get(ctx, "s1", true)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "1"}, stored)
}

func TestDeleteVariablesForMultipleSecrets_TimeoutAlongsideFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.store.asyncDeleteTimeout = 30 * time.Millisecond
	f.seed(t, "s1", map[string]string{"A": "1"})
	f.backend.SetAsyncDelay(time.Hour)

	errs, err := f.store.DeleteVariablesForMultipleSecrets(context.Background(), map[string][]string{
		"s1":      {"A"},
		"missing": {"B"},
	})

	assert.Nil(t, errs)
	assert.True(t, domainerrors.IsSecuredVariablesError(err))
}

func TestDeleteVariablesForMultipleSecrets_ReleasesLock(t *testing.T) {
	f := newFixture(t, nil)
	f.store.asyncDeleteTimeout = 30 * time.Millisecond
	f.seed(t, "s1", map[string]string{"A": "1"})
	f.backend.SetAsyncDelay(time.Hour)

	_, _ = f.store.DeleteVariablesForMultipleSecrets(context.Background(), map[string][]string{"s1": {"A"}})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	names, err := f.store.ListVariableNames(ctx, "s1", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, names)
}

func TestDeleteVariablesForMultipleSecrets_Empty(t *testing.T) {
	f := newFixture(t, nil)

	errs, err := f.store.DeleteVariablesForMultipleSecrets(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestDeleteVariablesForMultipleSecrets_HoldsLockWhileInFlight(t *testing.T) {
	// Arrange
	f := newFixture(t, nil)
	f.seed(t, "s1", map[string]string{"A": "1", "B": "2"})
	f.backend.SetAsyncDelay(200 * time.Millisecond)

	type result struct {
		errs []models.SecretError
		err  error
	}
	done := make(chan result, 1)

	// Act
	go func() {
		errs, err := f.store.DeleteVariablesForMultipleSecrets(context.Background(), map[string][]string{"s1": {"A"}})
		done <- result{errs: errs, err: err}
	}()

	require.Eventually(t, func() bool {
		attempt, cancel := context.WithTimeout(context.Background(), time.Millisecond)
		defer cancel()
		_, unlock, err := f.store.lock.Lock(attempt)
		if err != nil {
			return true
		}
		unlock()
		return false
	}, time.Second, 5*time.Millisecond)

	readCtx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	names, readErr := f.store.ListVariableNames(readCtx, "s1", true)

	// Assert
	assert.Nil(t, names)
	assert.ErrorIs(t, readErr, context.DeadlineExceeded)

	var res result
	select {
	case res = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("multi-secret delete did not finish")
	}
	require.NoError(t, res.err)
	assert.Empty(t, res.errs)
	assert.Equal(t, []string{"DELETE A@s1"}, f.logger.entries())

	names, err := f.store.ListVariableNames(context.Background(), "s1", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, names)
}
