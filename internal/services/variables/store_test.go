package variables

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/unifiedui/variables-service/internal/domain/errors"
	"github.com/unifiedui/variables-service/internal/domain/models"
	"github.com/unifiedui/variables-service/internal/infrastructure/secrets/memory"
	"github.com/unifiedui/variables-service/internal/testutil/mocks"
)

const defaultSecret = "secured-variables"

// recordingLogger keeps every submitted entry.
type recordingLogger struct {
	mu      sync.Mutex
	actions []models.ActionLog
}

func (r *recordingLogger) LogAction(_ context.Context, action *models.ActionLog) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, *action)
	return true
}

// entries renders the log as "OPERATION name@parent" lines.
func (r *recordingLogger) entries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.actions))
	for _, a := range r.actions {
		out = append(out, fmt.Sprintf("%s %s@%s", a.Operation, a.EntityName, a.ParentName))
	}
	return out
}

type fixture struct {
	store   *store
	backend *memory.Backend
	logger  *recordingLogger
	common  *mocks.MockCommonVariables
}

func newFixture(t *testing.T, common map[string]string) *fixture {
	t.Helper()

	backend := memory.NewBackend()
	_, err := backend.Create(context.Background(), defaultSecret)
	require.NoError(t, err)

	commonMock := &mocks.MockCommonVariables{}
	commonMock.On("GetVariables", mock.Anything).Return(common, nil).Maybe()

	logger := &recordingLogger{}
	svc, err := NewService(&Config{
		Backend:            backend,
		CommonVariables:    commonMock,
		ActionLogger:       logger,
		DefaultSecret:      defaultSecret,
		AsyncDeleteTimeout: time.Second,
	})
	require.NoError(t, err)

	return &fixture{store: svc.(*store), backend: backend, logger: logger, common: commonMock}
}

func (f *fixture) seed(t *testing.T, secret string, data map[string]string) {
	t.Helper()
	_, err := f.backend.AddEntries(context.Background(), secret, data, true)
	require.NoError(t, err)
}

func strPtr(s string) *string {
	return &s
}

func TestNewService_Validation(t *testing.T) {
	backend := memory.NewBackend()
	common := &mocks.MockCommonVariables{}
	logger := &recordingLogger{}

	tests := []struct {
		name string
		cfg  *Config
	}{
		{"nil config", nil},
		{"missing backend", &Config{CommonVariables: common, ActionLogger: logger, DefaultSecret: "d"}},
		{"missing common variables", &Config{Backend: backend, ActionLogger: logger, DefaultSecret: "d"}},
		{"missing logger", &Config{Backend: backend, CommonVariables: common, DefaultSecret: "d"}},
		{"blank default secret", &Config{Backend: backend, CommonVariables: common, ActionLogger: logger, DefaultSecret: " "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewService(tt.cfg)

			assert.Error(t, err)
			assert.Nil(t, svc)
		})
	}
}

func TestResolveSecretName(t *testing.T) {
	f := newFixture(t, nil)

	for _, name := range []string{"", "   ", "default", "DEFAULT", "Default"} {
		assert.Equal(t, defaultSecret, f.store.ResolveSecretName(name), "input %q", name)
	}
	for _, name := range []string{"other", "defaults", "my-default"} {
		assert.Equal(t, name, f.store.ResolveSecretName(name), "input %q", name)
	}
	assert.Equal(t, defaultSecret, f.store.DefaultSecretName())
}

func TestAddVariables_EmptyEntriesIsNoOp(t *testing.T) {
	// Arrange
	backend := &mocks.MockSecretBackend{}
	logger := &recordingLogger{}
	svc, err := NewService(&Config{
		Backend:         backend,
		CommonVariables: &mocks.MockCommonVariables{},
		ActionLogger:    logger,
		DefaultSecret:   defaultSecret,
	})
	require.NoError(t, err)

	// Act
	result, err := svc.AddVariables(context.Background(), "s1", map[string]string{}, false)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, &models.SecretVariables{Secret: "s1", Variables: []string{}}, result)
	backend.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	backend.AssertNotCalled(t, "AddEntries", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, logger.entries())
}

func TestAddVariables_BlankNameRejected(t *testing.T) {
	// Arrange
	f := newFixture(t, nil)
	f.seed(t, "s1", map[string]string{"A": "1"})
	ctx := context.Background()
	_, err := f.store.ListVariableNames(ctx, "s1", true)
	require.NoError(t, err)
	before, _ := f.store.cache.get("s1")

	// Act
	_, err = f.store.AddVariables(ctx, "s1", map[string]string{"B": "2", "  ": "x"}, false)

	// Assert
	assert.True(t, domainerrors.IsEmptyField(err))
	after, _ := f.store.cache.get("s1")
	assert.Equal(t, before, after)
	stored, err := f.backend.Get(ctx, "s1", true)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "1"}, stored)
	assert.Empty(t, f.logger.entries())
}

func TestAddVariables_CommonVariableCollision(t *testing.T) {
	// Arrange
	f := newFixture(t, map[string]string{"REGION": "eu"})
	ctx := context.Background()

	// Act
	_, err := f.store.AddVariables(ctx, "default", map[string]string{"REGION": "us"}, false)

	// Assert
	assert.True(t, domainerrors.IsEntityExists(err))
	names, err := f.store.ListVariableNames(ctx, defaultSecret, true)
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.Empty(t, f.logger.entries())
}

func TestAddVariables_CommonVariableCollisionWithExistingName(t *testing.T) {
	f := newFixture(t, map[string]string{"REGION": "eu"})
	f.seed(t, defaultSecret, map[string]string{"REGION": "legacy"})

	_, err := f.store.AddVariables(context.Background(), "", map[string]string{"OTHER": "1"}, false)

	assert.True(t, domainerrors.IsEntityExists(err))
}

func TestAddVariables_CommonVariablesOnlyGuardDefaultSecret(t *testing.T) {
	f := newFixture(t, map[string]string{"REGION": "eu"})
	f.seed(t, "s1", map[string]string{"X": "1"})

	_, err := f.store.AddVariables(context.Background(), "s1", map[string]string{"REGION": "us"}, false)

	require.NoError(t, err)
	f.common.AssertNotCalled(t, "GetVariables", mock.Anything)
}

func TestAddVariables_CommonVariablesFailure(t *testing.T) {
	backend := memory.NewBackend()
	_, err := backend.Create(context.Background(), defaultSecret)
	require.NoError(t, err)
	common := &mocks.MockCommonVariables{}
	common.On("GetVariables", mock.Anything).Return(nil, errors.New("redis down"))
	svc, err := NewService(&Config{
		Backend:         backend,
		CommonVariables: common,
		ActionLogger:    &recordingLogger{},
		DefaultSecret:   defaultSecret,
	})
	require.NoError(t, err)

	_, err = svc.AddVariables(context.Background(), "", map[string]string{"A": "1"}, false)

	assert.True(t, domainerrors.IsSecuredVariablesError(err))
}

func TestAddVariables_CreateThenUpdate(t *testing.T) {
	// Arrange
	f := newFixture(t, nil)
	ctx := context.Background()

	// Act
	_, err := f.store.AddVariables(ctx, defaultSecret, map[string]string{"A": "1"}, false)
	require.NoError(t, err)
	result, err := f.store.AddVariables(ctx, defaultSecret, map[string]string{"A": "2"}, false)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, []string{"A"}, result.Variables)
	assert.Equal(t, []string{
		"CREATE A@" + defaultSecret,
		"UPDATE A@" + defaultSecret,
	}, f.logger.entries())

	names, err := f.store.ListVariableNames(ctx, defaultSecret, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, names)

	stored, err := f.backend.Get(ctx, defaultSecret, true)
	require.NoError(t, err)
	assert.Equal(t, "2", stored["A"])
}

func TestAddVariables_ImportModeTakesPrecedence(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t, defaultSecret, map[string]string{"A": "1"})

	_, err := f.store.AddVariables(context.Background(), defaultSecret, map[string]string{"A": "2", "B": "3"}, true)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"IMPORT A@" + defaultSecret,
		"IMPORT B@" + defaultSecret,
	}, f.logger.entries())
}

func TestAddVariables_MissingSecret(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.store.AddVariables(context.Background(), "missing", map[string]string{"A": "1"}, false)

	assert.True(t, domainerrors.IsNotFound(err))
	assert.Empty(t, f.logger.entries())
}

func TestAddVariables_TellsBackendWhetherSecretIsEmpty(t *testing.T) {
	// Arrange
	backend := &mocks.MockSecretBackend{}
	backend.On("Get", mock.Anything, "s1", true).Return(map[string]string{}, nil).Once()
	backend.On("AddEntries", mock.Anything, "s1", map[string]string{"A": "1"}, true).
		Return(map[string]string{"A": "1"}, nil).Once()
	backend.On("Get", mock.Anything, "s1", true).Return(map[string]string{"A": "1"}, nil).Once()
	backend.On("AddEntries", mock.Anything, "s1", map[string]string{"B": "2"}, false).
		Return(map[string]string{"A": "1", "B": "2"}, nil).Once()
	svc, err := NewService(&Config{
		Backend:         backend,
		CommonVariables: &mocks.MockCommonVariables{},
		ActionLogger:    &recordingLogger{},
		DefaultSecret:   defaultSecret,
	})
	require.NoError(t, err)
	ctx := context.Background()

	// Act
	_, err = svc.AddVariables(ctx, "s1", map[string]string{"A": "1"}, false)
	require.NoError(t, err)
	_, err = svc.AddVariables(ctx, "s1", map[string]string{"B": "2"}, false)
	require.NoError(t, err)

	// Assert
	backend.AssertExpectations(t)
}

func TestAddVariables_BackendFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t, "s1", map[string]string{"A": "1"})
	f.backend.FailMutations("s1", errors.New("apiserver down"))

	_, err := f.store.AddVariables(context.Background(), "s1", map[string]string{"B": "2"}, false)

	assert.True(t, domainerrors.IsSecuredVariablesError(err))
	assert.Empty(t, f.logger.entries())
}

func TestUpdateVariables(t *testing.T) {
	// Arrange
	f := newFixture(t, nil)
	f.seed(t, "s1", map[string]string{"A": "1", "B": "2"})
	ctx := context.Background()

	// Act
	result, err := f.store.UpdateVariables(ctx, "s1", map[string]*string{"A": strPtr("10"), "B": nil})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, result.Variables)
	stored, err := f.backend.Get(ctx, "s1", true)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "10", "B": ""}, stored)
	assert.Equal(t, []string{"UPDATE A@s1", "UPDATE B@s1"}, f.logger.entries())
}

func TestUpdateVariables_UnknownVariable(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t, "s1", map[string]string{"A": "1"})
	ctx := context.Background()

	_, err := f.store.UpdateVariables(ctx, "s1", map[string]*string{"A": strPtr("2"), "Z": strPtr("3")})

	assert.True(t, domainerrors.IsNotFound(err))
	domainErr, ok := domainerrors.GetDomainError(err)
	require.True(t, ok)
	assert.Equal(t, "Z", domainErr.Details)
	stored, err := f.backend.Get(ctx, "s1", true)
	require.NoError(t, err)
	assert.Equal(t, "1", stored["A"])
	assert.Empty(t, f.logger.entries())
}

func TestUpdateVariables_BlankName(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t, "s1", map[string]string{"A": "1"})

	_, err := f.store.UpdateVariables(context.Background(), "s1", map[string]*string{"": strPtr("2")})

	assert.True(t, domainerrors.IsEmptyField(err))
}

func TestUpdateVariable_DefaultSecret(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t, defaultSecret, map[string]string{"A": "1"})

	name, err := f.store.UpdateVariable(context.Background(), "A", strPtr("9"))

	require.NoError(t, err)
	assert.Equal(t, "A", name)
	assert.Equal(t, []string{"UPDATE A@" + defaultSecret}, f.logger.entries())
}

func TestDeleteVariables_NonexistentNameIsSilent(t *testing.T) {
	// Arrange
	f := newFixture(t, nil)
	f.seed(t, "s1", map[string]string{"A": "1"})
	ctx := context.Background()
	_, err := f.store.ListVariableNames(ctx, "s1", true)
	require.NoError(t, err)
	before, _ := f.store.cache.get("s1")

	// Act
	err = f.store.DeleteVariables(ctx, "s1", []string{"B"}, true)

	// Assert
	require.NoError(t, err)
	after, _ := f.store.cache.get("s1")
	assert.Equal(t, before, after)
	assert.Empty(t, f.logger.entries())
}

func TestDeleteVariables_LogsOnlyExisting(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t, "s1", map[string]string{"A": "1", "B": "2"})
	ctx := context.Background()

	err := f.store.DeleteVariables(ctx, "s1", []string{"A", "missing", "A"}, true)

	require.NoError(t, err)
	assert.Equal(t, []string{"DELETE A@s1"}, f.logger.entries())
	names, err := f.store.ListVariableNames(ctx, "s1", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, names)
}

func TestDeleteVariables_WithoutLogging(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t, "s1", map[string]string{"A": "1"})

	err := f.store.DeleteVariables(context.Background(), "s1", []string{"A"}, false)

	require.NoError(t, err)
	assert.Empty(t, f.logger.entries())
}

func TestDeleteVariables_EmptyNamesIsNoOp(t *testing.T) {
	backend := &mocks.MockSecretBackend{}
	svc, err := NewService(&Config{
		Backend:         backend,
		CommonVariables: &mocks.MockCommonVariables{},
		ActionLogger:    &recordingLogger{},
		DefaultSecret:   defaultSecret,
	})
	require.NoError(t, err)

	assert.NoError(t, svc.DeleteVariables(context.Background(), "s1", nil, true))
	backend.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddThenDelete_RoundTrip(t *testing.T) {
	// Arrange
	f := newFixture(t, nil)
	f.seed(t, "s1", map[string]string{"KEEP": "1"})
	ctx := context.Background()
	before, err := f.store.ListVariableNames(ctx, "s1", true)
	require.NoError(t, err)

	// Act
	_, err = f.store.AddVariables(ctx, "s1", map[string]string{"X": "1", "Y": "2"}, false)
	require.NoError(t, err)
	require.NoError(t, f.store.DeleteVariables(ctx, "s1", []string{"X", "Y"}, true))

	// Assert
	after, err := f.store.ListVariableNames(ctx, "s1", true)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestListVariableNames_MissingSecret(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t, "s1", map[string]string{"A": "1"})
	ctx := context.Background()
	_, err := f.store.ListVariableNames(ctx, "s1", true)
	require.NoError(t, err)
	require.True(t, f.store.cache.contains("s1"))

	// the secret disappears from the backend behind the store's back
	f.store.backend = memory.NewBackend()

	_, err = f.store.ListVariableNames(ctx, "s1", true)
	assert.True(t, domainerrors.IsNotFound(err))
	assert.False(t, f.store.cache.contains("s1"))

	names, err := f.store.ListVariableNames(ctx, "s1", false)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestListAllVariableNames(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t, "s1", map[string]string{"B": "1", "A": "2"})
	f.seed(t, "s2", map[string]string{"C": "3"})

	all, err := f.store.ListAllVariableNames(context.Background())

	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		defaultSecret: {},
		"s1":          {"A", "B"},
		"s2":          {"C"},
	}, all)
}

func TestImportVariables(t *testing.T) {
	f := newFixture(t, nil)
	content := []byte("DB_HOST: localhost\nDB_PORT: 5432\n")

	names, err := f.store.ImportVariables(context.Background(), content)

	require.NoError(t, err)
	assert.Equal(t, []string{"DB_HOST", "DB_PORT"}, names)
	stored, err := f.backend.Get(context.Background(), defaultSecret, true)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"DB_HOST": "localhost", "DB_PORT": "5432"}, stored)
	assert.Equal(t, []string{
		"IMPORT DB_HOST@" + defaultSecret,
		"IMPORT DB_PORT@" + defaultSecret,
	}, f.logger.entries())
}

func TestImportVariables_JSON(t *testing.T) {
	f := newFixture(t, nil)

	names, err := f.store.ImportVariables(context.Background(), []byte(`{"TOKEN": "abc"}`))

	require.NoError(t, err)
	assert.Equal(t, []string{"TOKEN"}, names)
}

func TestImportVariables_Malformed(t *testing.T) {
	f := newFixture(t, nil)

	tests := map[string]string{
		"not yaml":     "::: [",
		"nested value": "A:\n  nested: true\n",
		"list":         "- a\n- b\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := f.store.ImportVariables(context.Background(), []byte(content))

			assert.True(t, domainerrors.IsImportFailed(err))
		})
	}

	stored, err := f.backend.Get(context.Background(), defaultSecret, true)
	require.NoError(t, err)
	assert.Empty(t, stored)
	assert.Empty(t, f.logger.entries())
}

func TestCreateSecret(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	created, err := f.store.CreateSecret(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.store.CreateSecret(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, created)

	require.Len(t, f.logger.actions, 1)
	action := f.logger.actions[0]
	assert.Equal(t, models.LogOperationCreate, action.Operation)
	assert.Equal(t, models.EntityTypeSecret, action.EntityType)
	assert.Equal(t, "s1", action.EntityName)

	_, err = f.store.CreateSecret(ctx, " ")
	assert.True(t, domainerrors.IsEmptyField(err))
}

func TestSecretTemplate(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t, "s1", map[string]string{"api.key": "secret-value"})
	ctx := context.Background()

	out, err := f.store.SecretTemplate(ctx, "s1")
	require.NoError(t, err)
	assert.Contains(t, string(out), "{{ .Values.<API_KEY> }}")
	assert.NotContains(t, string(out), "secret-value")

	_, err = f.store.SecretTemplate(ctx, "missing")
	assert.True(t, domainerrors.IsNotFound(err))
}

func TestConcurrentAdds_AreSerialized(t *testing.T) {
	// Arrange
	f := newFixture(t, nil)
	const writers = 20
	var wg sync.WaitGroup

	// Act
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.store.AddVariables(context.Background(), defaultSecret,
				map[string]string{fmt.Sprintf("VAR_%02d", i): "v"}, false)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	// Assert
	names, err := f.store.ListVariableNames(context.Background(), defaultSecret, true)
	require.NoError(t, err)
	assert.Len(t, names, writers)
	for _, entry := range f.logger.entries() {
		assert.Contains(t, entry, "CREATE ")
	}
	assert.Len(t, f.logger.entries(), writers)
}

func TestOperations_WaitForLockHolder(t *testing.T) {
	f := newFixture(t, nil)
	_, release, err := f.store.lock.Lock(context.Background())
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = f.store.ListVariableNames(ctx, defaultSecret, true)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
