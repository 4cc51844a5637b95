package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/unifiedui/variables-service/internal/api/dto"
	"github.com/unifiedui/variables-service/internal/api/handlers"
	domainerrors "github.com/unifiedui/variables-service/internal/domain/errors"
	"github.com/unifiedui/variables-service/internal/domain/models"
	"github.com/unifiedui/variables-service/internal/services/variables"
	"github.com/unifiedui/variables-service/internal/testutil"
	"github.com/unifiedui/variables-service/internal/testutil/mocks"
)

var _ variables.Service = (*mocks.MockVariablesService)(nil)

func newVariablesRouter(svc *mocks.MockVariablesService) *gin.Engine {
	h := handlers.NewVariablesHandler(svc)

	router := testutil.SetupTestRouter()
	router.GET("/secrets", h.ListSecrets)
	router.POST("/secrets/:secret", h.CreateSecret)
	router.GET("/secrets/:secret/template", h.GetSecretTemplate)
	router.GET("/secrets/:secret/variables", h.ListVariables)
	router.POST("/secrets/:secret/variables", h.AddVariables)
	router.PATCH("/secrets/:secret/variables", h.UpdateVariables)
	router.DELETE("/secrets/:secret/variables", h.DeleteVariables)
	router.DELETE("/secured-variables", h.DeleteVariablesForMultipleSecrets)
	router.POST("/secured-variables/import", h.ImportVariables)
	router.PUT("/secured-variables/:name", h.UpdateVariable)
	return router
}

func strPtr(s string) *string { return &s }

func TestVariablesHandler_ListSecrets(t *testing.T) {
	svc := &mocks.MockVariablesService{}
	svc.On("ListAllVariableNames", mock.Anything).Return(map[string][]string{
		"secured-variables": {"API_KEY", "DB_PASSWORD"},
		"team-a":            {},
	}, nil)

	w := testutil.PerformRequest(newVariablesRouter(svc), http.MethodGet, "/secrets", nil, nil)

	testutil.AssertStatusCode(t, http.StatusOK, w)

	var response dto.ListSecretsResponse
	testutil.ParseJSONResponse(t, w, &response)
	assert.Equal(t, []string{"API_KEY", "DB_PASSWORD"}, response["secured-variables"])
	assert.Empty(t, response["team-a"])
	svc.AssertExpectations(t)
}

func TestVariablesHandler_CreateSecret(t *testing.T) {
	tests := []struct {
		name       string
		created    bool
		wantStatus int
	}{
		{name: "new secret", created: true, wantStatus: http.StatusCreated},
		{name: "existing secret", created: false, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mocks.MockVariablesService{}
			svc.On("CreateSecret", mock.Anything, "default").Return(tt.created, nil)
			svc.On("ResolveSecretName", "default").Return("secured-variables")

			w := testutil.PerformRequest(newVariablesRouter(svc), http.MethodPost, "/secrets/default", nil, nil)

			testutil.AssertStatusCode(t, tt.wantStatus, w)

			var response dto.CreateSecretResponse
			testutil.ParseJSONResponse(t, w, &response)
			assert.Equal(t, "secured-variables", response.SecretName)
			assert.Equal(t, tt.created, response.Created)
		})
	}
}

func TestVariablesHandler_GetSecretTemplate(t *testing.T) {
	manifest := []byte("apiVersion: v1\nkind: Secret\n")
	svc := &mocks.MockVariablesService{}
	svc.On("SecretTemplate", mock.Anything, "team-a").Return(manifest, nil)

	w := testutil.PerformRequest(newVariablesRouter(svc), http.MethodGet, "/secrets/team-a/template", nil, nil)

	testutil.AssertStatusCode(t, http.StatusOK, w)
	assert.Equal(t, "application/yaml", w.Header().Get("Content-Type"))
	assert.Equal(t, manifest, w.Body.Bytes())
}

func TestVariablesHandler_ListVariables(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := &mocks.MockVariablesService{}
		svc.On("ResolveSecretName", "default").Return("secured-variables")
		svc.On("ListVariableNames", mock.Anything, "secured-variables", true).Return([]string{"A", "B"}, nil)

		w := testutil.PerformRequest(newVariablesRouter(svc), http.MethodGet, "/secrets/default/variables", nil, nil)

		testutil.AssertStatusCode(t, http.StatusOK, w)

		var response dto.SecretVariablesResponse
		testutil.ParseJSONResponse(t, w, &response)
		assert.Equal(t, dto.SecretVariablesResponse{SecretName: "secured-variables", Variables: []string{"A", "B"}}, response)
	})

	t.Run("missing secret", func(t *testing.T) {
		svc := &mocks.MockVariablesService{}
		svc.On("ResolveSecretName", "nope").Return("nope")
		svc.On("ListVariableNames", mock.Anything, "nope", true).
			Return(nil, domainerrors.NewSecretNotFoundError("nope", nil))

		w := testutil.PerformRequest(newVariablesRouter(svc), http.MethodGet, "/secrets/nope/variables", nil, nil)

		testutil.AssertStatusCode(t, http.StatusNotFound, w)

		var response dto.ErrorResponse
		testutil.ParseJSONResponse(t, w, &response)
		assert.Equal(t, domainerrors.ErrCodeNotFound, response.Code)
	})
}

func TestVariablesHandler_AddVariables(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		entries := map[string]string{"API_KEY": "s3cr3t"}
		svc := &mocks.MockVariablesService{}
		svc.On("AddVariables", mock.Anything, "team-a", entries, false).
			Return(&models.SecretVariables{Secret: "team-a", Variables: []string{"API_KEY"}}, nil)

		w := testutil.PerformRequest(newVariablesRouter(svc), http.MethodPost, "/secrets/team-a/variables", entries, nil)

		testutil.AssertStatusCode(t, http.StatusOK, w)

		var response dto.SecretVariablesResponse
		testutil.ParseJSONResponse(t, w, &response)
		assert.Equal(t, []string{"API_KEY"}, response.Variables)
		svc.AssertExpectations(t)
	})

	t.Run("collision with common variable", func(t *testing.T) {
		entries := map[string]string{"LOG_LEVEL": "debug"}
		svc := &mocks.MockVariablesService{}
		svc.On("AddVariables", mock.Anything, "default", entries, false).
			Return(nil, domainerrors.NewEntityExistsError("variable already exists", "LOG_LEVEL"))

		w := testutil.PerformRequest(newVariablesRouter(svc), http.MethodPost, "/secrets/default/variables", entries, nil)

		testutil.AssertStatusCode(t, http.StatusConflict, w)

		var response dto.ErrorResponse
		testutil.ParseJSONResponse(t, w, &response)
		assert.Equal(t, domainerrors.ErrCodeEntityExists, response.Code)
		assert.Equal(t, "LOG_LEVEL", response.Details)
	})

	t.Run("invalid body", func(t *testing.T) {
		svc := &mocks.MockVariablesService{}

		w := testutil.PerformRawRequest(newVariablesRouter(svc), http.MethodPost, "/secrets/team-a/variables", "application/json", []byte(`{"A": 1}`))

		testutil.AssertStatusCode(t, http.StatusBadRequest, w)
		svc.AssertNotCalled(t, "AddVariables", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestVariablesHandler_UpdateVariables(t *testing.T) {
	svc := &mocks.MockVariablesService{}
	svc.On("UpdateVariables", mock.Anything, "team-a", map[string]*string{"A": strPtr("1"), "B": nil}).
		Return(&models.SecretVariables{Secret: "team-a", Variables: []string{"A", "B"}}, nil)

	w := testutil.PerformRawRequest(newVariablesRouter(svc), http.MethodPatch, "/secrets/team-a/variables", "application/json", []byte(`{"A": "1", "B": null}`))

	testutil.AssertStatusCode(t, http.StatusOK, w)
	svc.AssertExpectations(t)
}

func TestVariablesHandler_DeleteVariables(t *testing.T) {
	t.Run("repeated and comma separated names", func(t *testing.T) {
		svc := &mocks.MockVariablesService{}
		svc.On("DeleteVariables", mock.Anything, "team-a", []string{"A", "B", "C"}, true).Return(nil)

		w := testutil.PerformRequest(newVariablesRouter(svc), http.MethodDelete, "/secrets/team-a/variables?names=A,B&names=C", nil, nil)

		testutil.AssertStatusCode(t, http.StatusNoContent, w)
		svc.AssertExpectations(t)
	})

	t.Run("no names", func(t *testing.T) {
		svc := &mocks.MockVariablesService{}

		w := testutil.PerformRequest(newVariablesRouter(svc), http.MethodDelete, "/secrets/team-a/variables?names=,", nil, nil)

		testutil.AssertStatusCode(t, http.StatusBadRequest, w)

		var response dto.ErrorResponse
		testutil.ParseJSONResponse(t, w, &response)
		assert.Equal(t, domainerrors.ErrCodeValidation, response.Code)
		svc.AssertNotCalled(t, "DeleteVariables", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestVariablesHandler_UpdateVariable(t *testing.T) {
	t.Run("value", func(t *testing.T) {
		svc := &mocks.MockVariablesService{}
		svc.On("UpdateVariable", mock.Anything, "API_KEY", strPtr("rotated")).Return("API_KEY", nil)

		w := testutil.PerformRequest(newVariablesRouter(svc), http.MethodPut, "/secured-variables/API_KEY", dto.UpdateVariableRequest{Value: strPtr("rotated")}, nil)

		testutil.AssertStatusCode(t, http.StatusOK, w)

		var response dto.UpdateVariableResponse
		testutil.ParseJSONResponse(t, w, &response)
		assert.Equal(t, "API_KEY", response.Name)
	})

	t.Run("unknown variable", func(t *testing.T) {
		svc := &mocks.MockVariablesService{}
		svc.On("UpdateVariable", mock.Anything, "MISSING", (*string)(nil)).
			Return("", domainerrors.NewVariableNotFoundError("MISSING"))

		w := testutil.PerformRawRequest(newVariablesRouter(svc), http.MethodPut, "/secured-variables/MISSING", "application/json", []byte(`{"value": null}`))

		testutil.AssertStatusCode(t, http.StatusNotFound, w)
	})
}

func TestVariablesHandler_DeleteVariablesForMultipleSecrets(t *testing.T) {
	request := dto.DeleteVariablesRequest{Variables: map[string][]string{
		"default": {"A"},
		"team-a":  {"B"},
	}}

	t.Run("all secrets succeed", func(t *testing.T) {
		svc := &mocks.MockVariablesService{}
		svc.On("DeleteVariablesForMultipleSecrets", mock.Anything, request.Variables).Return([]models.SecretError{}, nil)

		w := testutil.PerformRequest(newVariablesRouter(svc), http.MethodDelete, "/secured-variables", request, nil)

		testutil.AssertStatusCode(t, http.StatusOK, w)
		assert.Empty(t, w.Body.String())
	})

	t.Run("some secrets fail", func(t *testing.T) {
		failed := []models.SecretError{{Secret: "team-a", Message: "secret team-a not found"}}
		svc := &mocks.MockVariablesService{}
		svc.On("DeleteVariablesForMultipleSecrets", mock.Anything, request.Variables).Return(failed, nil)

		w := testutil.PerformRequest(newVariablesRouter(svc), http.MethodDelete, "/secured-variables", request, nil)

		testutil.AssertStatusCode(t, http.StatusMultiStatus, w)

		var response dto.DeleteVariablesResponse
		testutil.ParseJSONResponse(t, w, &response)
		assert.Equal(t, failed, response.Errors)
	})

	t.Run("every secret fails", func(t *testing.T) {
		svc := &mocks.MockVariablesService{}
		svc.On("DeleteVariablesForMultipleSecrets", mock.Anything, request.Variables).
			Return(nil, domainerrors.NewSecuredVariablesError("failed to delete variables", assert.AnError))

		w := testutil.PerformRequest(newVariablesRouter(svc), http.MethodDelete, "/secured-variables", request, nil)

		testutil.AssertStatusCode(t, http.StatusInternalServerError, w)

		var response dto.ErrorResponse
		testutil.ParseJSONResponse(t, w, &response)
		assert.Equal(t, domainerrors.ErrCodeSecuredVariables, response.Code)
	})

	t.Run("empty request", func(t *testing.T) {
		svc := &mocks.MockVariablesService{}

		w := testutil.PerformRequest(newVariablesRouter(svc), http.MethodDelete, "/secured-variables", dto.DeleteVariablesRequest{}, nil)

		testutil.AssertStatusCode(t, http.StatusBadRequest, w)
		svc.AssertNotCalled(t, "DeleteVariablesForMultipleSecrets", mock.Anything, mock.Anything)
	})
}

func TestVariablesHandler_ImportVariables(t *testing.T) {
	content := []byte("API_KEY: s3cr3t\nDB_PASSWORD: hunter2\n")

	t.Run("multipart file", func(t *testing.T) {
		svc := &mocks.MockVariablesService{}
		svc.On("ImportVariables", mock.Anything, content).Return([]string{"API_KEY", "DB_PASSWORD"}, nil)
		svc.On("DefaultSecretName").Return("secured-variables")

		body, contentType := testutil.MultipartFile(t, "file", "vars.yaml", content)
		w := testutil.PerformRawRequest(newVariablesRouter(svc), http.MethodPost, "/secured-variables/import", contentType, body)

		testutil.AssertStatusCode(t, http.StatusOK, w)

		var response dto.ImportVariablesResponse
		testutil.ParseJSONResponse(t, w, &response)
		assert.Equal(t, "secured-variables", response.SecretName)
		assert.Equal(t, []string{"API_KEY", "DB_PASSWORD"}, response.Variables)
	})

	t.Run("raw body", func(t *testing.T) {
		svc := &mocks.MockVariablesService{}
		svc.On("ImportVariables", mock.Anything, content).Return([]string{"API_KEY", "DB_PASSWORD"}, nil)
		svc.On("DefaultSecretName").Return("secured-variables")

		w := testutil.PerformRawRequest(newVariablesRouter(svc), http.MethodPost, "/secured-variables/import", "application/yaml", content)

		testutil.AssertStatusCode(t, http.StatusOK, w)
		svc.AssertExpectations(t)
	})

	t.Run("multipart without file field", func(t *testing.T) {
		svc := &mocks.MockVariablesService{}

		body, contentType := testutil.MultipartFile(t, "other", "vars.yaml", content)
		w := testutil.PerformRawRequest(newVariablesRouter(svc), http.MethodPost, "/secured-variables/import", contentType, body)

		testutil.AssertStatusCode(t, http.StatusBadRequest, w)
		svc.AssertNotCalled(t, "ImportVariables", mock.Anything, mock.Anything)
	})

	t.Run("empty payload", func(t *testing.T) {
		svc := &mocks.MockVariablesService{}

		w := testutil.PerformRawRequest(newVariablesRouter(svc), http.MethodPost, "/secured-variables/import", "application/yaml", []byte("  \n"))

		testutil.AssertStatusCode(t, http.StatusBadRequest, w)

		var response dto.ErrorResponse
		testutil.ParseJSONResponse(t, w, &response)
		assert.Equal(t, domainerrors.ErrCodeBadRequest, response.Code)
	})

	t.Run("unreadable payload", func(t *testing.T) {
		svc := &mocks.MockVariablesService{}
		svc.On("ImportVariables", mock.Anything, []byte("- a\n- b\n")).
			Return(nil, domainerrors.NewImportFailedError(assert.AnError))

		w := testutil.PerformRawRequest(newVariablesRouter(svc), http.MethodPost, "/secured-variables/import", "application/yaml", []byte("- a\n- b\n"))

		testutil.AssertStatusCode(t, http.StatusBadRequest, w)

		var response dto.ErrorResponse
		testutil.ParseJSONResponse(t, w, &response)
		assert.Equal(t, domainerrors.ErrCodeImportFailed, response.Code)
	})

	t.Run("payload too large", func(t *testing.T) {
		svc := &mocks.MockVariablesService{}

		large := make([]byte, handlers.MaxImportSize+1)
		for i := range large {
			large[i] = 'a'
		}
		w := testutil.PerformRawRequest(newVariablesRouter(svc), http.MethodPost, "/secured-variables/import", "application/yaml", large)

		testutil.AssertStatusCode(t, http.StatusBadRequest, w)
		svc.AssertNotCalled(t, "ImportVariables", mock.Anything, mock.Anything)
	})
}
