package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/unifiedui/variables-service/internal/api/dto"
	"github.com/unifiedui/variables-service/internal/api/middleware"
	"github.com/unifiedui/variables-service/internal/domain/errors"
	"github.com/unifiedui/variables-service/internal/services/variables"
)

// MaxImportSize bounds the size of an import payload.
const MaxImportSize = 1 << 20

// VariablesHandler handles secret and secured variable endpoints.
type VariablesHandler struct {
	service variables.Service
}

// NewVariablesHandler creates a new VariablesHandler.
func NewVariablesHandler(service variables.Service) *VariablesHandler {
	return &VariablesHandler{
		service: service,
	}
}

// ListSecrets handles GET /secrets
// @Summary List secrets
// @Description Returns every managed secret with its variable names
// @Tags Secrets
// @Produce json
// @Success 200 {object} dto.ListSecretsResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/variables-service/secrets [get]
func (h *VariablesHandler) ListSecrets(c *gin.Context) {
	all, err := h.service.ListAllVariableNames(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListSecretsResponse(all))
}

// CreateSecret handles POST /secrets/{secret}
// @Summary Create secret
// @Description Creates an empty secret. Returns 200 if it already exists.
// @Tags Secrets
// @Produce json
// @Param secret path string true "Secret name, or 'default'"
// @Success 201 {object} dto.CreateSecretResponse "Secret created"
// @Success 200 {object} dto.CreateSecretResponse "Secret already exists"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/variables-service/secrets/{secret} [post]
func (h *VariablesHandler) CreateSecret(c *gin.Context) {
	secret := c.Param("secret")

	created, err := h.service.CreateSecret(c.Request.Context(), secret)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, dto.CreateSecretResponse{
		SecretName: h.service.ResolveSecretName(secret),
		Created:    created,
	})
}

// GetSecretTemplate handles GET /secrets/{secret}/template
// @Summary Secret template
// @Description Renders a deployable Secret manifest with Helm value placeholders
// @Tags Secrets
// @Produce application/yaml
// @Param secret path string true "Secret name, or 'default'"
// @Success 200 {string} string "YAML manifest"
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/variables-service/secrets/{secret}/template [get]
func (h *VariablesHandler) GetSecretTemplate(c *gin.Context) {
	out, err := h.service.SecretTemplate(c.Request.Context(), c.Param("secret"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/yaml", out)
}

// ListVariables handles GET /secrets/{secret}/variables
// @Summary List variables
// @Description Returns the sorted variable names of a secret
// @Tags Variables
// @Produce json
// @Param secret path string true "Secret name, or 'default'"
// @Success 200 {object} dto.SecretVariablesResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/variables-service/secrets/{secret}/variables [get]
func (h *VariablesHandler) ListVariables(c *gin.Context) {
	secret := h.service.ResolveSecretName(c.Param("secret"))

	names, err := h.service.ListVariableNames(c.Request.Context(), secret, true)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	if names == nil {
		names = []string{}
	}

	c.JSON(http.StatusOK, dto.SecretVariablesResponse{SecretName: secret, Variables: names})
}

// AddVariables handles POST /secrets/{secret}/variables
// @Summary Add variables
// @Description Creates or overwrites variables in a secret
// @Tags Variables
// @Accept json
// @Produce json
// @Param secret path string true "Secret name, or 'default'"
// @Param request body map[string]string true "Variable names and values"
// @Success 200 {object} dto.SecretVariablesResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/variables-service/secrets/{secret}/variables [post]
func (h *VariablesHandler) AddVariables(c *gin.Context) {
	var entries map[string]string
	if err := c.ShouldBindJSON(&entries); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.service.AddVariables(c.Request.Context(), c.Param("secret"), entries, false)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSecretVariablesResponse(result))
}

// UpdateVariables handles PATCH /secrets/{secret}/variables
// @Summary Update variables
// @Description Overwrites existing variables. A null value stores an empty string.
// @Tags Variables
// @Accept json
// @Produce json
// @Param secret path string true "Secret name, or 'default'"
// @Param request body map[string]string true "Variable names and values"
// @Success 200 {object} dto.SecretVariablesResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/variables-service/secrets/{secret}/variables [patch]
func (h *VariablesHandler) UpdateVariables(c *gin.Context) {
	var entries map[string]*string
	if err := c.ShouldBindJSON(&entries); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.service.UpdateVariables(c.Request.Context(), c.Param("secret"), entries)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSecretVariablesResponse(result))
}

// DeleteVariables handles DELETE /secrets/{secret}/variables
// @Summary Delete variables
// @Description Removes variables from a secret. Unknown names are ignored.
// @Tags Variables
// @Param secret path string true "Secret name, or 'default'"
// @Param names query []string true "Variable names" collectionFormat(multi)
// @Success 204 "Variables deleted"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/variables-service/secrets/{secret}/variables [delete]
func (h *VariablesHandler) DeleteVariables(c *gin.Context) {
	names := queryList(c, "names")
	if len(names) == 0 {
		middleware.HandleError(c, errors.NewValidationError("at least one variable name is required", "names"))
		return
	}

	if err := h.service.DeleteVariables(c.Request.Context(), c.Param("secret"), names, true); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UpdateVariable handles PUT /secured-variables/{name}
// @Summary Update default secret variable
// @Description Overwrites one existing variable of the default secret
// @Tags Variables
// @Accept json
// @Produce json
// @Param name path string true "Variable name"
// @Param request body dto.UpdateVariableRequest true "New value"
// @Success 200 {object} dto.UpdateVariableResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/variables-service/secured-variables/{name} [put]
func (h *VariablesHandler) UpdateVariable(c *gin.Context) {
	var req dto.UpdateVariableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	name, err := h.service.UpdateVariable(c.Request.Context(), c.Param("name"), req.Value)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UpdateVariableResponse{Name: name})
}

// DeleteVariablesForMultipleSecrets handles DELETE /secured-variables
// @Summary Delete variables from several secrets
// @Description Deletes variables from every listed secret. Returns 207 with the failed secrets when only some of them failed.
// @Tags Variables
// @Accept json
// @Produce json
// @Param request body dto.DeleteVariablesRequest true "Variable names keyed by secret"
// @Success 200 "All deletions applied"
// @Success 207 {object} dto.DeleteVariablesResponse "Some secrets failed"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse "Every secret failed"
// @Router /api/v1/variables-service/secured-variables [delete]
func (h *VariablesHandler) DeleteVariablesForMultipleSecrets(c *gin.Context) {
	var req dto.DeleteVariablesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	failed, err := h.service.DeleteVariablesForMultipleSecrets(c.Request.Context(), req.Variables)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	if len(failed) > 0 {
		c.JSON(http.StatusMultiStatus, dto.DeleteVariablesResponse{Errors: failed})
		return
	}
	c.Status(http.StatusOK)
}

// ImportVariables handles POST /secured-variables/import
// @Summary Import variables
// @Description Adds a YAML or JSON name/value mapping to the default secret. The mapping is sent as the multipart field "file" or as the raw body.
// @Tags Variables
// @Accept multipart/form-data
// @Accept application/yaml
// @Produce json
// @Param file formData file false "YAML or JSON file"
// @Success 200 {object} dto.ImportVariablesResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/variables-service/secured-variables/import [post]
func (h *VariablesHandler) ImportVariables(c *gin.Context) {
	content, err := readImportPayload(c)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	names, err := h.service.ImportVariables(c.Request.Context(), content)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	if names == nil {
		names = []string{}
	}

	c.JSON(http.StatusOK, dto.ImportVariablesResponse{
		SecretName: h.service.DefaultSecretName(),
		Variables:  names,
	})
}

func readImportPayload(c *gin.Context) ([]byte, error) {
	var src io.Reader = c.Request.Body

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile("file")
		if err != nil {
			return nil, errors.NewBadRequestError("import file is required", err.Error())
		}
		file, err := header.Open()
		if err != nil {
			return nil, errors.NewBadRequestError("failed to open import file", err.Error())
		}
		defer file.Close()
		src = file
	}

	content, err := io.ReadAll(io.LimitReader(src, MaxImportSize+1))
	if err != nil {
		return nil, errors.NewBadRequestError("failed to read import payload", err.Error())
	}
	if len(content) > MaxImportSize {
		return nil, errors.NewBadRequestError("import payload is too large", "")
	}
	if len(strings.TrimSpace(string(content))) == 0 {
		return nil, errors.NewBadRequestError("import payload is empty", "")
	}
	return content, nil
}

// queryList accepts both repeated (?names=a&names=b) and comma separated
// (?names=a,b) values.
func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
