package dto

import (
	"github.com/unifiedui/variables-service/internal/domain/models"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
}

// ListSecretsResponse maps every secret to its sorted variable names.
type ListSecretsResponse map[string][]string

// CreateSecretResponse represents the response for creating a secret.
type CreateSecretResponse struct {
	SecretName string `json:"secretName"`
	Created    bool   `json:"created"`
}

// SecretVariablesResponse lists the variable names touched in one secret.
type SecretVariablesResponse struct {
	SecretName string   `json:"secretName"`
	Variables  []string `json:"variables"`
}

// NewSecretVariablesResponse converts a domain result.
func NewSecretVariablesResponse(v *models.SecretVariables) SecretVariablesResponse {
	names := v.Variables
	if names == nil {
		names = []string{}
	}
	return SecretVariablesResponse{SecretName: v.Secret, Variables: names}
}

// UpdateVariableResponse represents the response for updating one variable.
type UpdateVariableResponse struct {
	Name string `json:"name"`
}

// DeleteVariablesResponse reports the secrets a multi-secret delete could not
// process. It is returned with 207 Multi-Status.
type DeleteVariablesResponse struct {
	Errors []models.SecretError `json:"errors"`
}

// ImportVariablesResponse represents the response for an import.
type ImportVariablesResponse struct {
	SecretName string   `json:"secretName"`
	Variables  []string `json:"variables"`
}

// ActionLogResponse is one audit entry. Times are epoch milliseconds.
type ActionLogResponse struct {
	ID         string      `json:"id"`
	ActionTime int64       `json:"actionTime"`
	Operation  string      `json:"operation"`
	EntityType string      `json:"entityType"`
	EntityName string      `json:"entityName,omitempty"`
	ParentType string      `json:"parentType,omitempty"`
	ParentName string      `json:"parentName,omitempty"`
	User       models.User `json:"user"`
	RequestID  string      `json:"requestId,omitempty"`
}

// SearchActionLogsResponse represents one page of action logs.
type SearchActionLogsResponse struct {
	RecordsAfterRange int64               `json:"recordsAfterRange"`
	ActionLogs        []ActionLogResponse `json:"actionLogs"`
}

// NewSearchActionLogsResponse converts a domain search result.
func NewSearchActionLogsResponse(result *models.ActionLogSearchResult) SearchActionLogsResponse {
	logs := make([]ActionLogResponse, 0, len(result.ActionLogs))
	for _, a := range result.ActionLogs {
		logs = append(logs, ActionLogResponse{
			ID:         a.ID,
			ActionTime: a.ActionTime.UnixMilli(),
			Operation:  string(a.Operation),
			EntityType: string(a.EntityType),
			EntityName: a.EntityName,
			ParentType: string(a.ParentType),
			ParentName: a.ParentName,
			User:       a.User,
			RequestID:  a.RequestID,
		})
	}
	return SearchActionLogsResponse{RecordsAfterRange: result.RecordsAfterRange, ActionLogs: logs}
}
