// Package models contains domain models for the secured variables service.
package models

import (
	"time"

	"github.com/google/uuid"
)

// LogOperation is the kind of change recorded by an action log entry.
type LogOperation string

const (
	// LogOperationCreate records a newly created entity.
	LogOperationCreate LogOperation = "CREATE"
	// LogOperationUpdate records a changed entity.
	LogOperationUpdate LogOperation = "UPDATE"
	// LogOperationDelete records a removed entity.
	LogOperationDelete LogOperation = "DELETE"
	// LogOperationImport records an entity written by an import.
	LogOperationImport LogOperation = "IMPORT"
)

// EntityType is the kind of entity an action log entry refers to.
type EntityType string

const (
	// EntityTypeSecret is a secret container in the secret backend.
	EntityTypeSecret EntityType = "SECRET"
	// EntityTypeSecuredVariable is one entry inside a secret.
	EntityTypeSecuredVariable EntityType = "SECURED_VARIABLE"
)

// SecretNamePlaceholder replaces secret names in audit output.
const SecretNamePlaceholder = "Secret"

// User identifies who performed an action.
type User struct {
	ID       string `json:"id,omitempty" bson:"id,omitempty"`
	Username string `json:"username,omitempty" bson:"username,omitempty"`
}

// ActionLog is one audit entry. It is treated as immutable once handed to the
// action log service; redaction always works on a copy.
type ActionLog struct {
	ID         string       `json:"id" bson:"_id"`
	ActionTime time.Time    `json:"actionTime" bson:"actionTime"`
	Operation  LogOperation `json:"operation" bson:"operation"`
	EntityType EntityType   `json:"entityType" bson:"entityType"`
	EntityName string       `json:"entityName,omitempty" bson:"entityName,omitempty"`
	ParentType EntityType   `json:"parentType,omitempty" bson:"parentType,omitempty"`
	ParentName string       `json:"parentName,omitempty" bson:"parentName,omitempty"`
	User       User         `json:"user" bson:"user"`
	RequestID  string       `json:"requestId,omitempty" bson:"requestId,omitempty"`
}

// NewSecuredVariableAction builds an entry for an operation on a variable
// owned by the given secret.
func NewSecuredVariableAction(name, secretName string, operation LogOperation) *ActionLog {
	return &ActionLog{
		ID:         uuid.New().String(),
		ActionTime: time.Now().UTC(),
		Operation:  operation,
		EntityType: EntityTypeSecuredVariable,
		EntityName: name,
		ParentType: EntityTypeSecret,
		ParentName: secretName,
	}
}

// NewSecretAction builds an entry for an operation on a secret itself.
func NewSecretAction(secretName string, operation LogOperation) *ActionLog {
	return &ActionLog{
		ID:         uuid.New().String(),
		ActionTime: time.Now().UTC(),
		Operation:  operation,
		EntityType: EntityTypeSecret,
		EntityName: secretName,
	}
}

// Redacted returns a copy of the entry with every secret name replaced by
// SecretNamePlaceholder. The receiver is left untouched.
func (a ActionLog) Redacted() ActionLog {
	if a.EntityType == EntityTypeSecret {
		a.EntityName = SecretNamePlaceholder
	}
	if a.ParentType == EntityTypeSecret {
		a.ParentName = SecretNamePlaceholder
	}
	return a
}

// ActionLogFilter narrows an action log search to one attribute value.
type ActionLogFilter struct {
	Column string `json:"column"`
	Value  string `json:"value"`
}

// ActionLogSearchCriteria selects entries older than OffsetTime and no older
// than OffsetTime minus Range.
type ActionLogSearchCriteria struct {
	OffsetTime time.Time         `json:"offsetTime"`
	Range      time.Duration     `json:"-"`
	Filters    []ActionLogFilter `json:"filters,omitempty"`
}

// ActionLogSearchResult is one page of action log entries plus the number of
// matching entries older than the page.
type ActionLogSearchResult struct {
	RecordsAfterRange int64       `json:"recordsAfterRange"`
	ActionLogs        []ActionLog `json:"actionLogs"`
}
