// Package errors provides domain-specific error types.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for domain errors.
const (
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeEmptyField         = "EMPTY_FIELD"
	ErrCodeEntityExists       = "ENTITY_EXISTS"
	ErrCodeSecuredVariables   = "SECURED_VARIABLES_ERROR"
	ErrCodeImportFailed       = "IMPORT_FAILED"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeTimeout            = "TIMEOUT"
)

// EmptySecuredVariableNameMessage is reported when a variable name is blank.
const EmptySecuredVariableNameMessage = "secured variable's name is empty"

// DomainError represents a domain-specific error.
type DomainError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"`
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new not found error.
func NewNotFoundError(resource, identifier string) *DomainError {
	return &DomainError{
		Code:       ErrCodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		Details:    identifier,
		HTTPStatus: http.StatusNotFound,
	}
}

// NewSecretNotFoundError creates a not found error for a secret.
func NewSecretNotFoundError(secretName string, err error) *DomainError {
	e := NewNotFoundError("secret", secretName)
	e.Err = err
	return e
}

// NewVariableNotFoundError creates a not found error for a secured variable.
func NewVariableNotFoundError(name string) *DomainError {
	return NewNotFoundError("secured variable", name)
}

// NewValidationError creates a new validation error.
func NewValidationError(message string, details string) *DomainError {
	return &DomainError{
		Code:       ErrCodeValidation,
		Message:    message,
		Details:    details,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewEmptyFieldError creates an error for a blank required field.
func NewEmptyFieldError(message string) *DomainError {
	return &DomainError{
		Code:       ErrCodeEmptyField,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewEntityExistsError creates an error for a name that is already taken.
func NewEntityExistsError(message string, details string) *DomainError {
	return &DomainError{
		Code:       ErrCodeEntityExists,
		Message:    message,
		Details:    details,
		HTTPStatus: http.StatusConflict,
	}
}

// NewSecuredVariablesError creates a generic store error wrapping a backend failure.
func NewSecuredVariablesError(message string, err error) *DomainError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &DomainError{
		Code:       ErrCodeSecuredVariables,
		Message:    message,
		Details:    details,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewImportFailedError creates an error for an unreadable import payload.
func NewImportFailedError(err error) *DomainError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &DomainError{
		Code:       ErrCodeImportFailed,
		Message:    "unable to convert file to variables",
		Details:    details,
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
	}
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, err error) *DomainError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &DomainError{
		Code:       ErrCodeInternal,
		Message:    message,
		Details:    details,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewBadRequestError creates a new bad request error.
func NewBadRequestError(message string, details string) *DomainError {
	return &DomainError{
		Code:       ErrCodeBadRequest,
		Message:    message,
		Details:    details,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewServiceUnavailableError creates a new service unavailable error.
func NewServiceUnavailableError(service string, err error) *DomainError {
	return &DomainError{
		Code:       ErrCodeServiceUnavailable,
		Message:    fmt.Sprintf("%s is unavailable", service),
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

// NewTimeoutError creates a new timeout error.
func NewTimeoutError(operation string) *DomainError {
	return &DomainError{
		Code:       ErrCodeTimeout,
		Message:    fmt.Sprintf("%s timed out", operation),
		HTTPStatus: http.StatusGatewayTimeout,
	}
}

// IsDomainError checks if the error is a domain error.
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error.
func GetDomainError(err error) (*DomainError, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}

func hasCode(err error, code string) bool {
	domainErr, ok := GetDomainError(err)
	return ok && domainErr.Code == code
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

// IsValidationError checks if the error is a validation error.
func IsValidationError(err error) bool {
	return hasCode(err, ErrCodeValidation)
}

// IsEmptyField checks if the error reports a blank field.
func IsEmptyField(err error) bool {
	return hasCode(err, ErrCodeEmptyField)
}

// IsEntityExists checks if the error reports a name collision.
func IsEntityExists(err error) bool {
	return hasCode(err, ErrCodeEntityExists)
}

// IsSecuredVariablesError checks if the error is a generic store failure.
func IsSecuredVariablesError(err error) bool {
	return hasCode(err, ErrCodeSecuredVariables)
}

// IsImportFailed checks if the error reports an unreadable import payload.
func IsImportFailed(err error) bool {
	return hasCode(err, ErrCodeImportFailed)
}
