// Package services holds the business logic between the web layer and
// storage: workflow CRUD with validation, and execution queries.
package services

import (
	"errors"
	"fmt"
)

// Business logic errors indicating client mistakes (4xx responses).
var (
	// Validation errors (400 Bad Request).
	ErrInvalidRequest   = errors.New("invalid request")
	ErrInvalidSortField = errors.New("invalid sort field")
	ErrInvalidSortOrder = errors.New("invalid sort order")
	ErrInvalidStatus    = errors.New("invalid workflow status")
	ErrWorkflowNil      = errors.New("workflow cannot be nil")
	ErrWorkflowInvalid  = errors.New("workflow definition is invalid")

	// Business logic conflicts (409 Conflict).
	ErrCannotModifyArchived  = errors.New("cannot modify archived workflow")
	ErrWorkflowNotExecutable = errors.New("workflow is not executable")
)

// ServiceError wraps service-level errors with the operation, a stable code
// for API responses, and the violated rules when validation failed.
type ServiceError struct {
	Op         string
	Code       string
	Message    string
	Violations []string
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewValidationError creates a validation error with context.
func NewValidationError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsValidationError checks if an error should map to HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalidSortField) ||
		errors.Is(err, ErrInvalidSortOrder) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrWorkflowNil) ||
		errors.Is(err, ErrWorkflowInvalid)
}

// IsConflictError checks if an error should map to HTTP 409.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrCannotModifyArchived) ||
		errors.Is(err, ErrWorkflowNotExecutable)
}
