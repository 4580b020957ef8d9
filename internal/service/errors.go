// Package service implements the application's business operations:
// plan creation, daily execution generation with automatic replanning,
// schedule status updates, progress reporting, and streak bookkeeping.
package service

import (
	"errors"
	"fmt"

	"github.com/studyflow/studyflow-api/internal/store"
)

// Common sentinel errors surfaced by the service layer.
var (
	// ErrPlanNotFound indicates the plan does not exist. It is fatal to a
	// generation call and surfaced to the caller unchanged.
	ErrPlanNotFound = errors.New("plan not found")

	// ErrExecutionNotFound indicates no daily execution exists for the
	// requested day.
	ErrExecutionNotFound = errors.New("daily execution not found")

	// ErrUserNotFound indicates the user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrNoCurrentPlan indicates the user has no current plan selected.
	ErrNoCurrentPlan = errors.New("no current plan")
)

// ServiceError wraps errors from the service layer with operation context.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "generate_daily_plan")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError, translating store-level
// sentinels to their service-level counterparts first so callers can
// match with errors.Is without knowing the store package.
func NewServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrPlanNotFound),
		errors.Is(err, ErrExecutionNotFound),
		errors.Is(err, ErrUserNotFound):
		return err
	case errors.Is(err, store.ErrPlanNotFound):
		return ErrPlanNotFound
	case errors.Is(err, store.ErrExecutionNotFound):
		return ErrExecutionNotFound
	case errors.Is(err, store.ErrUserNotFound):
		return ErrUserNotFound
	}

	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
