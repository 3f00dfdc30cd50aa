package service

import (
	"errors"
	"fmt"

	"github.com/carelog/summary-api/internal/store"
)

// Common sentinel errors returned by the services.
var (
	// ErrPatientNotFound indicates that the patient does not exist.
	ErrPatientNotFound = errors.New("patient not found")

	// ErrNoteNotFound indicates that the note does not exist.
	ErrNoteNotFound = errors.New("note not found")
)

// ServiceError wraps errors from the services with operation context.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// wrapError maps store-level sentinel errors to their service-level
// equivalents and wraps everything else with operation context.
func wrapError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, store.ErrPatientNotFound):
		return ErrPatientNotFound
	case errors.Is(err, store.ErrNoteNotFound):
		return ErrNoteNotFound
	}

	return &ServiceError{Operation: operation, Message: message, Err: err}
}
