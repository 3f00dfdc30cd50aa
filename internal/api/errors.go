package api

import (
	"errors"
	"net/http"

	"github.com/carelog/summary-api/internal/domain"
	"github.com/carelog/summary-api/internal/job"
	"github.com/carelog/summary-api/internal/service"
	"github.com/carelog/summary-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrPatientNotFound),
		errors.Is(err, service.ErrNoteNotFound),
		errors.Is(err, store.ErrNotFound),
		errors.Is(err, job.ErrJobNotFound):
		return http.StatusNotFound

	case errors.Is(err, job.ErrInvalidTransition):
		return http.StatusConflict

	case errors.Is(err, domain.ErrInvalidAudience),
		errors.Is(err, domain.ErrInvalidMaxLength),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrEmptyPatientName),
		errors.Is(err, domain.ErrPatientNameTooLong),
		errors.Is(err, domain.ErrEmptyDateOfBirth),
		errors.Is(err, domain.ErrFutureDateOfBirth),
		errors.Is(err, domain.ErrEmptyNoteContent),
		errors.Is(err, domain.ErrEmptyNoteTimestamp):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-facing message for err.
func GetSafeErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrPatientNotFound):
		return "Patient not found"
	case errors.Is(err, service.ErrNoteNotFound):
		return "Note not found"
	case errors.Is(err, job.ErrJobNotFound):
		return "Job not found"
	case errors.Is(err, job.ErrInvalidTransition):
		return "Job is no longer in a state that allows this operation"
	case errors.Is(err, domain.ErrInvalidAudience):
		return "Audience must be 'clinician' or 'family'"
	case errors.Is(err, domain.ErrInvalidMaxLength):
		return "max_length must be between 100 and 2000"
	case MapErrorToStatusCode(err) == http.StatusBadRequest:
		return "Invalid request: " + err.Error()
	default:
		return "An internal error occurred"
	}
}
