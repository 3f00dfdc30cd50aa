package generation

import (
	"context"
	"errors"
	"fmt"
)

// FailureKind classifies a backend failure for retry and fallback decisions.
type FailureKind string

// Possible failure kinds
const (
	// FailureUnreachable covers connection refused, DNS failure, and any
	// error that could not be classified more precisely.
	FailureUnreachable FailureKind = "unreachable"

	// FailureAuth covers rejected credentials (401/403 responses).
	FailureAuth FailureKind = "auth"

	// FailureRateLimited covers 429 responses and provider quota errors.
	FailureRateLimited FailureKind = "rate_limited"

	// FailureTimeout covers deadline exceeded on the wire call.
	FailureTimeout FailureKind = "timeout"

	// FailureMalformedResponse covers payloads that could not be decoded
	// or that carry no usable text.
	FailureMalformedResponse FailureKind = "malformed_response"
)

// Retryable reports whether a failure of this kind is transient and worth
// retrying. Auth and malformed responses are configuration or integration
// problems and retrying them cannot help.
func (k FailureKind) Retryable() bool {
	switch k {
	case FailureUnreachable, FailureRateLimited, FailureTimeout:
		return true
	default:
		return false
	}
}

// Error is the only error type a Generator may return. It carries the
// failure classification and a human-readable detail for logs.
type Error struct {
	Kind   FailureKind
	Detail string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation failed (%s): %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("generation failed (%s): %s", e.Kind, e.Detail)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a classified generation error.
func NewError(kind FailureKind, detail string, err error) *Error {
	return &Error{Kind: kind, Detail: detail, Err: err}
}

// ClassifyTransport maps a transport-level error from an HTTP round trip
// into a classified generation error. Context deadline errors become
// timeouts; everything else is treated as unreachable.
func ClassifyTransport(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(FailureTimeout, "request deadline exceeded", err)
	}
	return NewError(FailureUnreachable, "transport error", err)
}

// ClassifyStatus maps a non-2xx HTTP status into a classified generation
// error.
func ClassifyStatus(status int) *Error {
	detail := fmt.Sprintf("unexpected status %d", status)
	switch {
	case status == 401 || status == 403:
		return NewError(FailureAuth, detail, nil)
	case status == 429:
		return NewError(FailureRateLimited, detail, nil)
	case status == 408 || status == 504:
		return NewError(FailureTimeout, detail, nil)
	default:
		return NewError(FailureUnreachable, detail, nil)
	}
}

// KindOf extracts the failure kind from an error. Errors that are not
// *generation.Error are treated as unreachable so that an unexpected
// backend failure can never leak past the fallback decision.
func KindOf(err error) FailureKind {
	var genErr *Error
	if errors.As(err, &genErr) {
		return genErr.Kind
	}
	return FailureUnreachable
}
