// Package domainerrors defines coded errors shared across services and the
// HTTP transport. Services construct these; the transport layer maps codes to
// status codes so handlers stay free of ad-hoc error translation.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error for callers and the transport layer.
type Code string

const (
	// CodeInvalidTransition means the requested lifecycle event is not legal
	// from the complaint's current state. The record is left unchanged.
	CodeInvalidTransition Code = "invalid_transition"
	// CodeGeofenceFailed means the observed position is outside tolerance.
	// Retryable: the officer may re-verify after relocating.
	CodeGeofenceFailed Code = "geofence_failed"
	// CodeMissingEvidence means a work submission lacked before/after artifacts.
	CodeMissingEvidence Code = "missing_evidence"
	// CodeBusy means the verification engine's admission queue is full.
	CodeBusy Code = "busy"
	// CodeNotFound means the complaint (or referenced entity) does not exist.
	CodeNotFound Code = "not_found"
	// CodeValidation covers malformed or out-of-bounds input.
	CodeValidation Code = "validation"
	// CodeConflict covers lost concurrent writes.
	CodeConflict Code = "conflict"
	// CodeInternal is the fallback for unexpected failures.
	CodeInternal Code = "internal"
)

// Error is a coded domain error. Wrapped causes stay reachable via errors.Is
// and errors.As.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New constructs a coded error without a cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf constructs a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a domain error code to an HTTP status for the transport
// layer. Unknown codes map to 500.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidTransition, CodeConflict:
		return http.StatusConflict
	case CodeGeofenceFailed:
		return http.StatusUnprocessableEntity
	case CodeMissingEvidence, CodeValidation:
		return http.StatusBadRequest
	case CodeBusy:
		return http.StatusTooManyRequests
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
