// Package apierror provides the domain error taxonomy and the response
// envelopes for both API dialects. All errors returned to clients go through
// this package so that internal details (stack traces, SQL errors) never
// leak into a response body.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a domain failure. Handlers map kinds to HTTP statuses;
// services never pick status codes themselves.
type Kind int

const (
	KindInternal      Kind = iota // unexpected fault — generic 500
	KindValidation                // missing/malformed required field
	KindDuplicate                 // id collision on create
	KindNotFound                  // operation target absent
	KindCapacity                  // area exceeds its ceiling
	KindStateConflict             // operation invalid for the current status
	KindExternalTool              // printer submission failed
)

// Error is the canonical domain error. Msg is safe to show to clients;
// Err (optional) carries the internal cause for logging only.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func Duplicate(format string, args ...interface{}) *Error {
	return &Error{Kind: KindDuplicate, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Capacity(format string, args ...interface{}) *Error {
	return &Error{Kind: KindCapacity, Msg: fmt.Sprintf(format, args...)}
}

func StateConflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindStateConflict, Msg: fmt.Sprintf(format, args...)}
}

// ExternalTool wraps a failed printer invocation; detail carries the
// captured stderr, which is surfaced to the caller as the CUPS workflow did.
func ExternalTool(detail string, cause error) *Error {
	return &Error{Kind: KindExternalTool, Msg: detail, Err: cause}
}

// KindOf extracts the Kind from any error chain. Unknown errors are internal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// Message returns the client-safe message for err. Internal faults get a
// generic message so SQL/driver errors are never echoed back.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Msg
	}
	return "Erro interno do servidor"
}

// ── Dialect envelopes ────────────────────────────────────────────────────────

// V1Error is the {success:false, error} envelope used by the v1 dialect.
type V1Error struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func V1(err error) V1Error { return V1Error{Success: false, Error: Message(err)} }

// AppError is the {error} envelope used by the /app dialect.
type AppError struct {
	Error string `json:"error"`
}

func App(err error) AppError { return AppError{Error: Message(err)} }

// V1Status maps a domain error to the v1 dialect's status code.
// Validation, capacity, state and duplicate issues are all 400 in v1.
func V1Status(err error) int {
	switch KindOf(err) {
	case KindValidation, KindDuplicate, KindCapacity, KindStateConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// AppStatus maps a domain error to the /app dialect's status code.
// The app client distinguishes duplicates with 409.
func AppStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindCapacity, KindStateConflict:
		return http.StatusBadRequest
	case KindDuplicate:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
