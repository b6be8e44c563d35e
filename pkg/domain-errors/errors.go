// Package domainerrors defines the typed error values the domain layer returns.
//
// Services and aggregates return these errors; the HTTP layer translates codes
// into status codes and stores never construct them directly (stores return
// sentinel errors which services wrap here).
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error. Codes are stable identifiers safe to expose
// to API clients; messages are human-readable and may change.
type Code string

const (
	// CodeValidation covers malformed value objects: bad identifier formats,
	// blank required fields, non-positive amounts, currency mismatches.
	CodeValidation Code = "validation"

	// CodeBadRequest covers malformed or incomplete requests above the value
	// object level (missing body fields, unparseable JSON).
	CodeBadRequest Code = "bad_request"

	// CodeInvalidState covers operations forbidden by the current aggregate
	// state: transacting on a suspended account, re-closing a closed account,
	// closing with a non-zero balance.
	CodeInvalidState Code = "invalid_state"

	// CodeInsufficientFunds is returned when a withdrawal exceeds the
	// available balance.
	CodeInsufficientFunds Code = "insufficient_funds"

	// CodeNotFound is returned when an account, transaction or user lookup
	// yields no result.
	CodeNotFound Code = "not_found"

	// CodeUnauthorized covers missing or invalid authentication credentials.
	CodeUnauthorized Code = "unauthorized"

	// CodeForbidden is returned when an authenticated caller does not own the
	// referenced resource.
	CodeForbidden Code = "forbidden"

	// CodeConflict covers uniqueness violations, deleting a user who still
	// owns accounts, and optimistic-lock version mismatches.
	CodeConflict Code = "conflict"

	// CodeTimeout is returned when a unit of work is abandoned because its
	// context expired.
	CodeTimeout Code = "timeout"

	// CodeInternal covers unexpected infrastructure failures.
	CodeInternal Code = "internal"
)

// Error is a domain error carrying a classification code and a message.
// It may wrap an underlying cause for diagnostics.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error, preserving the
// cause for errors.Is / errors.As chains.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// HasCode reports whether err (or anything it wraps) is a domain error with
// the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is a readability alias for HasCode, for call sites that read better as
// a question: dErrors.Is(err, dErrors.CodeNotFound).
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the code of err, or CodeInternal when err is not a domain
// error. Useful for transport-layer mapping.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
