// Package errors provides structured error types for the reftree CLI and API.
//
// Engine packages return plain sentinel errors. At the boundary, [Classify]
// turns them into an [*Error] carrying a machine-readable [Code], which the API
// maps to an HTTP status with [HTTPStatus] and the CLI prints with
// [UserMessage].
//
// # Error Codes
//
//   - UNKNOWN_*, DUPLICATE_USER: lookups and registrations
//   - SELF_REFERRAL, ALREADY_REFERRED, CYCLE_DETECTED: rejected links
//   - INVALID_*: malformed input
//   - INTERNAL_ERROR: anything unexpected
//
// # Usage
//
//	if err := f.LinkUserToReferrer(ref, id); err != nil {
//	    e := errors.Classify(err)
//	    w.WriteHeader(errors.HTTPStatus(e.Code))
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/matzehuels/reftree/pkg/analytics"
	"github.com/matzehuels/reftree/pkg/bonus"
	"github.com/matzehuels/reftree/pkg/forest"
	"github.com/matzehuels/reftree/pkg/growth"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Lookup and registration errors
	ErrCodeUnknownUser     Code = "UNKNOWN_USER"
	ErrCodeUnknownReferrer Code = "UNKNOWN_REFERRER"
	ErrCodeDuplicateUser   Code = "DUPLICATE_USER"

	// Rejected links
	ErrCodeSelfReferral    Code = "SELF_REFERRAL"
	ErrCodeAlreadyReferred Code = "ALREADY_REFERRED"
	ErrCodeCycleDetected   Code = "CYCLE_DETECTED"

	// Input validation errors
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidProbability Code = "INVALID_PROBABILITY"
	ErrCodeInvalidDayCount    Code = "INVALID_DAY_COUNT"
	ErrCodeInvalidTarget      Code = "INVALID_TARGET"
	ErrCodeInvalidConfig      Code = "INVALID_CONFIG"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// sentinels maps engine errors to codes. Order matters only for errors that
// wrap more than one sentinel, which none currently do.
var sentinels = []struct {
	err  error
	code Code
}{
	{forest.ErrUnknownUser, ErrCodeUnknownUser},
	{forest.ErrUnknownReferrer, ErrCodeUnknownReferrer},
	{forest.ErrDuplicateUser, ErrCodeDuplicateUser},
	{forest.ErrSelfReferral, ErrCodeSelfReferral},
	{forest.ErrAlreadyReferred, ErrCodeAlreadyReferred},
	{forest.ErrCycleDetected, ErrCodeCycleDetected},
	{forest.ErrInvalidUserID, ErrCodeInvalidInput},
	{analytics.ErrInvalidLimit, ErrCodeInvalidInput},
	{growth.ErrInvalidProbability, ErrCodeInvalidProbability},
	{growth.ErrInvalidDayCount, ErrCodeInvalidDayCount},
	{growth.ErrInvalidTarget, ErrCodeInvalidTarget},
	{growth.ErrInvalidConfig, ErrCodeInvalidConfig},
	{bonus.ErrInvalidConfig, ErrCodeInvalidConfig},
}

// Classify returns err as an *Error. Errors that already carry a code are
// returned unchanged; known engine sentinels get their code; anything else
// becomes ErrCodeInternal. Classify(nil) returns nil.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return &Error{Code: s.code, Message: err.Error(), Cause: err}
		}
	}
	return &Error{Code: ErrCodeInternal, Message: err.Error(), Cause: err}
}

// HTTPStatus returns the response status for a code.
func HTTPStatus(code Code) int {
	switch code {
	case ErrCodeUnknownUser:
		return http.StatusNotFound
	case ErrCodeUnknownReferrer, ErrCodeSelfReferral,
		ErrCodeInvalidInput, ErrCodeInvalidProbability, ErrCodeInvalidDayCount,
		ErrCodeInvalidTarget, ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case ErrCodeDuplicateUser, ErrCodeAlreadyReferred, ErrCodeCycleDetected:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
