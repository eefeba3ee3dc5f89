// Package clierr defines structured error types for pocketdesk commands.
// Errors carry a machine-readable code, a human-readable message,
// and optional details for scripted consumers.
package clierr

import (
	"errors"
	"fmt"
	"strconv"
)

// Error code constants, uppercase and underscore-separated. Stable across minor versions.
const (
	InvalidInput       = "INVALID_INPUT"
	InvalidExpression  = "INVALID_EXPRESSION"
	InvalidPriority    = "INVALID_PRIORITY"
	InvalidCategory    = "INVALID_CATEGORY"
	InvalidConfigKey   = "INVALID_CONFIG_KEY"
	TaskNotFound       = "TASK_NOT_FOUND"
	CityNotFound       = "CITY_NOT_FOUND"
	WeatherUnavailable = "WEATHER_UNAVAILABLE"
	MissingAPIKey      = "MISSING_API_KEY"
	ConfigNotFound     = "CONFIG_NOT_FOUND"
	ConfigExists       = "CONFIG_EXISTS"
	InternalError      = "INTERNAL_ERROR"
)

// Error represents a structured CLI error with a machine-readable code.
type Error struct {
	Code    string
	Message string
	Details map[string]any

	// cause is the wrapped error, if any (not serialized).
	cause error
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// Unwrap returns the underlying cause so errors.Is sees through the wrapper.
func (e *Error) Unwrap() error { return e.cause }

// New creates an Error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error that keeps err as its cause. The message is
// "<message>: <err>".
func Wrap(code string, err error, message string) *Error {
	return &Error{Code: code, Message: message + ": " + err.Error(), cause: err}
}

// WithDetails returns the error with the given details map attached.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// ExitCode returns 2 for InternalError, 1 for all others.
func (e *Error) ExitCode() int {
	if e.Code == InternalError {
		return 2 //nolint:mnd // exit code 2 for internal errors
	}
	return 1
}

// CodeOf returns the code of the first *Error in err's chain, or
// InternalError when there is none.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return InternalError
}

// SilentError signals an exit code without additional output.
// Used when results were already written to stdout.
type SilentError struct {
	Code int
}

// Error implements the error interface.
func (e *SilentError) Error() string { return "exit " + strconv.Itoa(e.Code) }
