// Package errors provides unified error handling for the pipeline engine.
// It implements structured error types with error codes, HTTP status mapping
// for the run server, and a fatal/recoverable split matching the engine's
// stop_on_error policy.
package errors

import (
	"fmt"
	"net/http"
)

// Error is the unified engine error type.
type Error struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error { return e.Cause }

// Fatal reports whether the error must halt pipeline construction regardless
// of the stop_on_error policy.
func (e *Error) Fatal() bool { return IsFatalCode(e.Code) }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new Error.
func New(code ErrorCode, message string, httpStatus int) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// --- Common Error Constructors ---

// ElementNotFound creates an Error for an unknown element identifier.
func ElementNotFound(id string) *Error {
	return &Error{
		Code: ErrCodeElementNotFound, Message: fmt.Sprintf("element %q is not registered", id),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"element": id},
	}
}

// MissingArgument creates an Error for a missing required constructor parameter.
func MissingArgument(element, param string) *Error {
	return &Error{
		Code: ErrCodeMissingArgument, Message: fmt.Sprintf("missing required argument %q for element %q", param, element),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"element": element, "argument": param},
	}
}

// InvalidPipeline creates an Error for a malformed pipeline configuration.
func InvalidPipeline(reason string) *Error {
	return &Error{
		Code: ErrCodeInvalidPipeline, Message: reason,
		HTTPStatus: http.StatusBadRequest,
	}
}

// CoercionFailed creates an Error for a record that could not be reshaped.
func CoercionFailed(item any, reason string) *Error {
	return &Error{
		Code: ErrCodeCoercionFailed, Message: fmt.Sprintf("cannot coerce record: %s", reason),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"item": fmt.Sprintf("%v", item)},
	}
}

// ElementFailed creates an Error for an element whose processing raised.
func ElementFailed(element string, cause error) *Error {
	return &Error{
		Code: ErrCodeElementFailed, Message: fmt.Sprintf("element %q failed", element),
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"element": element},
		Cause:      cause,
	}
}

// InvalidInput creates an Error for invalid input.
func InvalidInput(reason string) *Error {
	return &Error{
		Code: ErrCodeInvalidInput, Message: reason,
		HTTPStatus: http.StatusBadRequest,
	}
}

// Internal creates an Error for an unexpected internal failure.
func Internal(cause error) *Error {
	return &Error{
		Code: ErrCodeInternal, Message: "an unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}
