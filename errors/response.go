package errors

import (
	stderrors "errors"
)

// ErrorResponse is the JSON structure returned to run-server clients.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody contains the error details sent to clients.
type ErrorBody struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ToResponse converts an Error to an ErrorResponse for JSON serialization.
func (e *Error) ToResponse() ErrorResponse {
	return ErrorResponse{
		Error: ErrorBody{
			Code:    e.Code,
			Message: e.Message,
			Details: e.Details,
		},
	}
}

// As converts an error to an *Error if possible.
func As(err error) (*Error, bool) {
	var engineErr *Error
	if stderrors.As(err, &engineErr) {
		return engineErr, true
	}
	return nil, false
}

// Is reports whether err carries the given engine error code.
func Is(err error, code ErrorCode) bool {
	e, ok := As(err)
	return ok && e.Code == code
}
