package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Pipeline build errors (fatal, always propagate)
const (
	// ErrCodeElementNotFound indicates the element identifier is not registered.
	ErrCodeElementNotFound ErrorCode = "ELEMENT_NOT_FOUND"
	// ErrCodeMissingArgument indicates a required constructor parameter was not supplied.
	ErrCodeMissingArgument ErrorCode = "MISSING_ARGUMENT"
	// ErrCodeInvalidPipeline indicates the pipeline configuration is malformed.
	ErrCodeInvalidPipeline ErrorCode = "INVALID_PIPELINE"
)

// Execution errors (recoverable per the pipeline's stop_on_error policy)
const (
	// ErrCodeCoercionFailed indicates a record could not be reshaped to an
	// element's declared input shape.
	ErrCodeCoercionFailed ErrorCode = "COERCION_FAILED"
	// ErrCodeElementFailed indicates an element's own processing raised.
	ErrCodeElementFailed ErrorCode = "ELEMENT_FAILED"
)

// Generic errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var fatalCodes = map[ErrorCode]bool{
	ErrCodeElementNotFound: true,
	ErrCodeMissingArgument: true,
	ErrCodeInvalidPipeline: true,
}

// IsFatalCode returns true if the error code indicates a build-time error
// that must always halt pipeline construction.
func IsFatalCode(code ErrorCode) bool {
	return fatalCodes[code]
}
