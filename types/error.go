package types

import "fmt"

// ErrorCode represents a unified error code across the engine.
type ErrorCode string

// Validation and decode error codes
const (
	ErrValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrDecodeFailed     ErrorCode = "DECODE_FAILED"
	ErrSchemaVersion    ErrorCode = "SCHEMA_VERSION"
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"
)

// Graph engine error codes
const (
	ErrPolicyRejected  ErrorCode = "POLICY_REJECTED"
	ErrCycleDetected   ErrorCode = "CYCLE_DETECTED"
	ErrLastOrderedEdge ErrorCode = "LAST_ORDERED_EDGE"
	ErrNotFound        ErrorCode = "NOT_FOUND"
	ErrConditionEval   ErrorCode = "CONDITION_EVAL"
)

// Infrastructure error codes
const (
	ErrInternalError      ErrorCode = "INTERNAL_ERROR"
	ErrServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrRateLimited        ErrorCode = "RATE_LIMITED"
)

// Error represents a structured error with code, message, and metadata.
type Error struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"http_status,omitempty"`
	Retryable  bool      `json:"retryable"`
	Fields     []string  `json:"fields,omitempty"`
	Cause      error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewErrorf creates a new Error with a formatted message.
func NewErrorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithHTTPStatus sets the HTTP status code.
func (e *Error) WithHTTPStatus(status int) *Error {
	e.HTTPStatus = status
	return e
}

// WithFields records the violated field paths for validation diagnostics.
func (e *Error) WithFields(fields ...string) *Error {
	e.Fields = append(e.Fields, fields...)
	return e
}

// NewValidationError creates a VALIDATION_FAILED error listing every
// violated field.
func NewValidationError(message string, fields ...string) *Error {
	return &Error{Code: ErrValidationFailed, Message: message, Fields: fields}
}

// NewCycleError creates a CYCLE_DETECTED error naming the offending edge.
func NewCycleError(edgeID string) *Error {
	return NewErrorf(ErrCycleDetected, "prerequisite cycle detected involving edge %s", edgeID)
}

// AsError extracts a *Error from err, or wraps err as INTERNAL_ERROR.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return NewError(ErrInternalError, err.Error()).WithCause(err)
}

// IsErrorCode reports whether err is a *Error carrying the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	if e, ok := err.(*Error); ok {
		return e.Code == code
	}
	return false
}
