package domain

import "fmt"

// Error represents a client-visible error with a stable machine-readable
// kind and an associated HTTP status code.
type Error struct {
	Kind    string
	Message string
	Code    int
}

// Error returns the error message.
func (e *Error) Error() string {
	return e.Message
}

// NewError creates a new domain error with the given kind, message and code.
func NewError(kind, message string, code int) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Code:    code,
	}
}

// Common domain errors
var (
	ErrUnauthorized     = NewError("unauthorized", "authorization required", 401)
	ErrForbidden        = NewError("forbidden", "invalid credentials", 403)
	ErrCapacityExceeded = NewError("capacity_exceeded", "maximum concurrent connections reached", 503)
	ErrBadRequest       = NewError("bad_request", "missing required field", 400)
	ErrSessionNotFound  = NewError("session_not_found", "session not found", 404)
	ErrInternal         = NewError("internal_error", "internal server error", 500)
)

// NewSessionNotFoundError creates a session_not_found error naming the
// offending session ID.
func NewSessionNotFoundError(id string) *Error {
	return NewError("session_not_found", fmt.Sprintf("no active session with ID %s", id), 404)
}

// NewBadRequestError creates a bad_request error naming the missing field.
func NewBadRequestError(field string) *Error {
	return NewError("bad_request", fmt.Sprintf("missing required parameter: %s", field), 400)
}

// ToolNotFoundError indicates that a requested tool was not found.
type ToolNotFoundError struct {
	Name string
}

// Error returns the error message.
func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("tool not found: %s", e.Name)
}

// NewToolNotFoundError creates a new ToolNotFoundError.
func NewToolNotFoundError(name string) *ToolNotFoundError {
	return &ToolNotFoundError{Name: name}
}

// ToolExecutionError indicates that a tool ran but failed.
type ToolExecutionError struct {
	Name  string
	Cause error
}

// Error returns the error message.
func (e *ToolExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("tool execution failed: %s: %v", e.Name, e.Cause)
	}
	return fmt.Sprintf("tool execution failed: %s", e.Name)
}

// Unwrap returns the underlying cause.
func (e *ToolExecutionError) Unwrap() error {
	return e.Cause
}
