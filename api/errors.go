// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for hioload-sdr library.

package api

import "fmt"

// Common errors used across the library.
var (
	ErrBadCapacity   = fmt.Errorf("capacity must be a power of two of at least one page")
	ErrBadFormat     = fmt.Errorf("unsupported sample format")
	ErrTimeout       = fmt.Errorf("operation timeout")
	ErrClosed        = fmt.Errorf("resource is closed")
	ErrNotFound      = fmt.Errorf("resource not found")
	ErrNotSupported  = fmt.Errorf("operation not supported")
	ErrAlreadyExists = fmt.Errorf("resource already exists")
	ErrStreamActive  = fmt.Errorf("stream is active")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
)

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
