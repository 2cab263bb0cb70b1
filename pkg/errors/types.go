// Package errors provides the structured error type returned by the sprite
// editing core. Every error is recoverable: callers inspect the code and
// decide how to surface it.
package errors

import (
	"fmt"
)

// ErrorCode identifies a specific error condition.
type ErrorCode string

const (
	// Frame and pixel addressing
	ErrCodeOutOfRange ErrorCode = "OUT_OF_RANGE_INDEX"

	// Edit protocol
	ErrCodeNoActiveEdit ErrorCode = "NO_ACTIVE_EDIT"

	// Playback
	ErrCodeAnimationRunning ErrorCode = "ANIMATION_RUNNING"

	// Project data
	ErrCodeMalformedProject  ErrorCode = "MALFORMED_PROJECT"
	ErrCodeInvalidCanvasSize ErrorCode = "INVALID_CANVAS_SIZE"
	ErrCodeNoSavePath        ErrorCode = "NO_SAVE_PATH"

	// General
	ErrCodeIO ErrorCode = "IO"
)

// Error is a coded error with optional details and cause.
type Error struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new Error
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an Error
func Wrap(err error, code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is reports whether err, or any error it wraps, carries the given code.
func Is(err error, code ErrorCode) bool {
	return GetCode(err) == code && err != nil
}

// GetCode extracts the first code found along the wrap chain of err.
func GetCode(err error) ErrorCode {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Code
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = unwrapper.Unwrap()
	}
	return ""
}
