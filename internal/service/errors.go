package service

import "fmt"

// ErrorCode classifies service failures for the HTTP layer.
type ErrorCode string

const (
	ErrInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	ErrNotFound        ErrorCode = "NOT_FOUND"
	ErrInternal        ErrorCode = "INTERNAL"
)

// Error is a structured service failure.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func invalidArgument(format string, args ...interface{}) *Error {
	return &Error{Code: ErrInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func notFound(message string, cause error) *Error {
	return &Error{Code: ErrNotFound, Message: message, Cause: cause}
}

func internal(message string, cause error) *Error {
	return &Error{Code: ErrInternal, Message: message, Cause: cause}
}
