package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies failures coming out of the API client and the pipeline
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeValidation  ErrorType = "validation"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeCancelled   ErrorType = "cancelled"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error is a typed error carrying the HTTP status and body when one exists
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Body    string
	Cause   error
}

func (e *Error) Error() string {
	if e.Code > 0 {
		return fmt.Sprintf("API error (%d): %s", e.Code, e.Body)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// UserMessage returns a short message suitable for the status line
func (e *Error) UserMessage() string {
	switch e.Type {
	case ErrorTypeAuth:
		return "Authentication failed. Please log in again."
	case ErrorTypeNetwork:
		return "Network error. Check your connection."
	case ErrorTypeRateLimit:
		return "Too many requests. Slow down and try again."
	case ErrorTypeCancelled:
		return "Stopped by user"
	default:
		return e.Error()
	}
}

// New creates a typed error without an HTTP status
func New(t ErrorType, message string) *Error {
	return &Error{Type: t, Message: message}
}

// Wrap creates a typed error around an underlying cause
func Wrap(t ErrorType, message string, cause error) *Error {
	return &Error{Type: t, Message: message, Cause: cause}
}

// FromStatus builds an error for a non-2xx response
func FromStatus(code int, body string) *Error {
	return &Error{
		Type:    TypeForStatus(code),
		Message: fmt.Sprintf("unexpected status %d", code),
		Code:    code,
		Body:    body,
	}
}

// TypeForStatus maps an HTTP status code onto an ErrorType
func TypeForStatus(code int) ErrorType {
	switch {
	case code == 401 || code == 403:
		return ErrorTypeAuth
	case code == 404:
		return ErrorTypeNotFound
	case code == 429:
		return ErrorTypeRateLimit
	case code == 400 || code == 422:
		return ErrorTypeValidation
	case code >= 500:
		return ErrorTypeServerError
	default:
		return ErrorTypeUnknown
	}
}

// TypeOf returns the ErrorType of err, or ErrorTypeUnknown
func TypeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// IsRetryable checks if an error type should be retried
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNetwork, ErrorTypeRateLimit, ErrorTypeServerError:
		return true
	default:
		return false
	}
}

// IsRetryableStatusCode checks if an HTTP status code indicates a retryable error
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0, 429:
		return true
	case 401, 403, 404:
		return false
	default:
		return statusCode >= 500
	}
}
