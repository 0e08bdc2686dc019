package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Representation limits of the markup segmenter
	ErrInputOverflow ErrorCode = "INPUT_OVERFLOW"
	ErrValueOverflow ErrorCode = "VALUE_OVERFLOW"
	ErrBlockOverflow ErrorCode = "BLOCK_OVERFLOW"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Action errors
	ErrActionExecute ErrorCode = "ACTION_EXECUTE"

	// Output errors
	ErrFrontend   ErrorCode = "FRONTEND"
	ErrDumpFormat ErrorCode = "DUMP_FORMAT"
)

// ClubarError represents a structured error with code and details
type ClubarError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ClubarError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ClubarError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *ClubarError) Is(target error) bool {
	var targetErr *ClubarError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ClubarError with the given code and message
func New(code ErrorCode, message string) *ClubarError {
	return &ClubarError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ClubarError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ClubarError {
	return &ClubarError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a ClubarError
func Wrap(err error, code ErrorCode, message string) *ClubarError {
	if err == nil {
		return nil
	}
	return &ClubarError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ClubarError {
	if err == nil {
		return nil
	}
	return &ClubarError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *ClubarError) WithDetail(key string, value interface{}) *ClubarError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var clubarErr *ClubarError
	if errors.As(err, &clubarErr) {
		return clubarErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a ClubarError
func GetErrorCode(err error) ErrorCode {
	var clubarErr *ClubarError
	if errors.As(err, &clubarErr) {
		return clubarErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a ClubarError
func GetErrorDetails(err error) map[string]interface{} {
	var clubarErr *ClubarError
	if errors.As(err, &clubarErr) {
		return clubarErr.Details
	}
	return nil
}
