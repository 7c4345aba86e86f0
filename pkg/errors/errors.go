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

	// Configuration errors
	ErrConfigLoad    ErrorCode = "CONFIG_LOAD"
	ErrConfigParse   ErrorCode = "CONFIG_PARSE"
	ErrConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Installation errors
	ErrEntryNotFound ErrorCode = "ENTRY_NOT_FOUND"
	ErrSourceMissing ErrorCode = "SOURCE_MISSING"
	ErrDestConflict  ErrorCode = "DEST_CONFLICT"

	// FileSystem errors
	ErrFileNotFound  ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrFileCreate    ErrorCode = "FILE_CREATE"
	ErrFileWrite     ErrorCode = "FILE_WRITE"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrDirCreate     ErrorCode = "DIR_CREATE"
	ErrGitClone      ErrorCode = "GIT_CLONE"
)

// PotError represents a structured error with code and details
type PotError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *PotError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *PotError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *PotError) Is(target error) bool {
	var targetErr *PotError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new PotError with the given code and message
func New(code ErrorCode, message string) *PotError {
	return &PotError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new PotError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *PotError {
	return &PotError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a PotError
func Wrap(err error, code ErrorCode, message string) *PotError {
	if err == nil {
		return nil
	}
	return &PotError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *PotError {
	if err == nil {
		return nil
	}
	return &PotError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *PotError) WithDetail(key string, value interface{}) *PotError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var potErr *PotError
	if errors.As(err, &potErr) {
		return potErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a PotError
func GetErrorCode(err error) ErrorCode {
	var potErr *PotError
	if errors.As(err, &potErr) {
		return potErr.Code
	}
	return ErrUnknown
}
