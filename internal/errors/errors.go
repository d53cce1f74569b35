package errors

import (
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether err is an AppError carrying the given code
func HasCode(err error, code string) bool {
	return GetCode(err) == code
}

// Predefined error codes
const (
	CodeConfigInvalid  = "CONFIG_INVALID"
	CodeDatabaseError  = "DATABASE_ERROR"
	CodeParseError     = "PARSE_ERROR"
	CodeColumnNotFound = "COLUMN_NOT_FOUND"
	CodeKindMismatch   = "KIND_MISMATCH"
	CodeTypeMismatch   = "TYPE_MISMATCH"
	CodeNotFound       = "NOT_FOUND"
	CodeInvalidInput   = "INVALID_INPUT"
	CodeInternalError  = "INTERNAL_ERROR"
)

// Common error constructors

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string) *AppError {
	return New(CodeDatabaseError, message)
}

// ParseError reports a malformed input stream. Row is 1-based including the
// header; pass 0 when the failure is not tied to a single row.
func ParseError(row int, message string) *AppError {
	if row > 0 {
		return New(CodeParseError, fmt.Sprintf("row %d: %s", row, message))
	}
	return New(CodeParseError, message)
}

func ColumnNotFound(column string) *AppError {
	return New(CodeColumnNotFound, fmt.Sprintf("column %q not found", column))
}

func KindMismatch(column, wanted, got string) *AppError {
	return New(CodeKindMismatch, fmt.Sprintf("column %q is %s, expected %s", column, got, wanted))
}

func TypeMismatch(column, value string) *AppError {
	return New(CodeTypeMismatch, fmt.Sprintf("value %q cannot be coerced for numeric column %q", value, column))
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}
