package errors

import "fmt"

// ErrorCode represents a Crib error code.
type ErrorCode string

const (
	ErrInvalidRequest  ErrorCode = "INVALID_REQUEST"   // 400
	ErrNotFound        ErrorCode = "NOT_FOUND"         // 404
	ErrFileNotFound    ErrorCode = "FILE_NOT_FOUND"    // 404
	ErrContentTooLarge ErrorCode = "CONTENT_TOO_LARGE" // 413
	ErrInvalidConfig   ErrorCode = "INVALID_CONFIG"    // 422
	ErrInternal        ErrorCode = "INTERNAL"          // 500
)

// CribError represents a structured error with code, status, and details.
type CribError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *CribError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *CribError {
	return &CribError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a cheatsheet cannot be found.
func NewNotFound(id string) *CribError {
	return &CribError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("cheatsheet not found: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewFileNotFound creates a 404 error for a missing import file.
func NewFileNotFound(path string) *CribError {
	return &CribError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewContentTooLarge creates a 413 error when cheatsheet content exceeds the size limit.
func NewContentTooLarge(max, actual int) *CribError {
	return &CribError{
		Code:    ErrContentTooLarge,
		Status:  413,
		Message: fmt.Sprintf("content exceeds maximum size: %d chars (max %d)", actual, max),
		Details: map[string]any{"max_chars": max, "actual_chars": actual},
	}
}

// NewInvalidConfig creates a 422 error for a style configuration that cannot be used.
func NewInvalidConfig(msg string) *CribError {
	return &CribError{
		Code:    ErrInvalidConfig,
		Status:  422,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *CribError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &CribError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a CribError with the given code.
func Is(err error, code ErrorCode) bool {
	if cErr, ok := err.(*CribError); ok {
		return cErr.Code == code
	}
	return false
}
