package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a metbands error code.
type ErrorCode string

const (
	ErrInvalidRequest    ErrorCode = "INVALID_REQUEST"     // bad flags, config or paths
	ErrFileNotFound      ErrorCode = "FILE_NOT_FOUND"      // input file missing
	ErrManifestInvalid   ErrorCode = "MANIFEST_INVALID"    // manifest unreadable or malformed
	ErrSubjectLoadFailed ErrorCode = "SUBJECT_LOAD_FAILED" // per-subject, never fatal to the run
	ErrReportFailed      ErrorCode = "REPORT_FAILED"       // a report sink could not be written
	ErrCancelled         ErrorCode = "CANCELLED"
	ErrInternal          ErrorCode = "INTERNAL"
)

// AppError represents a structured error with code, message, and details.
type AppError struct {
	Code    ErrorCode
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewInvalidRequest creates an error for invalid flags, config or paths.
func NewInvalidRequest(msg string) *AppError {
	return &AppError{
		Code:    ErrInvalidRequest,
		Message: msg,
	}
}

// NewFileNotFound creates an error for a missing input file.
func NewFileNotFound(path string) *AppError {
	return &AppError{
		Code:    ErrFileNotFound,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewManifestInvalid creates an error for a manifest that cannot be used.
func NewManifestInvalid(path string, err error) *AppError {
	return &AppError{
		Code:    ErrManifestInvalid,
		Message: fmt.Sprintf("manifest %s: %v", path, err),
		Details: map[string]any{"path": path},
		Err:     err,
	}
}

// NewSubjectLoadFailed creates an error attributed to one subject. It never
// aborts sibling subjects.
func NewSubjectLoadFailed(subjectID string, err error) *AppError {
	return &AppError{
		Code:    ErrSubjectLoadFailed,
		Message: fmt.Sprintf("subject %s: %v", subjectID, err),
		Details: map[string]any{"subject_id": subjectID},
		Err:     err,
	}
}

// NewReportFailed creates an error for a report format that could not be written.
func NewReportFailed(format string, err error) *AppError {
	return &AppError{
		Code:    ErrReportFailed,
		Message: fmt.Sprintf("write %s report: %v", format, err),
		Details: map[string]any{"format": format},
		Err:     err,
	}
}

// NewCancelled creates an error for work skipped due to cancellation.
func NewCancelled(operation string) *AppError {
	return &AppError{
		Code:    ErrCancelled,
		Message: fmt.Sprintf("%s cancelled", operation),
		Details: map[string]any{"operation": operation},
	}
}

// NewInternal creates an error for unexpected internal failures.
func NewInternal(err error) *AppError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &AppError{
		Code:    ErrInternal,
		Message: msg,
		Err:     err,
	}
}

// Is checks if err (or anything it wraps) is an AppError with the given code.
func Is(err error, code ErrorCode) bool {
	for err != nil {
		var appErr *AppError
		if !stderrors.As(err, &appErr) {
			return false
		}
		if appErr.Code == code {
			return true
		}
		err = appErr.Err
	}
	return false
}

// CodeOf returns the code of the outermost AppError in err's chain, or
// ErrInternal when there is none.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}
