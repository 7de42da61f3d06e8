package errors

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a failure for logging and exit-code mapping.
type ErrorCode int

const (
	ErrorCode_INTERNAL ErrorCode = iota + 1
	ErrorCode_INPUT_INVALID
	ErrorCode_CONFIG_INVALID
	ErrorCode_AI_REQUEST_FAILED
	ErrorCode_RESPONSE_INVALID
	ErrorCode_CACHE_FAILED
	ErrorCode_RENDER_FAILED
	ErrorCode_INTERRUPTED
)

// Process exit codes reported by the CLI.
const (
	ExitOK          = 0
	ExitInternal    = 1
	ExitUsage       = 2
	ExitConfig      = 3
	ExitAPI         = 4
	ExitValidation  = 5
	ExitRender      = 6
	ExitInterrupted = 130
)

// String returns the stable identifier logged for this code.
func (c ErrorCode) String() string {
	switch c {
	case ErrorCode_INTERNAL:
		return "INTERNAL"
	case ErrorCode_INPUT_INVALID:
		return "INPUT_INVALID"
	case ErrorCode_CONFIG_INVALID:
		return "CONFIG_INVALID"
	case ErrorCode_AI_REQUEST_FAILED:
		return "AI_REQUEST_FAILED"
	case ErrorCode_RESPONSE_INVALID:
		return "RESPONSE_INVALID"
	case ErrorCode_CACHE_FAILED:
		return "CACHE_FAILED"
	case ErrorCode_RENDER_FAILED:
		return "RENDER_FAILED"
	case ErrorCode_INTERRUPTED:
		return "INTERRUPTED"
	default:
		return "UNKNOWN"
	}
}

// ExitCode maps the code to the process exit status the CLI reports.
// Cache failures are non-fatal and never become an exit status on their
// own; they map to ExitInternal in case one ever escapes to the top level.
func (c ErrorCode) ExitCode() int {
	switch c {
	case ErrorCode_INPUT_INVALID:
		return ExitUsage
	case ErrorCode_CONFIG_INVALID:
		return ExitConfig
	case ErrorCode_AI_REQUEST_FAILED:
		return ExitAPI
	case ErrorCode_RESPONSE_INVALID:
		return ExitValidation
	case ErrorCode_RENDER_FAILED:
		return ExitRender
	case ErrorCode_INTERRUPTED:
		return ExitInterrupted
	default:
		return ExitInternal
	}
}

// AppError is the application error type carried across layers.
type AppError struct {
	Raw     error
	Code    ErrorCode
	Message string
	Details map[string]string
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// CodeOf extracts the ErrorCode from err, or ErrorCode_INTERNAL when err
// carries no AppError.
func CodeOf(err error) ErrorCode {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrorCode_INTERNAL
}

// ExitCodeFor maps any error to the process exit status for the CLI.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	return CodeOf(err).ExitCode()
}

// General Errors
func ErrInternal(err error) AppError {
	return AppError{
		Raw:     err,
		Code:    ErrorCode_INTERNAL,
		Message: "Unexpected error",
	}
}

func ErrInputInvalid(message string) AppError {
	return AppError{
		Code:    ErrorCode_INPUT_INVALID,
		Message: message,
	}
}

func ErrInterrupted() AppError {
	return AppError{
		Code:    ErrorCode_INTERRUPTED,
		Message: "Interrupted by user",
	}
}

// Configuration Errors
func ErrConfigInvalid(err error) AppError {
	return AppError{
		Raw:     err,
		Code:    ErrorCode_CONFIG_INVALID,
		Message: "Invalid configuration",
	}
}

// AI Errors
func ErrAIRequestFailed(err error) AppError {
	return AppError{
		Raw:     err,
		Code:    ErrorCode_AI_REQUEST_FAILED,
		Message: "AI request failed",
	}
}

func ErrResponseInvalid(err error) AppError {
	return AppError{
		Raw:     err,
		Code:    ErrorCode_RESPONSE_INVALID,
		Message: "AI response failed validation",
	}
}

// Cache Errors
func ErrCacheFailed(operation string, err error) AppError {
	return AppError{
		Raw:     err,
		Code:    ErrorCode_CACHE_FAILED,
		Message: fmt.Sprintf("Cache operation failed: %s", operation),
	}
}

// Report Errors
func ErrRenderFailed(err error) AppError {
	return AppError{
		Raw:     err,
		Code:    ErrorCode_RENDER_FAILED,
		Message: "Failed to render report",
	}
}
