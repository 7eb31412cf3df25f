// Package errors provides the structured error type used across zgl.
//
// Errors are classified by ErrorType so the command layer can decide how a
// failure is surfaced: detection problems are advisory and only logged,
// configuration errors from a user override abort the command, and engine
// errors are printed verbatim before exiting non-zero.
package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeEngine     ErrorType = "engine"
	ErrorTypeInternal   ErrorType = "internal"
)

// ZglError is a structured error type with context.
type ZglError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	FilePath    string
	Recoverable bool
}

// Error implements the error interface.
func (e *ZglError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *ZglError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *ZglError) Is(target error) bool {
	var t *ZglError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *ZglError) WithContext(key string, value interface{}) *ZglError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithFile records the file the error relates to.
func (e *ZglError) WithFile(path string) *ZglError {
	e.FilePath = path

	return e
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *ZglError {
	return &ZglError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *ZglError {
	return &ZglError{
		Type:        ErrorTypeIO,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewConfigError creates a configuration error. Configuration errors are
// never recoverable: a half-applied override must not reach the engine.
func NewConfigError(code, message string, cause error) *ZglError {
	return &ZglError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewEngineError creates an error reported by the bundling engine.
func NewEngineError(code, message string, cause error) *ZglError {
	return &ZglError{
		Type:        ErrorTypeEngine,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *ZglError {
	return &ZglError{
		Type:        ErrorTypeInternal,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var ze *ZglError
	if errors.As(err, &ze) {
		return ze.Recoverable
	}

	return false
}

// IsConfigError checks if an error is a fatal configuration error.
func IsConfigError(err error) bool {
	return hasType(err, ErrorTypeConfig)
}

// IsEngineError checks if an error was reported by the bundling engine.
func IsEngineError(err error) bool {
	return hasType(err, ErrorTypeEngine)
}

func hasType(err error, t ErrorType) bool {
	var ze *ZglError
	if errors.As(err, &ze) {
		return ze.Type == t
	}

	return false
}

// Logger interface for error logging.
type Logger interface {
	Error(ctx context.Context, err error, msg string, fields ...interface{})
	Warn(ctx context.Context, err error, msg string, fields ...interface{})
}

// ErrorHandler provides centralized error handling.
type ErrorHandler struct {
	logger Logger
}

// NewErrorHandler creates a new error handler.
func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle logs err at a level matching its type. Recoverable errors are
// warnings; everything else is an error.
func (h *ErrorHandler) Handle(ctx context.Context, err error) {
	if err == nil || h.logger == nil {
		return
	}

	var ze *ZglError
	if !errors.As(err, &ze) {
		h.logger.Error(ctx, err, "Unhandled error occurred")
		return
	}

	fields := []interface{}{"type", ze.Type, "code", ze.Code}
	if ze.FilePath != "" {
		fields = append(fields, "file", ze.FilePath)
	}

	switch {
	case ze.Recoverable:
		h.logger.Warn(ctx, err, "Recovered from error", fields...)
	case ze.Type == ErrorTypeConfig:
		h.logger.Error(ctx, err, "Configuration error", fields...)
	case ze.Type == ErrorTypeEngine:
		h.logger.Error(ctx, err, "Bundling engine failed", fields...)
	default:
		h.logger.Error(ctx, err, "Error occurred", fields...)
	}
}

// Common error codes.
const (
	ErrCodeManifestUnreadable = "ERR_MANIFEST_UNREADABLE"
	ErrCodeManifestInvalid    = "ERR_MANIFEST_INVALID"
	ErrCodeSourceDirMissing   = "ERR_SOURCE_DIR_MISSING"
	ErrCodeOverrideLoad       = "ERR_OVERRIDE_LOAD"
	ErrCodeOverrideInvalid    = "ERR_OVERRIDE_INVALID"
	ErrCodeSettingsInvalid    = "ERR_SETTINGS_INVALID"
	ErrCodeBuildFailed        = "ERR_BUILD_FAILED"
	ErrCodeServeFailed        = "ERR_SERVE_FAILED"
	ErrCodeInternalError      = "ERR_INTERNAL"
)
