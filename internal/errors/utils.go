package errors

import (
	"errors"
)

// Wrap wraps an error with additional context, creating a ZglError if the input is not already one
func Wrap(err error, errType ErrorType, code, message string) *ZglError {
	if err == nil {
		return nil
	}

	// Preserve file and context of an existing ZglError
	var ze *ZglError
	if errors.As(err, &ze) {
		return &ZglError{
			Type:        errType,
			Code:        code,
			Message:     message,
			Cause:       ze,
			Context:     ze.Context,
			FilePath:    ze.FilePath,
			Recoverable: ze.Recoverable && errType != ErrorTypeConfig && errType != ErrorTypeEngine,
		}
	}

	return &ZglError{
		Type:        errType,
		Code:        code,
		Message:     message,
		Cause:       err,
		Recoverable: errType == ErrorTypeValidation || errType == ErrorTypeIO,
	}
}

// WrapConfig wraps an error as a fatal configuration error for file path.
func WrapConfig(err error, code, message, path string) *ZglError {
	ze := Wrap(err, ErrorTypeConfig, code, message)
	if ze != nil && path != "" {
		ze.FilePath = path
	}
	return ze
}

// WrapIO wraps an error as an I/O error
func WrapIO(err error, code, message string) *ZglError {
	return Wrap(err, ErrorTypeIO, code, message)
}

// GetType returns the type of err, or ErrorTypeInternal for foreign errors.
func GetType(err error) ErrorType {
	var ze *ZglError
	if errors.As(err, &ze) {
		return ze.Type
	}
	return ErrorTypeInternal
}

// As is errors.As, so callers importing this package need not import both.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Is is errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
