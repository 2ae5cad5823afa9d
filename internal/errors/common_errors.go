package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeDataUnavailable ErrorType = "DATA_UNAVAILABLE"
	ErrTypeNetwork         ErrorType = "NETWORK"
	ErrTypeParsing         ErrorType = "PARSING"
	ErrTypeStorage         ErrorType = "STORAGE"
	ErrTypeValidation      ErrorType = "VALIDATION"
	ErrTypeNotFound        ErrorType = "NOT_FOUND"
	ErrTypeConfig          ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another AppError of the same type, so a bare
// &AppError{Type: ErrTypeNotFound} works as a target for errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Type == e.Type && t.Message == "" && t.Cause == nil
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Type markers for errors.Is
var (
	ErrDataUnavailable = &AppError{Type: ErrTypeDataUnavailable}
	ErrAppNotFound     = &AppError{Type: ErrTypeNotFound}
	ErrAppValidation   = &AppError{Type: ErrTypeValidation}
)

// NewDataUnavailableError reports that a whole resource could not be fetched
// or parsed. No partial data accompanies it.
func NewDataUnavailableError(resource string, cause error) *AppError {
	return NewAppError(ErrTypeDataUnavailable, fmt.Sprintf("%s unavailable", resource), cause).
		WithContext("resource", resource)
}

// NewNetworkError creates a network-related error
func NewNetworkError(message string, cause error) *AppError {
	return NewAppError(ErrTypeNetwork, message, cause)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// TypeOf returns the ErrorType of the first AppError in err's chain
func TypeOf(err error) (ErrorType, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type, true
	}
	return "", false
}
