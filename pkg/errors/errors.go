// Package errors provides typed errors for the application
package errors

import "errors"

// ErrorType represents the type of error
type ErrorType int

const (
	ErrorTypeValidation ErrorType = iota
	ErrorTypeNotFound
	ErrorTypeConflict
	ErrorTypeUnauthorized
	ErrorTypePermission
	ErrorTypeTooManyRequests
	ErrorTypeUnavailable
	ErrorTypeInternal
)

// String returns a short name of the error type, used as a metrics label
func (t ErrorType) String() string {
	switch t {
	case ErrorTypeValidation:
		return "validation"
	case ErrorTypeNotFound:
		return "not_found"
	case ErrorTypeConflict:
		return "conflict"
	case ErrorTypeUnauthorized:
		return "unauthorized"
	case ErrorTypePermission:
		return "permission"
	case ErrorTypeTooManyRequests:
		return "too_many_requests"
	case ErrorTypeUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// baseError is the base implementation for all error types
type baseError struct {
	msg   string
	cause error
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *baseError) Unwrap() error {
	return e.cause
}

// ValidationError represents a validation error
type ValidationError struct {
	baseError
}

// NewValidationError creates a new ValidationError
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{baseError{msg: msg}}
}

// NotFoundError represents a not found error
type NotFoundError struct {
	baseError
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(msg string) *NotFoundError {
	return &NotFoundError{baseError{msg: msg}}
}

// ConflictError represents a conflict error
type ConflictError struct {
	baseError
}

// NewConflictError creates a new ConflictError
func NewConflictError(msg string) *ConflictError {
	return &ConflictError{baseError{msg: msg}}
}

// UnauthorizedError represents an unauthorized error
type UnauthorizedError struct {
	baseError
}

// NewUnauthorizedError creates a new UnauthorizedError
func NewUnauthorizedError(msg string) *UnauthorizedError {
	return &UnauthorizedError{baseError{msg: msg}}
}

// PermissionError represents a permission error
type PermissionError struct {
	baseError
}

// NewPermissionError creates a new PermissionError
func NewPermissionError(msg string) *PermissionError {
	return &PermissionError{baseError{msg: msg}}
}

// TooManyRequestsError represents a throttled request
type TooManyRequestsError struct {
	baseError
}

// NewTooManyRequestsError creates a new TooManyRequestsError
func NewTooManyRequestsError(msg string) *TooManyRequestsError {
	return &TooManyRequestsError{baseError{msg: msg}}
}

// UnavailableError represents a failing external collaborator
type UnavailableError struct {
	baseError
}

// NewUnavailableError creates a new UnavailableError wrapping cause
func NewUnavailableError(msg string, cause error) *UnavailableError {
	return &UnavailableError{baseError{msg: msg, cause: cause}}
}

// InternalError represents an internal error
type InternalError struct {
	baseError
}

// NewInternalError creates a new InternalError
func NewInternalError(msg string) *InternalError {
	return &InternalError{baseError{msg: msg}}
}

// WrapInternalError creates a new InternalError wrapping cause
func WrapInternalError(msg string, cause error) *InternalError {
	return &InternalError{baseError{msg: msg, cause: cause}}
}

// IsValidationError checks if error is a ValidationError
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFoundError checks if error is a NotFoundError
func IsNotFoundError(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsConflictError checks if error is a ConflictError
func IsConflictError(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsUnauthorizedError checks if error is an UnauthorizedError
func IsUnauthorizedError(err error) bool {
	var target *UnauthorizedError
	return errors.As(err, &target)
}

// IsPermissionError checks if error is a PermissionError
func IsPermissionError(err error) bool {
	var target *PermissionError
	return errors.As(err, &target)
}

// IsTooManyRequestsError checks if error is a TooManyRequestsError
func IsTooManyRequestsError(err error) bool {
	var target *TooManyRequestsError
	return errors.As(err, &target)
}

// IsUnavailableError checks if error is an UnavailableError
func IsUnavailableError(err error) bool {
	var target *UnavailableError
	return errors.As(err, &target)
}

// IsInternalError checks if error is an InternalError
func IsInternalError(err error) bool {
	var target *InternalError
	return errors.As(err, &target)
}

// TypeOf classifies err, defaulting to ErrorTypeInternal
func TypeOf(err error) ErrorType {
	switch {
	case IsValidationError(err):
		return ErrorTypeValidation
	case IsNotFoundError(err):
		return ErrorTypeNotFound
	case IsConflictError(err):
		return ErrorTypeConflict
	case IsUnauthorizedError(err):
		return ErrorTypeUnauthorized
	case IsPermissionError(err):
		return ErrorTypePermission
	case IsTooManyRequestsError(err):
		return ErrorTypeTooManyRequests
	case IsUnavailableError(err):
		return ErrorTypeUnavailable
	default:
		return ErrorTypeInternal
	}
}
