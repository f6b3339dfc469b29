package apperrors

import "errors"

// Common errors
var (
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
	ErrInvalidFilter    = errors.New("invalid filter")
)

// Drive errors
var (
	ErrDriveNotFound         = NewResourceNotFoundError("placement drive not found")
	ErrDriveClosed           = errors.New("placement drive is not accepting registrations")
	ErrDeadlineLocked        = errors.New("drive deadline cannot change once registrations exist")
	ErrDriveHasRegistrations = errors.New("drive has registrations and cannot be deleted")
)

// Registration errors
var (
	ErrRegistrationNotFound  = NewResourceNotFoundError("registration not found")
	ErrDuplicateRegistration = errors.New("student already registered for this drive")
	ErrNotEligible           = errors.New("student is not eligible for this drive")
)

// Sheet errors
var (
	ErrNoMatchingStudents = errors.New("no students match filters")
	ErrSheetGeneration    = errors.New("could not generate sheet")
)

// ErrRemoteUnavailable marks a failed network write or read; callers fall back to the local store.
var ErrRemoteUnavailable = errors.New("remote store unavailable")

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewValidationError wraps ErrValidationFailed with a message
func NewValidationError(message string) *CustomError {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// NewRemoteUnavailableError wraps a transport failure so it matches ErrRemoteUnavailable.
func NewRemoteUnavailableError(op string, cause error) error {
	return &CustomError{
		Err:     ErrRemoteUnavailable,
		Message: op + ": " + cause.Error(),
		Details: map[string]interface{}{"cause": cause},
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// DetailsOf returns the details attached to the first CustomError in the chain.
func DetailsOf(err error) map[string]interface{} {
	var custom *CustomError
	if errors.As(err, &custom) {
		return custom.Details
	}
	return nil
}
