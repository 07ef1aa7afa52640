package apperrors

import "errors"

// Taxonomy roots. Every error returned by services wraps exactly one of these,
// and middleware.HandleAPIError maps them to HTTP responses.
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrPermissionDenied = errors.New("permission denied")
	ErrStorage          = errors.New("storage failure")
	ErrProvisioning     = errors.New("account provisioning failed")
)

// Authentication errors
var (
	ErrInvalidCredentials = &CustomError{Err: ErrUnauthorized, Message: "invalid credentials", Code: "invalid_credentials"}
	ErrTokenExpired       = &CustomError{Err: ErrUnauthorized, Message: "token expired", Code: "token_expired"}
	ErrTokenInvalid       = &CustomError{Err: ErrUnauthorized, Message: "invalid token", Code: "token_invalid"}
	ErrSessionNotFound    = &CustomError{Err: ErrUnauthorized, Message: "session not found", Code: "session_not_found"}
)

// Domain errors
var (
	ErrUserNotFound        = &CustomError{Err: ErrResourceNotFound, Message: "user not found"}
	ErrAdminNotFound       = &CustomError{Err: ErrResourceNotFound, Message: "admin not found"}
	ErrJobNotFound         = &CustomError{Err: ErrResourceNotFound, Message: "job not found"}
	ErrApplicationNotFound = &CustomError{Err: ErrResourceNotFound, Message: "job application not found"}
	ErrWorkshopNotFound    = &CustomError{Err: ErrResourceNotFound, Message: "workshop not found"}
	ErrActivityNotFound    = &CustomError{Err: ErrResourceNotFound, Message: "no activity found"}

	ErrEmailAlreadyExists = &CustomError{Err: ErrConflict, Message: "email already exists"}
	ErrAlreadyApplied     = &CustomError{Err: ErrConflict, Message: "you have already applied for this job"}

	ErrNameMismatch = &CustomError{Err: ErrValidationFailed, Message: "names are not matching the registered user"}
	ErrInvalidOTP   = &CustomError{Err: ErrValidationFailed, Message: "invalid or expired OTP"}
)

// NewValidationError creates a validation error with a caller-facing message
func NewValidationError(message string) error {
	return &CustomError{Err: ErrValidationFailed, Message: message}
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{Err: ErrResourceNotFound, Message: message}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{Err: ErrPermissionDenied, Message: message}
}

// NewStorageError wraps a file-system failure; the cause is kept for logs only
func NewStorageError(message string, cause error) error {
	return &CustomError{Err: errors.Join(ErrStorage, cause), Message: message}
}

// NewProvisioningError wraps a failure to create a local account for a federated identity
func NewProvisioningError(cause error) error {
	return &CustomError{Err: errors.Join(ErrProvisioning, cause), Message: "could not create an account for this login"}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
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

// Message returns the caller-facing message of the outermost CustomError in err's chain
func Message(err error) (string, bool) {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message, true
	}
	return "", false
}

// Code returns the machine-readable code of the outermost CustomError that has one
func Code(err error) string {
	for err != nil {
		var ce *CustomError
		if !errors.As(err, &ce) {
			return ""
		}
		if ce.Code != "" {
			return ce.Code
		}
		err = ce.Err
	}
	return ""
}
