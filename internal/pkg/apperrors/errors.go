package apperrors

import "errors"

// Kind classifies an error by who can act on it
type Kind int

const (
	// KindStorage is a database or filesystem fault; details are logged, never shown
	KindStorage Kind = iota
	// KindUserInput is recoverable by the visitor correcting the submission
	KindUserInput
	// KindConfiguration needs an administrator (no current year, exhausted band)
	KindConfiguration
	// KindResolution is a lookup of a record that does not exist
	KindResolution
	// KindRetryable is a concurrency conflict; submitting again may succeed
	KindRetryable
)

func (k Kind) String() string {
	switch k {
	case KindUserInput:
		return "user_input"
	case KindConfiguration:
		return "configuration"
	case KindResolution:
		return "resolution"
	case KindRetryable:
		return "retryable"
	default:
		return "storage"
	}
}

// Common errors
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")
	ErrBadRequest       = errors.New("bad request")
	ErrStorage          = errors.New("storage failure")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
)

// Admission errors
var (
	ErrEmailAlreadyExists      = errors.New("email already exists")
	ErrClassNotFound           = errors.New("class not found")
	ErrPhotoUpload             = errors.New("photo upload failed")
	ErrNoCurrentAcademicYear   = errors.New("no current academic year")
	ErrIdentifierBandExhausted = errors.New("identifier band exhausted")
	ErrUnknownRole             = errors.New("unknown role")
	ErrAllocationConflict      = errors.New("concurrent allocation conflict")
)

// Student errors
var (
	ErrStudentNotFound      = errors.New("student not found")
	ErrAcademicYearNotFound = errors.New("academic year not found")
	ErrUserNotFound         = errors.New("user not found")
)

var sentinelKinds = []struct {
	err  error
	kind Kind
}{
	{ErrValidationFailed, KindUserInput},
	{ErrEmailAlreadyExists, KindUserInput},
	{ErrClassNotFound, KindUserInput},
	{ErrPhotoUpload, KindUserInput},
	{ErrInvalidCredentials, KindUserInput},
	{ErrBadRequest, KindUserInput},
	{ErrNoCurrentAcademicYear, KindConfiguration},
	{ErrIdentifierBandExhausted, KindConfiguration},
	{ErrUnknownRole, KindConfiguration},
	{ErrStudentNotFound, KindResolution},
	{ErrAcademicYearNotFound, KindResolution},
	{ErrUserNotFound, KindResolution},
	{ErrResourceNotFound, KindResolution},
	{ErrAllocationConflict, KindRetryable},
}

// CustomError represents application-specific errors with additional context.
// Message is safe to show to a visitor; Cause is the internal fault and is only logged.
type CustomError struct {
	Kind    Kind
	Err     error
	Cause   error
	Message string
	Fields  []string
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
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "unknown error"
}

// Unwrap exposes both the sentinel and the internal cause to errors.Is/As
func (e *CustomError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCause attaches the internal fault
func (e *CustomError) WithCause(cause error) *CustomError {
	e.Cause = cause
	return e
}

// NewCustomError creates a CustomError whose kind is derived from the sentinel
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Kind:    KindOf(err),
		Err:     err,
		Message: message,
	}
}

// NewUserInputError creates a rejection the visitor can fix, naming the failing fields
func NewUserInputError(sentinel error, message string, fields ...string) *CustomError {
	return &CustomError{
		Kind:    KindUserInput,
		Err:     sentinel,
		Message: message,
		Fields:  fields,
	}
}

// NewConfigurationError creates an error that points the visitor at an administrator
func NewConfigurationError(sentinel error, message string) *CustomError {
	return &CustomError{
		Kind:    KindConfiguration,
		Err:     sentinel,
		Message: message,
	}
}

// NewRetryableError creates a conflict error the visitor may resubmit after
func NewRetryableError(message string, cause error) *CustomError {
	return &CustomError{
		Kind:    KindRetryable,
		Err:     ErrAllocationConflict,
		Cause:   cause,
		Message: message,
	}
}

// NewStorageError wraps an internal fault behind a generic message
func NewStorageError(message string, cause error) *CustomError {
	return &CustomError{
		Kind:    KindStorage,
		Err:     ErrStorage,
		Cause:   cause,
		Message: message,
	}
}

// KindOf classifies any error. Unknown errors are storage faults.
func KindOf(err error) Kind {
	if err == nil {
		return KindStorage
	}
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	for _, sk := range sentinelKinds {
		if errors.Is(err, sk.err) {
			return sk.kind
		}
	}
	return KindStorage
}

// UserMessage returns the visitor-facing text for err, or fallback when err
// carries none or is a storage fault.
func UserMessage(err error, fallback string) string {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" && ce.Kind != KindStorage {
		return ce.Message
	}
	return fallback
}

// Is returns whether err matches target or any of errList
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
