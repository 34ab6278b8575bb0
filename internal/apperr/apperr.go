package apperr

import "errors"

// Sentinel errors shared across services. Controllers translate these to HTTP
// status codes in exactly one place; everything below the controller layer
// works with errors.Is.
var (
	ErrDuplicateSkill       = errors.New("skill already exists")
	ErrInvalidSubmission    = errors.New("answer count does not match question count")
	ErrQuizGenerationFailed = errors.New("quiz generation failed")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrRequestNotFound      = errors.New("exchange request not found")
	ErrNotFound             = errors.New("record not found")
	ErrSelfRequest          = errors.New("cannot create an exchange request with yourself")
	ErrRequestNotCompleted  = errors.New("feedback requires a completed exchange request")
	ErrEmailTaken           = errors.New("email already in use")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrValidation           = errors.New("invalid input")
	ErrForbidden            = errors.New("operation not allowed")
	ErrServiceUnavailable   = errors.New("service temporarily unavailable")
)
