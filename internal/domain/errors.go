package domain

import "errors"

// Sentinel errors shared by services and repositories. Controllers map them
// to HTTP status codes with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidInterval    = errors.New("start must not be after end")
	ErrQuotaExceeded      = errors.New("daily event limit reached")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUsernameImmutable  = errors.New("username cannot be changed once set")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrInvalidCode        = errors.New("invalid or expired code")
)
