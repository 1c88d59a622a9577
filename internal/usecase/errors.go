package usecase

import "errors"

var (
	ErrEventNotFound        = errors.New("event not found")
	ErrNoSeatMap            = errors.New("no seat map is open")
	ErrSubmissionInProgress = errors.New("a booking submission is already in progress")
	ErrAttemptNotFound      = errors.New("booking attempt not found")
	ErrNoTicket             = errors.New("no ticket to show")
)

// ValidationError carries the message shown next to the form and, when the
// whole form is checked, a message per field.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string { return e.Message }

type AuthErrorKind string

const (
	AuthInvalidCredentials AuthErrorKind = "invalid_credentials"
	AuthAlreadyRegistered  AuthErrorKind = "already_registered"
	AuthProvider           AuthErrorKind = "provider"
	AuthUnexpected         AuthErrorKind = "unexpected"
)

// AuthError is an identity failure already translated for the visitor.
type AuthError struct {
	Kind    AuthErrorKind
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return e.Err }
