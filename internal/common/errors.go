// Package common defines shared constants and sentinel errors used across
// client and server layers of gophauth. Callers should use errors.Is to
// match these values and KindOf to classify them.
package common

import "errors"

// Kind classifies a caller-facing error.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation errors are actionable and reported verbatim.
	KindValidation
	// KindConflict errors report a taken email or username verbatim.
	KindConflict
	// KindAuthentication errors carry a deliberately generic message.
	KindAuthentication
	// KindIntegrity errors signal a data problem an operator must fix.
	KindIntegrity
	// KindInfrastructure errors hide store and connection failures.
	KindInfrastructure
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuthentication:
		return "authentication"
	case KindIntegrity:
		return "integrity"
	case KindInfrastructure:
		return "infrastructure"
	default:
		return "unknown"
	}
}

// Error is a sanitised, caller-safe error. It never wraps an underlying
// cause; causes are logged where the error is produced.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// KindOf reports the Kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Validation errors.
	ErrWeakPassword       = newError(KindValidation, "password must be at least 8 characters long and contain at least one letter and one number")
	ErrInvalidUsername    = newError(KindValidation, "username must be 3-20 characters long and contain only letters, numbers and underscores")
	ErrInvalidPhoneNumber = newError(KindValidation, "phone number must contain 10-15 digits")
	ErrInvalidEmail       = newError(KindValidation, "invalid email address")
	ErrInvalidRole        = newError(KindValidation, "unknown role")

	// Conflict errors.
	ErrEmailTaken    = newError(KindConflict, "email is already registered")
	ErrUsernameTaken = newError(KindConflict, "username is already taken")

	// Authentication errors.
	ErrInvalidCredentials       = newError(KindAuthentication, "invalid credentials")
	ErrInvalidRefreshToken      = newError(KindAuthentication, "invalid refresh token")
	ErrInvalidResetToken        = newError(KindAuthentication, "invalid or expired password reset token")
	ErrInvalidVerificationToken = newError(KindAuthentication, "invalid or expired verification token")

	// Integrity errors.
	ErrAmbiguousIdentifier = newError(KindIntegrity, "identifier matches more than one account")

	// Infrastructure errors.
	ErrLookupFailed       = newError(KindInfrastructure, "account lookup failed")
	ErrRegistrationFailed = newError(KindInfrastructure, "registration failed")
	ErrRequestFailed      = newError(KindInfrastructure, "request could not be processed")
	ErrorInternal         = newError(KindInfrastructure, "internal error")
)
