// Package validation holds the input checks run before any account is
// written. The functions are pure and safe for concurrent use.
package validation

import (
	"net/mail"
	"regexp"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// PasswordSymbols are the non-alphanumeric characters a password may contain.
const PasswordSymbols = "@$!%*#?&"

const (
	minPasswordLength = 8
	// bcrypt only looks at the first 72 bytes and refuses longer input.
	maxPasswordLength = 72
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)
	phonePattern    = regexp.MustCompile(`^[0-9]{10,15}$`)
)

// ValidatePassword requires 8 to 72 characters, one letter and one digit,
// drawn only from letters, digits and PasswordSymbols.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return common.ErrWeakPassword
	}
	var letter, digit bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			letter = true
		case r >= '0' && r <= '9':
			digit = true
		case isPasswordSymbol(r):
		default:
			return common.ErrWeakPassword
		}
	}
	if !letter || !digit {
		return common.ErrWeakPassword
	}
	return nil
}

func isPasswordSymbol(r rune) bool {
	for _, s := range PasswordSymbols {
		if r == s {
			return true
		}
	}
	return false
}

// ValidateUsername accepts 3-20 letters, digits or underscores.
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return common.ErrInvalidUsername
	}
	return nil
}

// ValidatePhoneNumber accepts 10-15 digits and nothing else.
func ValidatePhoneNumber(phone string) error {
	if !phonePattern.MatchString(phone) {
		return common.ErrInvalidPhoneNumber
	}
	return nil
}

// ValidateEmail accepts a bare address ("a@x.com"), not a display-name form.
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return common.ErrInvalidEmail
	}
	return nil
}

// ValidateRole accepts only the roles the service knows about.
func ValidateRole(role string) error {
	switch role {
	case common.DefaultRole, common.AdminRole:
		return nil
	}
	return common.ErrInvalidRole
}
