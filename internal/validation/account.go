package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	// MinEmailLen and MaxEmailLen bound the normalized email length.
	MinEmailLen = 5
	MaxEmailLen = 255

	// MinPasswordLen is the shortest accepted password.
	MinPasswordLen = 8
	// MaxPasswordLen is bcrypt's input limit; longer passwords would be silently truncated.
	MaxPasswordLen = 72
)

// ErrInvalidEmail is returned for syntactically invalid email addresses.
var ErrInvalidEmail = errors.New("invalid email address")

// WeakPasswordError describes why a password was rejected.
type WeakPasswordError struct {
	Reason string
}

func (e *WeakPasswordError) Error() string {
	return "weak password: " + e.Reason
}

// NormalizeEmail trims surrounding whitespace and lowercases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks a normalized email address.
func ValidateEmail(email string) error {
	err := validation.Validate(email,
		validation.Required,
		validation.Length(MinEmailLen, MaxEmailLen),
		is.Email,
	)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidEmail, err.Error())
	}
	return nil
}

// ValidatePassword enforces the password strength policy: at least
// MinPasswordLen characters including an uppercase letter, a lowercase
// letter and a digit.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return &WeakPasswordError{Reason: fmt.Sprintf("must be at least %d characters long", MinPasswordLen)}
	}
	if len(password) > MaxPasswordLen {
		return &WeakPasswordError{Reason: fmt.Sprintf("must not exceed %d bytes", MaxPasswordLen)}
	}

	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}

	switch {
	case !upper:
		return &WeakPasswordError{Reason: "must contain an uppercase letter"}
	case !lower:
		return &WeakPasswordError{Reason: "must contain a lowercase letter"}
	case !digit:
		return &WeakPasswordError{Reason: "must contain a digit"}
	}
	return nil
}
