package user

import (
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Email Value object - immutable, represents email address
type Email struct {
	value string
}

// NewEmail Create new Email value object. The address is trimmed and lower-cased.
func NewEmail(email string) (*Email, error) {
	email = NormalizeEmail(email)

	if !emailRegex.MatchString(email) {
		return nil, NewInvalidEmailError(email)
	}

	return &Email{value: email}, nil
}

// NormalizeEmail returns the canonical form used for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// Value Get email value
func (e Email) Value() string {
	return e.value
}

// Equals Compare if two Email value objects are equal
func (e Email) Equals(other Email) bool {
	return e.value == other.value
}

// String Implement Stringer interface
func (e Email) String() string {
	return e.value
}
