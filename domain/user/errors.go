/*
Package user defines the user record, its validation rules and its repository contract.
*/
package user

import (
	"errors"
)

var (
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrInvalidName        = errors.New("name cannot be empty")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

func NewUserNotFoundError(key string) error {
	return &userDomainError{
		sentinel: ErrUserNotFound,
		message:  "user not found: " + key,
	}
}

func NewInvalidEmailError(email string) error {
	return &userDomainError{
		sentinel: ErrInvalidEmail,
		field:    "email",
		message:  "invalid email format: " + email,
	}
}

func NewInvalidNameError() error {
	return &userDomainError{
		sentinel: ErrInvalidName,
		field:    "name",
		message:  "name cannot be empty",
	}
}

func NewEmailAlreadyExistsError(email string) error {
	return &userDomainError{
		sentinel: ErrEmailAlreadyExists,
		field:    "email",
		message:  "email already exists: " + email,
	}
}

type userDomainError struct {
	sentinel error
	field    string
	message  string
}

func (e *userDomainError) Error() string { return e.message }
func (e *userDomainError) Unwrap() error { return e.sentinel }

// Field returns the offending field, if any.
func (e *userDomainError) Field() string { return e.field }
