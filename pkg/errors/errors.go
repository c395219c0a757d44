package errors

import (
	"errors"
	"fmt"

	"github.com/jsupa/turbo-template/domain/user"
	"github.com/jsupa/turbo-template/infrastructure/persistence"
)

// ErrorCode API-facing error code
type ErrorCode string

const (
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest     ErrorCode = "BAD_REQUEST"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeConflict       ErrorCode = "CONFLICT"
	CodeTooManyRequest ErrorCode = "TOO_MANY_REQUESTS"
	CodeValidation     ErrorCode = "VALIDATION_ERROR"
	CodeConnection     ErrorCode = "CONNECTION_ERROR"
	CodeUserNotFound   ErrorCode = "USER_NOT_FOUND"
	CodeEmailExists    ErrorCode = "EMAIL_EXISTS"
)

// AppError Application error carried to the API boundary
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New Create new error
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap Wrap error
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

func Validation(message string) *AppError {
	return New(CodeValidation, message)
}

// Is Check whether err carries the given code
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// FromDomainError maps domain and persistence errors onto application errors.
// Internal causes are kept in Err and never put into Message.
func FromDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var connErr *persistence.ConnectionError
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		return Wrap(err, CodeUserNotFound, "user not found")
	case errors.Is(err, user.ErrEmailAlreadyExists):
		return Wrap(err, CodeEmailExists, "email already exists")
	case errors.Is(err, user.ErrInvalidEmail), errors.Is(err, user.ErrInvalidName):
		return Wrap(err, CodeValidation, err.Error())
	case errors.Is(err, persistence.ErrNotConnected), errors.As(err, &connErr):
		return Wrap(err, CodeConnection, "database unavailable")
	default:
		return Wrap(err, CodeInternal, "internal server error")
	}
}
