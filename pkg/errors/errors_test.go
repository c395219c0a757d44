package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jsupa/turbo-template/domain/user"
	"github.com/jsupa/turbo-template/infrastructure/persistence"

	"github.com/stretchr/testify/assert"
)

func TestFromDomainError(t *testing.T) {
	connErr := &persistence.ConnectionError{Op: "connect", Driver: "mongodb", Err: errors.New("refused")}

	tests := []struct {
		name string
		err  error
		code ErrorCode
	}{
		{"not found", user.NewUserNotFoundError("u1"), CodeUserNotFound},
		{"email exists", user.NewEmailAlreadyExistsError("a@b.c"), CodeEmailExists},
		{"invalid email", user.ErrInvalidEmail, CodeValidation},
		{"not connected", fmt.Errorf("find user: %w", persistence.ErrNotConnected), CodeConnection},
		{"connection error", connErr, CodeConnection},
		{"unknown", errors.New("boom"), CodeInternal},
		{"already mapped", BadRequest("bad"), CodeBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			appErr := FromDomainError(tc.err)
			assert.Equal(t, tc.code, appErr.Code)
			assert.True(t, Is(appErr, tc.code))
		})
	}

	assert.Nil(t, FromDomainError(nil))
}

func TestInternalCauseStaysOutOfMessage(t *testing.T) {
	appErr := FromDomainError(errors.New("dial tcp 10.0.0.1: secret"))
	assert.Equal(t, "internal server error", appErr.Message)
	assert.ErrorContains(t, appErr, "secret")
}
