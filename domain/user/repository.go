package user

import (
	"context"
)

// DefaultListLimit and MaxListLimit bound List queries.
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// Repository User repository interface
type Repository interface {
	// EnsureSchema creates the users table or collection and the unique email index if missing.
	EnsureSchema(ctx context.Context) error

	// Save inserts a new user or updates an existing one and sets its timestamps.
	// Returns ErrEmailAlreadyExists when the email is taken by another user.
	Save(ctx context.Context, user *User) error

	// FindByID returns ErrUserNotFound when no user has the ID.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail looks the user up by normalized email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// List returns users newest first.
	List(ctx context.Context, limit int) ([]*User, error)
}

// ClampLimit applies the default and maximum list limits.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
