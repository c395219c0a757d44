package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the persisted user record.
// Email is unique across all users; the storage engine enforces it.
type User struct {
	id        string
	email     Email
	name      string
	createdAt time.Time
	updatedAt time.Time
}

// NewUser creates a user with a fresh ID. Timestamps are assigned by the
// repository when the record is saved.
func NewUser(name string, email string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewInvalidNameError()
	}

	emailVO, err := NewEmail(email)
	if err != nil {
		return nil, err
	}

	return &User{
		id:    uuid.New().String(),
		email: *emailVO,
		name:  name,
	}, nil
}

// Rename changes the display name.
func (u *User) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return NewInvalidNameError()
	}
	u.name = name
	return nil
}

// Touch sets the system-managed timestamps. createdAt is only set once.
func (u *User) Touch(now time.Time) {
	if u.createdAt.IsZero() {
		u.createdAt = now
	}
	u.updatedAt = now
}

func (u *User) ID() string           { return u.id }
func (u *User) Email() Email         { return u.email }
func (u *User) Name() string         { return u.name }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// IsNew reports whether the user has never been saved.
func (u *User) IsNew() bool { return u.createdAt.IsZero() }

// Snapshot is the flat form of a user used by repositories.
type Snapshot struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Snapshot returns the flat form of u.
func (u *User) Snapshot() Snapshot {
	return Snapshot{
		ID:        u.id,
		Email:     u.email.Value(),
		Name:      u.name,
		CreatedAt: u.createdAt,
		UpdatedAt: u.updatedAt,
	}
}

// Rebuild restores a user from storage without validation.
// Only repositories should call it.
func Rebuild(s Snapshot) *User {
	return &User{
		id:        s.ID,
		email:     Email{value: s.Email},
		name:      s.Name,
		createdAt: s.CreatedAt,
		updatedAt: s.UpdatedAt,
	}
}
