package user

import (
	"context"
	"testing"

	"github.com/jsupa/turbo-template/domain/user"
	"github.com/jsupa/turbo-template/infrastructure/persistence"
	"github.com/jsupa/turbo-template/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*ApplicationService, *memory.Driver) {
	t.Helper()
	d := memory.NewDriver()
	require.NoError(t, d.Open(context.Background(), "memory://"))
	return NewApplicationService(memory.NewUserRepository(d)), d
}

func TestCreateAndGetUser(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, CreateUserRequest{Name: "Ada", Email: "ADA@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", created.Email)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := svc.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	byEmail, err := svc.GetUserByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, CreateUserRequest{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, CreateUserRequest{Name: "Other", Email: " Ada@Example.com"})
	assert.ErrorIs(t, err, user.ErrEmailAlreadyExists)
}

func TestCreateUserValidation(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{Name: " ", Email: "ada@example.com"})
	assert.ErrorIs(t, err, user.ErrInvalidName)
}

func TestRenameUser(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, CreateUserRequest{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	renamed, err := svc.RenameUser(ctx, created.ID, UpdateUserNameRequest{Name: "Ada Lovelace"})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", renamed.Name)
	assert.Equal(t, created.CreatedAt, renamed.CreatedAt)

	_, err = svc.RenameUser(ctx, "missing", UpdateUserNameRequest{Name: "X"})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestListUsers(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com"} {
		_, err := svc.CreateUser(ctx, CreateUserRequest{Name: "User", Email: email})
		require.NoError(t, err)
	}

	users, err := svc.ListUsers(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestServiceWhileDisconnected(t *testing.T) {
	svc, d := newService(t)
	require.NoError(t, d.Close(context.Background()))

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{Name: "Ada", Email: "ada@example.com"})
	assert.ErrorIs(t, err, persistence.ErrNotConnected)
}
