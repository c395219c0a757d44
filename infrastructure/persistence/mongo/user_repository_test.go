package mongo

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jsupa/turbo-template/domain/user"
	"github.com/jsupa/turbo-template/infrastructure/persistence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startMongo runs a throwaway mongod and returns its host:port.
func startMongo(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping MongoDB container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start mongo container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "27017")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}
	return fmt.Sprintf("%s:%s", host, port.Port())
}

// openRepository connects a manager to a fresh database on addr.
func openRepository(t *testing.T, addr string) (*persistence.Manager, *Driver, *UserRepository) {
	t.Helper()
	name := "turbo_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	uri := fmt.Sprintf("mongodb://%s/%s?directConnection=true", addr, name)

	d := NewDriver(10 * time.Second)
	m := persistence.NewManager(uri, d, nopLogger{})
	require.NoError(t, m.Connect(context.Background()))
	t.Cleanup(func() {
		if db, err := d.Database(); err == nil {
			_ = db.Drop(context.Background())
		}
		_ = m.Disconnect(context.Background())
	})

	repo := NewUserRepository(d)
	require.NoError(t, repo.EnsureSchema(context.Background()))
	return m, d, repo
}

func TestUserRepositoryWithServer(t *testing.T) {
	addr := startMongo(t)
	ctx := context.Background()

	t.Run("EnsureSchemaCreatesUniqueEmailIndex", func(t *testing.T) {
		_, d, repo := openRepository(t, addr)
		require.NoError(t, repo.EnsureSchema(ctx))

		db, err := d.Database()
		require.NoError(t, err)
		specs, err := db.Collection(usersCollection).Indexes().ListSpecifications(ctx)
		require.NoError(t, err)

		var found bool
		for _, spec := range specs {
			if spec.Name == "email_1" {
				found = true
				require.NotNil(t, spec.Unique)
				assert.True(t, *spec.Unique)
			}
		}
		assert.True(t, found, "email_1 index missing")
	})

	t.Run("SaveAndFind", func(t *testing.T) {
		_, _, repo := openRepository(t, addr)

		u, err := user.NewUser("Ada", "ada@example.com")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, u))
		assert.False(t, u.IsNew())

		got, err := repo.FindByEmail(ctx, " ADA@example.com ")
		require.NoError(t, err)
		assert.Equal(t, u.ID(), got.ID())
		assert.Equal(t, u.CreatedAt(), got.CreatedAt())

		require.NoError(t, u.Rename("Ada Lovelace"))
		require.NoError(t, repo.Save(ctx, u))
		got, err = repo.FindByID(ctx, u.ID())
		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", got.Name())

		_, err = repo.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		_, _, repo := openRepository(t, addr)

		first, err := user.NewUser("Ada", "ada@example.com")
		require.NoError(t, err)
		second, err := user.NewUser("Other", "ada@example.com")
		require.NoError(t, err)

		require.NoError(t, repo.Save(ctx, first))
		assert.ErrorIs(t, repo.Save(ctx, second), user.ErrEmailAlreadyExists)
		assert.True(t, second.IsNew())
	})

	t.Run("ListNewestFirst", func(t *testing.T) {
		_, _, repo := openRepository(t, addr)

		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		tick := 0
		repo.now = func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Minute)
		}

		for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
			u, err := user.NewUser("User", email)
			require.NoError(t, err)
			require.NoError(t, repo.Save(ctx, u))
		}

		users, err := repo.List(ctx, 0)
		require.NoError(t, err)
		require.Len(t, users, 3)
		assert.Equal(t, "c@example.com", users[0].Email().Value())
		assert.Equal(t, "a@example.com", users[2].Email().Value())

		users, err = repo.List(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("DisconnectReleasesClient", func(t *testing.T) {
		m, d, _ := openRepository(t, addr)
		require.NoError(t, m.Disconnect(ctx))
		assert.False(t, m.IsConnected())

		_, err := d.Database()
		assert.ErrorIs(t, err, persistence.ErrNotConnected)
	})
}
