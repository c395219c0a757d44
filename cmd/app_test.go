package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/jsupa/turbo-template/config"
	"github.com/jsupa/turbo-template/infrastructure/persistence"
	"github.com/jsupa/turbo-template/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type refusingDriver struct{ opened bool }

func (d *refusingDriver) Name() string { return "refusing" }

func (d *refusingDriver) Open(context.Context, string) error {
	d.opened = true
	return errors.New("connection refused")
}

func (d *refusingDriver) Close(context.Context) error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "turbo-template", Env: "test", Hostname: "localhost"},
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            "0",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Database: config.DatabaseConfig{URI: "memory://", EnsureSchema: true},
	}
}

func TestAppConnectsBeforeListening(t *testing.T) {
	driver := memory.NewDriver()
	app := NewBuilder(testConfig()).
		WithDatabase(driver, memory.NewUserRepository(driver)).
		Build()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ln, err := app.Start(ctx)
	require.NoError(t, err)
	assert.True(t, app.database.IsConnected())

	done := make(chan error, 1)
	go func() { done <- app.Serve(ctx, ln) }()

	resp, err := http.Get(fmt.Sprintf("http://%s/api/v1/health", ln.Addr()))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.False(t, app.database.IsConnected())
}

func TestAppDoesNotListenWhenConnectFails(t *testing.T) {
	driver := &refusingDriver{}
	app := NewBuilder(testConfig()).
		WithDatabase(driver, memory.NewUserRepository(memory.NewDriver())).
		Build()

	ln, err := app.Start(context.Background())
	require.Error(t, err)
	assert.Nil(t, ln)
	assert.True(t, driver.opened)
	assert.False(t, app.database.IsConnected())

	var connErr *persistence.ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, "connect", connErr.Op)
	assert.Equal(t, "refusing", connErr.Driver)
}
