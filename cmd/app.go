package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/jsupa/turbo-template/api"
	"github.com/jsupa/turbo-template/config"
	"github.com/jsupa/turbo-template/domain/user"
	"github.com/jsupa/turbo-template/infrastructure/persistence"

	"github.com/gin-gonic/gin"
)

// Database is the lifecycle the App drives around the HTTP listener.
type Database interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	IsConnected() bool
}

// App wires the HTTP server to the database connection.
type App struct {
	config   *config.Config
	router   *api.Router
	server   *http.Server
	database Database
	userRepo user.Repository
	log      persistence.Logger
}

// Run connects to the database, then serves HTTP until ctx is cancelled,
// then shuts the server down and disconnects. The listener is never opened
// when the connect fails.
func (a *App) Run(ctx context.Context) error {
	ln, err := a.Start(ctx)
	if err != nil {
		return err
	}
	return a.Serve(ctx, ln)
}

// Start connects to the database and binds the listener.
func (a *App) Start(ctx context.Context) (net.Listener, error) {
	if err := a.database.Connect(ctx); err != nil {
		return nil, err
	}

	if a.config.Database.EnsureSchema {
		if err := a.userRepo.EnsureSchema(ctx); err != nil {
			a.log.Error("Failed to ensure database schema:", err)
			a.disconnect()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
	}

	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		a.log.Error("Failed to bind listener:", err)
		a.disconnect()
		return nil, fmt.Errorf("listen on %s: %w", a.server.Addr, err)
	}
	return ln, nil
}

// Serve accepts connections on ln until ctx is cancelled or the server fails.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Serve(ln)
	}()

	a.log.Success(fmt.Sprintf("Server is running at http://%s:%s", a.config.App.Hostname, a.config.Server.Port))

	var serveErr error
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = err
		}
	case <-ctx.Done():
		a.log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.log.Error("Server shutdown failed:", err)
			serveErr = err
		}
	}

	if err := a.disconnect(); err != nil && serveErr == nil {
		serveErr = err
	}
	a.log.Info("Server stopped")
	return serveErr
}

func (a *App) disconnect() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()
	return a.database.Disconnect(ctx)
}

// GetServer Get the gin engine (used by tests)
func (a *App) GetServer() *gin.Engine {
	return a.router.GetEngine()
}
