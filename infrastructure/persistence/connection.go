/*
Package persistence owns the lifecycle of the single database connection.

A Manager moves between two states, disconnected (initial) and connected.
Connect and Disconnect are idempotent: calling either in the state it would
produce is a logged no-op that performs no I/O. Driver failures are logged and
returned as *ConnectionError; the manager never retries.
*/
package persistence

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// ErrNotConnected is returned by drivers and repositories when a handle is
// requested while no connection is open.
var ErrNotConnected = errors.New("database not connected")

// Driver opens and closes the underlying database connection.
// Implementations own the driver-level handle between Open and Close.
type Driver interface {
	// Name identifies the backend in logs, e.g. "mongodb" or "mysql".
	Name() string
	Open(ctx context.Context, uri string) error
	Close(ctx context.Context) error
}

// Logger is the logging capability the manager needs.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Success(msg string, args ...any)
}

// ConnectionError reports a failed open or close of the database connection.
type ConnectionError struct {
	Op     string // "connect" or "disconnect"
	Driver string
	Target string // redacted URI
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s %s (%s): %v", e.Op, e.Driver, e.Target, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Manager guards a single database connection.
type Manager struct {
	mu        sync.Mutex
	connected bool

	target string
	driver Driver
	log    Logger
}

// NewManager creates a disconnected manager for target. The target is fixed
// for the lifetime of the manager.
func NewManager(target string, driver Driver, log Logger) *Manager {
	return &Manager{
		target: target,
		driver: driver,
		log:    log,
	}
}

// Connect opens the connection unless one is already open.
func (m *Manager) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		m.log.Info("Using existing database connection", m.driver.Name())
		return nil
	}

	if err := m.driver.Open(ctx, m.target); err != nil {
		m.log.Error("Failed to connect to database:", err)
		return &ConnectionError{Op: "connect", Driver: m.driver.Name(), Target: Redact(m.target), Err: err}
	}

	m.connected = true
	m.log.Success(fmt.Sprintf("Connected to %s: %s", m.driver.Name(), Redact(m.target)))
	return nil
}

// Disconnect closes the connection if one is open. When the driver fails to
// close, the manager stays connected.
func (m *Manager) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		m.log.Info("No active database connection to disconnect")
		return nil
	}

	if err := m.driver.Close(ctx); err != nil {
		m.log.Error("Failed to disconnect from database:", err)
		return &ConnectionError{Op: "disconnect", Driver: m.driver.Name(), Target: Redact(m.target), Err: err}
	}

	m.connected = false
	m.log.Info("Disconnected from " + m.driver.Name())
	return nil
}

// IsConnected reports whether the last successful lifecycle operation was a connect.
func (m *Manager) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// Target returns the connection URI with any password masked.
func (m *Manager) Target() string {
	return Redact(m.target)
}

// DriverName returns the name of the configured driver.
func (m *Manager) DriverName() string {
	return m.driver.Name()
}

// Redact masks the password of a URI. Multi-host seed lists such as
// mongodb://u:p@h1:27017,h2/db are not valid for url.Parse, so their userinfo
// is masked by hand.
func Redact(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return redactUserinfo(uri)
	}
	if u.User == nil {
		return uri
	}
	return u.Redacted()
}

// redactUserinfo replaces everything after the first ':' of the userinfo,
// which ends at the last '@' of the authority.
func redactUserinfo(uri string) string {
	i := strings.Index(uri, "://")
	if i < 0 {
		return uri
	}
	start := i + len("://")
	authority := uri[start:]
	if end := strings.IndexAny(authority, "/?#"); end >= 0 {
		authority = authority[:end]
	}
	at := strings.LastIndex(authority, "@")
	if at < 0 {
		return uri
	}
	colon := strings.Index(authority[:at], ":")
	if colon < 0 {
		return uri
	}
	return uri[:start+colon+1] + "xxxxx" + uri[start+at:]
}
