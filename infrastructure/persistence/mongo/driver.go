// Package mongo is the MongoDB persistence backend, selected by mongodb:// and mongodb+srv:// URIs.
package mongo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jsupa/turbo-template/infrastructure/persistence"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.mongodb.org/mongo-driver/v2/x/mongo/driver/connstring"
)

// DefaultDatabase is used when the URI names no database.
const DefaultDatabase = "test"

// Driver implements persistence.Driver on top of a mongo.Client.
type Driver struct {
	connectTimeout time.Duration

	mu       sync.RWMutex
	client   *mongo.Client
	database string
}

// NewDriver creates a driver. A zero connectTimeout keeps the client defaults.
func NewDriver(connectTimeout time.Duration) *Driver {
	return &Driver{connectTimeout: connectTimeout}
}

// Supports reports whether scheme is handled by this package.
func Supports(scheme string) bool {
	return scheme == "mongodb" || scheme == "mongodb+srv"
}

func (d *Driver) Name() string { return "mongodb" }

// Open creates the client and waits until the primary answers a ping.
// mongo.Connect alone does no network I/O.
func (d *Driver) Open(ctx context.Context, uri string) error {
	database, err := DatabaseName(uri)
	if err != nil {
		return err
	}

	opts := options.Client().ApplyURI(uri)
	if d.connectTimeout > 0 {
		opts.SetConnectTimeout(d.connectTimeout).SetServerSelectionTimeout(d.connectTimeout)
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return fmt.Errorf("failed to create mongodb client: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("failed to ping mongodb: %w", err)
	}

	d.mu.Lock()
	d.client = client
	d.database = database
	d.mu.Unlock()
	return nil
}

func (d *Driver) Close(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.client == nil {
		return persistence.ErrNotConnected
	}
	if err := d.client.Disconnect(ctx); err != nil {
		return err
	}
	d.client = nil
	return nil
}

// Database returns the database named by the connection URI.
func (d *Driver) Database() (*mongo.Database, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.client == nil {
		return nil, persistence.ErrNotConnected
	}
	return d.client.Database(d.database), nil
}

// DatabaseName extracts the database from a connection URI.
func DatabaseName(uri string) (string, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return "", fmt.Errorf("invalid mongodb uri: %w", err)
	}
	if cs.Database == "" {
		return DefaultDatabase, nil
	}
	return cs.Database, nil
}

var _ persistence.Driver = (*Driver)(nil)
