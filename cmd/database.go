package cmd

import (
	"net/url"
	"strings"

	"github.com/jsupa/turbo-template/config"
	"github.com/jsupa/turbo-template/domain/user"
	"github.com/jsupa/turbo-template/infrastructure/persistence"
	"github.com/jsupa/turbo-template/infrastructure/persistence/gormdb"
	"github.com/jsupa/turbo-template/infrastructure/persistence/memory"
	"github.com/jsupa/turbo-template/infrastructure/persistence/mongo"
)

// NewDatabase picks the driver and user repository matching the URI scheme.
// The URI is not validated here: anything that is not a SQL or memory URI goes
// to the MongoDB driver, so malformed URIs fail on connect.
func NewDatabase(cfg *config.DatabaseConfig) (persistence.Driver, user.Repository) {
	scheme := uriScheme(cfg.URI)

	switch {
	case gormdb.Supports(scheme):
		driver := gormdb.NewDriver(scheme, gormdb.Config{
			LogLevel:        cfg.LogLevel,
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
		})
		return driver, gormdb.NewUserRepository(driver)
	case scheme == "memory":
		driver := memory.NewDriver()
		return driver, memory.NewUserRepository(driver)
	default:
		driver := mongo.NewDriver(cfg.ConnectTimeout)
		return driver, mongo.NewUserRepository(driver)
	}
}

func uriScheme(uri string) string {
	if u, err := url.Parse(uri); err == nil && u.Scheme != "" {
		return strings.ToLower(u.Scheme)
	}
	if i := strings.Index(uri, "://"); i > 0 {
		return strings.ToLower(uri[:i])
	}
	return ""
}
