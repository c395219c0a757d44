package cmd

import (
	"net/http"

	"github.com/jsupa/turbo-template/api"
	"github.com/jsupa/turbo-template/api/health"
	apiuser "github.com/jsupa/turbo-template/api/user"
	userapp "github.com/jsupa/turbo-template/application/user"
	"github.com/jsupa/turbo-template/config"
	"github.com/jsupa/turbo-template/domain/user"
	"github.com/jsupa/turbo-template/infrastructure/persistence"
	"github.com/jsupa/turbo-template/pkg/logger"

	"go.uber.org/zap"
)

// AppBuilder builds an App with customizable components
type AppBuilder struct {
	cfg         *config.Config
	controllers []api.ControllerRegister
	driver      persistence.Driver
	userRepo    user.Repository
}

// NewBuilder creates a new AppBuilder
func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{cfg: cfg}
}

// WithController adds a controller to the app
func (b *AppBuilder) WithController(c api.ControllerRegister) *AppBuilder {
	b.controllers = append(b.controllers, c)
	return b
}

// WithDatabase overrides the driver and repository chosen from the database URI.
func (b *AppBuilder) WithDatabase(driver persistence.Driver, repo user.Repository) *AppBuilder {
	b.driver = driver
	b.userRepo = repo
	return b
}

// Build creates the App instance. It performs no I/O; the database is
// connected by App.Run.
func (b *AppBuilder) Build() *App {
	logger.Info("Building application",
		zap.String("app", b.cfg.App.Name),
		zap.String("version", b.cfg.App.Version),
		zap.String("env", b.cfg.App.Env))

	if b.driver == nil {
		b.driver, b.userRepo = NewDatabase(&b.cfg.Database)
	}

	manager := persistence.NewManager(b.cfg.Database.URI, b.driver, logger.Tagged("database/connection"))
	userService := userapp.NewApplicationService(b.userRepo)

	controllers := append([]api.ControllerRegister{
		health.NewController(b.cfg, manager),
		apiuser.NewController(userService),
	}, b.controllers...)

	router := api.NewRouter(b.cfg, controllers...)
	router.SetupRoutes()

	server := &http.Server{
		Addr:         b.cfg.Server.Addr(),
		Handler:      router.GetEngine(),
		ReadTimeout:  b.cfg.Server.ReadTimeout,
		WriteTimeout: b.cfg.Server.WriteTimeout,
	}

	return &App{
		config:   b.cfg,
		router:   router,
		server:   server,
		database: manager,
		userRepo: b.userRepo,
		log:      logger.Tagged("index"),
	}
}
