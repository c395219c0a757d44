package api

import (
	"net/http"

	"github.com/jsupa/turbo-template/api/middleware"
	"github.com/jsupa/turbo-template/config"

	"github.com/gin-gonic/gin"
)

// ControllerRegister is implemented by every controller mounted under /api/v1.
type ControllerRegister interface {
	RegisterRoutes(router *gin.RouterGroup)
}

// Router Route configuration
type Router struct {
	engine      *gin.Engine
	config      *config.Config
	controllers []ControllerRegister
}

// NewRouter Create route configuration
func NewRouter(cfg *config.Config, controllers ...ControllerRegister) *Router {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Order matters: request ID first so every later layer can log it.
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.RecoveryMiddleware())
	engine.Use(middleware.LoggingMiddleware())
	engine.Use(middleware.CORSMiddleware(&cfg.CORS))
	engine.Use(middleware.RateLimitMiddleware(&cfg.Server.RateLimit))

	return &Router{
		engine:      engine,
		config:      cfg,
		controllers: controllers,
	}
}

// SetupRoutes Set up all routes
func (r *Router) SetupRoutes() {
	apiGroup := r.engine.Group("/api/v1")
	for _, c := range r.controllers {
		c.RegisterRoutes(apiGroup)
	}

	r.engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":     r.config.App.Name,
			"version":  r.config.App.Version,
			"env":      r.config.App.Env,
			"hostname": r.config.App.Hostname,
			"services": gin.H{
				"auth_api_port":      r.config.Services.AuthAPIPort,
				"dashboard_api_port": r.config.Services.DashboardAPIPort,
			},
			"health": "/api/v1/health",
		})
	})
}

// GetEngine Get Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
