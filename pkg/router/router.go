package router

import (
	"message-board/backend/internal/api"
	"message-board/backend/pkg/config"
	"message-board/backend/pkg/di"
	"message-board/backend/pkg/errors"
	"message-board/backend/pkg/logger"
	"message-board/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Router is the main router for the application
type Router struct {
	Engine      *gin.Engine
	Container   *di.Container
	Logger      *logger.Logger
	Config      *config.Config
	RateLimiter *middleware.RateLimiter
}

// New creates a router with the global middleware chain installed
func New(container *di.Container) (*Router, error) {
	logger.SetGlobal(container.Logger)
	cfg := container.Config

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Logger first so every later middleware has a request-scoped logger
	engine.Use(logger.Middleware(container.Logger))
	engine.Use(errors.ErrorHandler())
	engine.Use(errors.RecoveryWithLogger())
	engine.Use(middleware.CORS(cfg.Security.AllowedOrigins))

	if cfg.Observability.MetricsEnabled {
		httpMetrics, err := middleware.NewHTTPMetrics(container.Registry)
		if err != nil {
			return nil, err
		}
		engine.Use(httpMetrics.Middleware())
	}

	limiterOptions := middleware.DefaultRateLimiterOptions()
	if cfg.Security.RateLimit > 0 {
		limiterOptions.Limit = rate.Limit(cfg.Security.RateLimit)
	}
	if cfg.Security.RateLimitBurst > 0 {
		limiterOptions.Burst = cfg.Security.RateLimitBurst
	}
	rateLimiter := middleware.NewRateLimiter(container.Logger, limiterOptions)

	return &Router{
		Engine:      engine,
		Container:   container,
		Logger:      container.Logger,
		Config:      cfg,
		RateLimiter: rateLimiter,
	}, nil
}

// SetupRoutes registers all application routes
func (r *Router) SetupRoutes() error {
	r.setupHealthRoutes()

	if r.Config.Observability.MetricsEnabled {
		r.Engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.Container.Registry, promhttp.HandlerOpts{})))
	}

	v1 := r.Engine.Group("/api/v1")
	messages := v1.Group("")
	messages.Use(r.RateLimiter.Middleware())
	if r.Config.OpenAPI.SchemaPath != "" {
		if err := r.addOpenAPIValidation(messages, r.Config.OpenAPI.SchemaPath); err != nil {
			return err
		}
	}

	api.NewMessageController(r.Container.MessageService).RegisterRoutesV1(messages)
	return nil
}
