// Package router assembles the gin engine serving the storefront API.
package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// RouteRegistrar mounts its routes on the engine
type RouteRegistrar interface {
	Register(r gin.IRoutes, path string)
}

// HealthCheck reports whether a dependency is reachable
type HealthCheck func(ctx context.Context) error

// Config selects the middleware of the engine
type Config struct {
	HTTP        config.HTTPConfig
	GraphQLPath string
	Tracing     middleware.TracingConfig
}

// Router builds the engine from its parts
type Router struct {
	cfg     Config
	auth    middleware.Authenticator
	logger  *zap.Logger
	api     RouteRegistrar
	checks  map[string]HealthCheck
	mounts  map[string]RouteRegistrar
	limiter *middleware.RateLimiter
}

// New creates a Router serving api at cfg.GraphQLPath
func New(cfg Config, auth middleware.Authenticator, api RouteRegistrar, log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{cfg: cfg, auth: auth, logger: log, api: api, checks: map[string]HealthCheck{}, mounts: map[string]RouteRegistrar{}}
}

// WithHealthCheck adds a named dependency to /health
func (r *Router) WithHealthCheck(name string, check HealthCheck) *Router {
	r.checks[name] = check
	return r
}

// WithRoutes mounts reg at path next to the API
func (r *Router) WithRoutes(path string, reg RouteRegistrar) *Router {
	r.mounts[path] = reg
	return r
}

// Engine returns the configured gin engine
func (r *Router) Engine() (*gin.Engine, error) {
	engine := gin.New()
	if err := engine.SetTrustedProxies(r.cfg.HTTP.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(
		logger.Recovery(r.logger),
		logger.GinMiddleware(r.logger),
		middleware.Tracing(r.cfg.Tracing),
		middleware.Secure(),
		middleware.CORS(middleware.CORSConfigFrom(r.cfg.HTTP)),
	)
	engine.GET("/health", r.health)

	api := engine.Group("")
	if r.cfg.HTTP.RateLimit > 0 {
		r.limiter = middleware.NewRateLimiter(r.cfg.HTTP.RateLimit, r.cfg.HTTP.RateWindow)
		api.Use(middleware.RateLimit(r.limiter))
	}
	api.Use(
		middleware.BodyLimit(r.cfg.HTTP.MaxBodySize),
		middleware.Auth(r.auth, r.logger),
		middleware.SpanAttributes(),
	)
	r.api.Register(api, r.cfg.GraphQLPath)
	for path, reg := range r.mounts {
		reg.Register(api, path)
	}
	return engine, nil
}

// Close releases the rate limiter
func (r *Router) Close() {
	if r.limiter != nil {
		r.limiter.Close()
	}
}

func (r *Router) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	report := gin.H{}
	for name, check := range r.checks {
		if err := check(ctx); err != nil {
			r.logger.Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			report[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		report[name] = "up"
	}
	c.JSON(status, gin.H{"status": http.StatusText(status), "checks": report})
}
