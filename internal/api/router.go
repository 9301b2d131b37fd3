// Package api exposes the news feed over HTTP.
package api

import (
	"context"

	"github.com/gin-gonic/gin"

	infragin "github.com/jonesrussell/north-cloud/newsfeed/infrastructure/gin"
	"github.com/jonesrussell/north-cloud/newsfeed/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/newsfeed/internal/config"
	"github.com/jonesrussell/north-cloud/newsfeed/internal/domain"
	"github.com/jonesrussell/north-cloud/newsfeed/internal/metrics"
)

// FeedAssembler builds the full feed.
type FeedAssembler interface {
	Assemble(ctx context.Context) (*domain.Feed, error)
}

// FeaturedService resolves the featured article.
type FeaturedService interface {
	Featured(ctx context.Context) (map[string]any, error)
}

// Router holds the API dependencies.
type Router struct {
	feed      FeedAssembler
	featured  FeaturedService
	cfg       *config.Config
	metrics   *metrics.Metrics
	redisPing func() error
}

// Option configures a Router.
type Option func(*Router)

// WithMetrics serves m on GET /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Router) { r.metrics = m }
}

// WithRedisPing adds a redis check to GET /health.
func WithRedisPing(ping func() error) Option {
	return func(r *Router) { r.redisPing = ping }
}

// NewRouter creates a Router.
func NewRouter(feed FeedAssembler, featured FeaturedService, cfg *config.Config, opts ...Option) *Router {
	r := &Router{feed: feed, featured: featured, cfg: cfg}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewServer builds the HTTP server with health routes and the
// standard middleware stack.
func (r *Router) NewServer(log logger.Logger) *infragin.Server {
	svc := r.cfg.Service

	builder := infragin.NewServerBuilder(svc.Name, svc.Port).
		WithLogger(log).
		WithDebug(svc.Debug).
		WithVersion(svc.Version).
		WithTimeouts(svc.ReadTimeout, svc.WriteTimeout, 0).
		WithShutdownTimeout(svc.ShutdownTimeout).
		WithCORS(infragin.CORSConfig{
			Enabled:        r.cfg.CORS.CORSEnabled(),
			AllowedOrigins: r.cfg.CORS.Origins,
		}).
		WithRoutes(r.setupServiceRoutes)

	if r.metrics != nil {
		builder = builder.WithMiddleware(r.metrics.HTTP.Middleware())
	}
	if r.redisPing != nil {
		builder = builder.WithRedisHealthCheck(r.redisPing)
	}

	return builder.Build()
}

func (r *Router) setupServiceRoutes(router *gin.Engine) {
	router.GET("/ping", r.ping)
	router.GET("/get-newsfeed", r.getNewsfeed)
	router.GET("/get-featured-article", r.getFeaturedArticle)

	if r.metrics != nil {
		router.GET("/metrics", gin.WrapH(r.metrics.Handler()))
	}
}
