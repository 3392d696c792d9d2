package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/salon-booking/internal/middleware"
	"github.com/jwalitptl/salon-booking/pkg/metrics"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type RouterConfig struct {
	Mode           string
	CORSConfig     middleware.CORSConfig
	RateLimit      *middleware.RateLimiterConfig
	MaxBodyBytes   int64
	RequestTimeout time.Duration
	MetricsPath    string
}

type Router struct {
	engine *gin.Engine
	api    *gin.RouterGroup
}

// NewRouter builds the engine with the shared middleware chain. The order
// matters: request ids first so every later log line carries one.
func NewRouter(config RouterConfig, m *metrics.Metrics, metricsHandler gin.HandlerFunc) *Router {
	if config.Mode != "" {
		gin.SetMode(config.Mode)
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.ErrorLogger(),
		middleware.Metrics(m),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig()),
		middleware.CORS(config.CORSConfig),
	)

	if metricsHandler != nil && config.MetricsPath != "" {
		engine.GET(config.MetricsPath, metricsHandler)
	}

	api := engine.Group("/api/v1")
	if config.RateLimit != nil {
		api.Use(middleware.NewRateLimiter(*config.RateLimit).RateLimit())
	}
	if config.MaxBodyBytes > 0 {
		api.Use(middleware.SizeLimit(config.MaxBodyBytes))
	}
	api.Use(middleware.Timeout(config.RequestTimeout))

	return &Router{engine: engine, api: api}
}

// DefaultRateLimit converts requests per second into a limiter config.
func DefaultRateLimit(rps float64, burst int, ttl time.Duration) *middleware.RateLimiterConfig {
	return &middleware.RateLimiterConfig{Rate: rate.Limit(rps), Burst: burst, ClientTTL: ttl}
}

// Register mounts handlers under /api/v1.
func (r *Router) Register(handlers ...Handler) {
	for _, h := range handlers {
		h.RegisterRoutes(r.api)
	}
}

// RegisterRoot mounts handlers at the engine root, used for probes.
func (r *Router) RegisterRoot(handlers ...Handler) {
	for _, h := range handlers {
		h.RegisterRoutes(&r.engine.RouterGroup)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
