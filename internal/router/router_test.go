package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/salon-booking/internal/handler/health"
	promhandler "github.com/jwalitptl/salon-booking/internal/handler/prometheus"
	"github.com/jwalitptl/salon-booking/internal/middleware"
	"github.com/jwalitptl/salon-booking/pkg/metrics"
)

type echoHandler struct{}

func (echoHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/echo", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
}

func newTestRouter() *Router {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg, "booking", "test")

	r := NewRouter(RouterConfig{
		Mode:        gin.TestMode,
		CORSConfig:  middleware.DefaultCORSConfig(),
		RateLimit:   DefaultRateLimit(1000, 1000, 0),
		MetricsPath: "/metrics",
	}, m, promhandler.New(reg).Handler())
	r.Register(echoHandler{})
	r.RegisterRoot(health.NewHandler())
	return r
}

func TestRoutesMounted(t *testing.T) {
	r := newTestRouter()

	for path, want := range map[string]int{
		"/api/v1/echo": http.StatusOK,
		"/echo":        http.StatusNotFound,
		"/health/live": http.StatusOK,
		"/metrics":     http.StatusOK,
	} {
		w := httptest.NewRecorder()
		r.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Code, path)
	}
}

func TestMiddlewareChainApplied(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	r.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/echo", nil))

	assert.NotEmpty(t, w.Header().Get(middleware.HeaderXRequestID))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
