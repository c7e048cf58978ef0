package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/duynhne/user-profile-service/middleware"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	Logger  *zap.Logger
	Profile *ProfileHandler
	Health  *HealthHandler

	// TracingEnabled adds the OpenTelemetry middleware; call middleware.InitTracing first.
	TracingEnabled bool
	// MetricsPath mounts the Prometheus handler and request metrics. Empty disables both.
	MetricsPath string
}

// NewRouter builds the gin engine with middleware, infrastructure endpoints
// and the /api/v1 profile routes.
func NewRouter(opts RouterOptions) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true

	// Recovery first so panics in any later middleware are caught.
	r.Use(middleware.RecoveryMiddleware(logger))
	if opts.TracingEnabled {
		r.Use(middleware.TracingMiddleware())
	}
	r.Use(middleware.LoggingMiddleware(logger))
	if opts.MetricsPath != "" {
		r.Use(middleware.PrometheusMiddleware())
		r.GET(opts.MetricsPath, gin.WrapH(promhttp.Handler()))
	}

	r.GET("/", opts.Health.Root)
	r.GET("/health", opts.Health.Health)
	r.GET("/ready", opts.Health.Ready)

	opts.Profile.RegisterRoutes(r.Group("/api/v1"))

	r.NoRoute(NotFound)
	r.NoMethod(MethodNotAllowed)

	return r
}
