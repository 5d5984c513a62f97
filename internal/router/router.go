package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mednex-health/mednex-api/internal/handler"
	adminh "github.com/mednex-health/mednex-api/internal/handler/admin"
	authh "github.com/mednex-health/mednex-api/internal/handler/auth"
	chath "github.com/mednex-health/mednex-api/internal/handler/chat"
	diagnosish "github.com/mednex-health/mednex-api/internal/handler/diagnosis"
	explanationh "github.com/mednex-health/mednex-api/internal/handler/explanation"
	graphh "github.com/mednex-health/mednex-api/internal/handler/graph"
	predictionh "github.com/mednex-health/mednex-api/internal/handler/prediction"
	"github.com/mednex-health/mednex-api/internal/middleware"
	"github.com/mednex-health/mednex-api/internal/model"
	"github.com/mednex-health/mednex-api/pkg/metrics"
)

type Router struct {
	engine       *gin.Engine
	auth         *middleware.AuthMiddleware
	h            *handler.Handler
	authH        *authh.Handler
	predictionH  *predictionh.Handler
	graphH       *graphh.Handler
	chatH        *chath.Handler
	explanationH *explanationh.Handler
	diagnosisH   *diagnosish.Handler
	adminH       *adminh.Handler
	metrics      *metrics.Metrics
}

type RouterConfig struct {
	RateLimitRPS   float64
	RateLimitBurst int
	CORSConfig     middleware.CORSConfig
	Timeout        time.Duration
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	h *handler.Handler,
	authH *authh.Handler,
	predictionH *predictionh.Handler,
	graphH *graphh.Handler,
	chatH *chath.Handler,
	explanationH *explanationh.Handler,
	diagnosisH *diagnosish.Handler,
	adminH *adminh.Handler,
	m *metrics.Metrics,
	config RouterConfig,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	r := &Router{
		engine:       engine,
		auth:         auth,
		h:            h,
		authH:        authH,
		predictionH:  predictionH,
		graphH:       graphH,
		chatH:        chatH,
		explanationH: explanationH,
		diagnosisH:   diagnosisH,
		adminH:       adminH,
		metrics:      m,
	}

	if config.Timeout <= 0 {
		config.Timeout = middleware.DefaultTimeoutConfig().Duration
	}

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.Timeout}),
	)

	engine.Use(middleware.CORS(config.CORSConfig))

	if config.RateLimitRPS > 0 {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			RPS:   config.RateLimitRPS,
			Burst: config.RateLimitBurst,
		})
		engine.Use(rateLimiter.RateLimit())
	}

	return r
}

func (r *Router) Setup() {
	r.engine.GET("/", r.h.APIInfo)

	health := r.engine.Group("/health")
	{
		health.GET("", r.h.LivenessCheck)
		health.GET("/live", r.h.LivenessCheck)
		health.GET("/ready", r.h.ReadinessCheck)
	}
	r.engine.GET("/metrics", r.h.MetricsHandler)

	api := r.engine.Group("/api")

	// Public routes
	r.authH.RegisterRoutes(api)
	r.predictionH.RegisterRoutes(api)
	r.graphH.RegisterRoutes(api)
	r.chatH.RegisterRoutes(api)
	r.explanationH.RegisterRoutes(api)

	// Authenticated routes
	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	r.authH.RegisterProtectedRoutes(protected)

	customer := protected.Group("/customer")
	r.diagnosisH.RegisterRoutes(customer)

	// Admin routes
	admin := protected.Group("/admin")
	admin.Use(r.auth.RequireRole(model.RoleAdmin))
	r.adminH.RegisterRoutes(admin)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.RequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.ErrorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
