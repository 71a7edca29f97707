package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobassist-backend/internal/services/health"
	"jobassist-backend/internal/shared/config"
	"jobassist-backend/internal/shared/metrics"
	"jobassist-backend/internal/shared/server/middleware"
	"jobassist-backend/internal/shared/server/respond"
)

// RouteRegistrar is implemented by every feature handler.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouterDeps lists the handlers mounted under /api/v1. Leave a field unset
// (untyped nil) to skip it.
type RouterDeps struct {
	Config              config.Config
	Health              *health.Service
	UserHandler         RouteRegistrar
	ResumeHandler       RouteRegistrar
	JobHandler          RouteRegistrar
	ApplicationHandler  RouteRegistrar
	SkillGapHandler     RouteRegistrar
	PreferenceHandler   RouteRegistrar
	NotificationHandler RouteRegistrar
	AnalyticsHandler    RouteRegistrar
	AutoApplyHandler    RouteRegistrar
	RateLimiter         *middleware.RateLimiter
}

var defaultRateLimits = map[string]middleware.RateLimitRule{
	"DEFAULT":    {Rate: 10, Burst: 60},
	"UPLOAD":     {Rate: 0.2, Burst: 5},
	"AUTO_APPLY": {Rate: 0.05, Burst: 3},
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    defaultRateLimits,
			GroupFor: rateLimitGroup,
			Limiter:  deps.RateLimiter,
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		st := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !st.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, st)
	})

	for _, h := range []RouteRegistrar{
		deps.UserHandler,
		deps.ResumeHandler,
		deps.JobHandler,
		deps.ApplicationHandler,
		deps.SkillGapHandler,
		deps.PreferenceHandler,
		deps.NotificationHandler,
		deps.AnalyticsHandler,
		deps.AutoApplyHandler,
	} {
		if h != nil {
			h.RegisterRoutes(api)
		}
	}

	return r
}

func rateLimitGroup(c *gin.Context) string {
	path := c.FullPath()
	switch {
	case strings.HasPrefix(path, "/api/v1/auto-apply"):
		return "AUTO_APPLY"
	case path == "/api/v1/resumes" && c.Request.Method == http.MethodPost:
		return "UPLOAD"
	default:
		return "DEFAULT"
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
