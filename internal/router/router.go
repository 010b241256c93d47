package router

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/paintrack/backend/internal/api"
	"github.com/paintrack/backend/internal/middleware"
	"github.com/paintrack/backend/internal/service"
	"github.com/paintrack/backend/internal/storage"
)

// Dependencies are the services the HTTP API is built on. Redis may be nil,
// which disables rate limiting.
type Dependencies struct {
	Store         *storage.Facade
	Auth          service.IAuthService
	Insights      service.IInsightsService
	Reports       service.IReportService
	Redis         *redis.Client
	Logger        *zap.Logger
	CORSOrigins   []string
	SecureCookies bool
}

// SetupRouter configures the application routes
func SetupRouter(deps Dependencies) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORS(deps.CORSOrigins))
	router.Use(middleware.Durability(deps.Store))

	router.GET("/health", api.NewHealthHandler(deps.Store).HealthCheck)

	authed := middleware.AuthMiddleware(deps.Auth)
	loginLimiter := middleware.NewLoginRateLimiter(deps.Redis, log)
	painLimiter := middleware.NewPainEntryRateLimiter(deps.Redis, log)
	reportHandler := api.NewReportHandler(deps.Reports)

	// API v1 routes
	v1 := router.Group("/api/v1")
	api.NewAuthHandler(deps.Auth, deps.SecureCookies).RegisterRoutes(v1, authed, loginLimiter.RateLimitMiddleware())
	reportHandler.RegisterPublicRoutes(v1)

	// Protected routes
	protected := v1.Group("")
	protected.Use(authed)
	{
		api.NewProfileHandler(deps.Store).RegisterRoutes(protected)
		api.NewPainHandler(deps.Store).RegisterRoutes(protected, painLimiter.RateLimitMiddleware())
		api.NewInsightsHandler(deps.Insights).RegisterRoutes(protected)
		api.NewMedicationHandler(deps.Store).RegisterRoutes(protected)
		api.NewReminderHandler(deps.Store).RegisterRoutes(protected)
		reportHandler.RegisterRoutes(protected)
	}

	return router
}
