package routes

import (
	"net/http"
	"time"

	"skybook/docs"
	"skybook/internal/analytics"
	"skybook/internal/auth"
	"skybook/internal/bookings"
	"skybook/internal/flights"
	"skybook/internal/notifications"
	"skybook/internal/pricing"
	"skybook/internal/profiles"
	"skybook/internal/shared/config"
	"skybook/internal/shared/database"
	"skybook/internal/shared/middleware"
	"skybook/pkg/cache"
	"skybook/pkg/metrics"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const serviceName = "skybook-api"

// Router holds all route dependencies
type Router struct {
	config       *config.Config
	db           *database.DB
	cacheService cache.Service
	publisher    notifications.Publisher
	metrics      *metrics.Metrics

	// shared between packages
	flightService flights.Service
}

// NewRouter creates a new router instance. Caching is on whenever db carries a
// Redis client.
func NewRouter(cfg *config.Config, db *database.DB) *Router {
	r := &Router{
		config:    cfg,
		db:        db,
		publisher: notifications.NoopPublisher{},
	}
	if db.Redis != nil {
		r.cacheService = cache.NewService(db.Redis)
	}
	return r
}

// SetPublisher routes booking events to the notification pipeline
func (r *Router) SetPublisher(publisher notifications.Publisher) {
	r.publisher = publisher
}

// SetMetrics exposes /metrics and records request metrics
func (r *Router) SetMetrics(m *metrics.Metrics) {
	r.metrics = m
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	if r.metrics != nil {
		engine.Use(r.metrics.Middleware())
		engine.GET("/metrics", gin.WrapH(r.metrics.Handler()))
	}

	r.setupHealthRoutes(engine)
	r.setupDocsRoutes(engine)

	authMiddleware := middleware.JWTAuthWithConfig(r.config)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api, authMiddleware)
		r.setupProfileRoutes(api, authMiddleware)

		// flights first, bookings and pricing depend on its service
		r.setupFlightRoutes(api, authMiddleware)
		r.setupBookingRoutes(api, authMiddleware)
		r.setupPricingRoutes(api)
		r.setupAnalyticsRoutes(api, authMiddleware)
	}
}

func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now().UTC(),
				"service":   serviceName,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
			"service":   serviceName,
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"redis_cache": r.cacheService != nil,
			"timestamp":   time.Now().UTC(),
		})
	})
}

func (r *Router) setupDocsRoutes(engine *gin.Engine) {
	docs.SwaggerInfo.BasePath = r.config.GetAPIBasePath()
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (r *Router) setupAuthRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	authRepo := auth.NewRepository(r.db.PostgreSQL)
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)

	auth.NewRouter(authController, authMiddleware).SetupRoutes(rg)
}

func (r *Router) setupProfileRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	profileService := profiles.NewService(profiles.NewRepository(r.db.PostgreSQL))
	if r.cacheService != nil {
		profileService.SetCacheService(r.cacheService)
	}

	profiles.SetupProfileRoutes(rg, profiles.NewController(profileService), authMiddleware)
}

func (r *Router) setupFlightRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	flightService := flights.NewService(flights.NewRepository(r.db.PostgreSQL))
	if r.cacheService != nil {
		flightService.SetCacheService(r.cacheService)
	}
	r.flightService = flightService

	flights.SetupFlightRoutes(rg, flights.NewController(flightService), authMiddleware)
}

func (r *Router) setupBookingRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	bookingService := bookings.NewService(bookings.NewRepository(r.db.PostgreSQL))
	bookingService.SetPublisher(r.publisher)
	// seat counts are part of cached flight payloads
	bookingService.SetFlightCache(r.flightService)

	bookings.SetupBookingRoutes(rg, bookings.NewController(bookingService), authMiddleware)
}

func (r *Router) setupPricingRoutes(rg *gin.RouterGroup) {
	pricingService := pricing.NewService(r.flightService)
	pricing.SetupPricingRoutes(rg, pricing.NewController(pricingService))
}

func (r *Router) setupAnalyticsRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	analyticsService := analytics.NewService(analytics.NewRepository(r.db.PostgreSQL))
	if r.cacheService != nil {
		analyticsService.SetCacheService(r.cacheService)
	}

	analytics.SetupAnalyticsRoutes(rg, analytics.NewController(analyticsService), authMiddleware)
}
