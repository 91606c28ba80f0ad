package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"bakkie/internal/handler"
	"bakkie/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	TripHandler      *handler.TripHandler
	FareHandler      *handler.FareHandler
	DriverHandler    *handler.DriverHandler
	HistoryHandler   *handler.HistoryHandler
	FavoritesHandler *handler.FavoritesHandler
	SafetyHandler    *handler.SafetyHandler
	SettingsHandler  *handler.SettingsHandler
	RedisClient      *redis.Client
	NewRelicApp      *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Pricing routes.
		v1.GET("/tiers", deps.FareHandler.GetTiers)
		v1.POST("/quotes", deps.FareHandler.CreateQuote)

		// Trip lifecycle routes. A session has at most one active trip, so
		// the lifecycle hangs off /trips/active rather than an id.
		trips := v1.Group("/trips")
		{
			trips.POST("", deps.TripHandler.RequestTrip)
			trips.GET("/active", deps.TripHandler.GetActiveTrip)
			trips.POST("/active/start", deps.TripHandler.StartTrip)
			trips.POST("/active/cancel", deps.TripHandler.CancelTrip)
			trips.POST("/active/complete", deps.TripHandler.CompleteTrip)
			trips.GET("/active/telemetry", deps.TripHandler.GetTelemetry)
		}

		// Driver pool routes.
		drivers := v1.Group("/drivers")
		{
			drivers.GET("", deps.DriverHandler.GetDrivers)
			drivers.GET("/:id", deps.DriverHandler.GetDriver)
		}

		// History routes.
		v1.GET("/history", deps.HistoryHandler.GetHistory)
		v1.GET("/history/archive", deps.HistoryHandler.GetArchive)

		// Favorites routes.
		favorites := v1.Group("/favorites")
		{
			favorites.GET("", deps.FavoritesHandler.GetFavorites)
			favorites.POST("", deps.FavoritesHandler.AddFavorite)
			favorites.DELETE("/:id", deps.FavoritesHandler.RemoveFavorite)
		}

		// Safety and driver dashboard routes.
		v1.GET("/safety/contact", deps.SafetyHandler.GetTrustedContact)
		v1.PUT("/safety/contact", deps.SafetyHandler.SetTrustedContact)
		v1.GET("/driver/earnings", deps.SafetyHandler.GetEarnings)

		// Client settings routes.
		settings := v1.Group("/settings")
		{
			settings.GET("/theme", deps.SettingsHandler.GetTheme)
			settings.PUT("/theme", deps.SettingsHandler.SetTheme)
			settings.GET("/flags", deps.SettingsHandler.GetServiceFlags)
			settings.PUT("/flags", deps.SettingsHandler.SetServiceFlag)
		}
	}

	return router
}
