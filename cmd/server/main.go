package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"bakkie/internal/app"
	"bakkie/internal/config"
	"bakkie/internal/handler"
	"bakkie/internal/kv"
	"bakkie/internal/repository"
	"bakkie/internal/repository/postgres"
	"bakkie/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s", cfg.NewRelic.AppName)
		}
	}

	// The archive database is optional; the demo runs without it.
	var db *sql.DB
	if cfg.Database.Enabled {
		db, err = app.NewDatabase(ctx, cfg.Database, nrApp)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer db.Close()
		log.Println("Connected to PostgreSQL")
	}

	// Redis is optional too; without it state lives in process memory.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = app.NewRedisClient(ctx, cfg.Redis, nrApp)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		log.Println("Connected to Redis")
	}

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Pick the key-value store backing history, favorites and safety state.
	var store kv.Store
	if redisClient != nil {
		store = kv.NewRedisStore(redisClient)
	} else {
		store = kv.NewMemoryStore()
	}

	// Long-term trip archive, only when Postgres is configured.
	var archive repository.HistoryArchive
	if db != nil {
		archive = postgres.NewHistoryArchive(db)
	}

	// Initialize services.
	bus := service.NewNotificationBus()
	fare := service.NewFareService()
	distance := service.NewMockDistanceEstimator()
	pool := repository.DefaultDriverPool()
	matcher := service.NewDriverMatcher(pool, cfg.Simulation.MatchDelay)
	journey := service.NewJourneySimulator(bus)
	history := service.NewHistoryService(store)
	favorites := service.NewFavoritesService(store)
	safety := service.NewSafetyService(store)
	earnings := service.NewEarningsService(store)
	settings := service.NewSettingsService(store, fare)

	session := service.NewTripSession(
		bus, fare, distance, matcher, journey, history, earnings, archive,
		service.LogChatNotifier{},
		service.SessionConfig{TickInterval: cfg.Simulation.TickInterval},
	)

	// Event log stands in for the browser UI the bus was built for.
	bus.Subscribe(func(event service.Event, payload any) {
		log.Printf("[EVENT] %s: %+v", event, payload)
	})

	// Initialize handlers.
	tripHandler := handler.NewTripHandler(session)
	fareHandler := handler.NewFareHandler(fare, distance)
	driverHandler := handler.NewDriverHandler(pool)
	historyHandler := handler.NewHistoryHandler(history, archive)
	favoritesHandler := handler.NewFavoritesHandler(favorites)
	safetyHandler := handler.NewSafetyHandler(safety, earnings)
	settingsHandler := handler.NewSettingsHandler(settings)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		TripHandler:      tripHandler,
		FareHandler:      fareHandler,
		DriverHandler:    driverHandler,
		HistoryHandler:   historyHandler,
		FavoritesHandler: favoritesHandler,
		SafetyHandler:    safetyHandler,
		SettingsHandler:  settingsHandler,
		RedisClient:      redisClient,
		NewRelicApp:      nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
