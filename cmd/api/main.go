package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/lesotho-epassport/backend/internal/config"
	"github.com/lesotho-epassport/backend/internal/database"
	"github.com/lesotho-epassport/backend/internal/database/migrations"
	"github.com/lesotho-epassport/backend/internal/handlers"
	"github.com/lesotho-epassport/backend/internal/jobs"
	"github.com/lesotho-epassport/backend/internal/middleware"
	"github.com/lesotho-epassport/backend/internal/records"
	"github.com/lesotho-epassport/backend/internal/routes"
	"github.com/lesotho-epassport/backend/internal/services/application"
	"github.com/lesotho-epassport/backend/internal/services/status"
	"github.com/lesotho-epassport/backend/internal/services/storage"
	"github.com/lesotho-epassport/backend/internal/services/upload"
)

func main() {
	// Load configuration (.env is read first for local development)
	cfg := config.Load()

	// Setup database connection
	db, err := database.InitDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := migrations.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Wire persistence and the storage gateway
	store := records.NewGormStore(db)
	gateway := storage.NewSupabaseClient(cfg.Storage)

	// Wire services
	uploader := upload.NewCoordinator(gateway, store)
	applicationService := application.NewService(store, store, store, uploader)
	statusService := status.NewService(store, store, cfg.DebugStatusSamples)

	// Wire handlers
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	uploadHandler := handlers.NewUploadHandler(uploader)
	statusHandler := handlers.NewStatusHandler(statusService)
	updateHandler := handlers.NewUpdateHandler(store)

	// Rate limiter; shared across instances when Redis is configured
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatalf("Invalid REDIS_URL: %v", err)
		}
		if cfg.Redis.Password != "" {
			opts.Password = cfg.Redis.Password
		}
		opts.DB = cfg.Redis.DB
		rateLimiter.WithRedis(middleware.NewRedisLimiter(redis.NewClient(opts)))
	}

	// Start the orphaned-artifact cleanup
	cleanup := jobs.NewArtifactCleanupJob(store, gateway,
		time.Duration(cfg.Cleanup.RetentionHours)*time.Hour)
	if err := cleanup.Schedule(time.Duration(cfg.Cleanup.IntervalHours) * time.Hour); err != nil {
		log.Fatalf("Failed to schedule artifact cleanup: %v", err)
	}
	defer cleanup.Stop()

	// Initialize router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// Configure CORS for the portal front end
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}))

	// Register routes
	routes.RegisterRoutes(router, applicationHandler, uploadHandler, statusHandler, updateHandler, rateLimiter)

	// Start server
	fmt.Printf("Passport services API running on port %s\n", cfg.Server.Port)
	if err := newHTTPServer(cfg.Server, router).ListenAndServe(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newHTTPServer applies the configured timeouts; gin's Run would start a
// server without any.
func newHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
	}
}
