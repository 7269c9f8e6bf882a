package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"marketplace-admin/cache"
	"marketplace-admin/catalog"
	"marketplace-admin/config"
	"marketplace-admin/database"
	"marketplace-admin/firebase"
	"marketplace-admin/logger"
	"marketplace-admin/middleware"
	"marketplace-admin/routes"
)

func main() {
	// Load environment variables
	if err := config.LoadEnv(); err != nil {
		log.Fatal("Error loading .env file:", err)
	}

	appLogger, err := logger.New(os.Getenv("APP_ENV"))
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer appLogger.Sync()

	if os.Getenv("APP_ENV") != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := config.ValidateEnv(appLogger); err != nil {
		appLogger.Fatal("environment validation failed", zap.Error(err))
	}

	db, err := database.Connect(os.Getenv("DATABASE_URL"))
	if err != nil {
		appLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := database.Migrate(db); err != nil {
		appLogger.Fatal("failed to run migrations", zap.Error(err))
	}

	if err := database.CreateDefaultAdmin(db, appLogger); err != nil {
		appLogger.Warn("could not create default admin", zap.Error(err))
	}
	if err := database.SeedGlobalCommission(db, config.GetEnvFloat("DEFAULT_COMMISSION_RATE", catalog.DefaultCommissionRate)); err != nil {
		appLogger.Warn("could not seed global commission", zap.Error(err))
	}

	ctx := context.Background()

	deps := routes.Deps{DB: db, Log: appLogger}

	// Firebase Storage is optional; uploads answer 503 without it.
	if storage, err := firebase.New(ctx, appLogger); err != nil {
		appLogger.Warn("firebase storage disabled", zap.Error(err))
	} else {
		deps.Storage = storage
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		client, err := cache.Connect(ctx, redisURL)
		if err != nil {
			appLogger.Warn("redis unavailable, category tree cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			deps.Cache = cache.NewRedisTreeCache(client, appLogger)
		}
	}

	loginLimiter := middleware.NewRateLimiterRPS(
		rate.Limit(config.GetEnvFloat("RATE_LIMIT_RPS", 1)),
		config.GetEnvInt("RATE_LIMIT_BURST", 5),
	)
	defer loginLimiter.Stop()
	deps.LoginLimiter = loginLimiter

	r := gin.New()
	r.Use(middleware.Recovery(appLogger))
	r.Use(middleware.RequestLogger(appLogger))

	// Limit multipart form memory to 10MB
	r.MaxMultipartMemory = 10 << 20

	origins := []string{}
	for _, o := range []string{os.Getenv("ADMIN_URL"), os.Getenv("SELLER_URL")} {
		if o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:3001"}
		appLogger.Warn("no CORS origins configured, defaulting to localhost", zap.Strings("origins", origins))
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	routes.SetupRoutes(r, deps)

	port := config.GetEnv("PORT", "8000")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("server starting", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down server")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server forced to shutdown", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			appLogger.Error("error closing database connection", zap.Error(err))
		} else {
			appLogger.Info("database connection closed")
		}
	}

	appLogger.Info("server exited gracefully")
}
