package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/mroshb/roommatch/internal/config"
	"github.com/mroshb/roommatch/internal/database"
	"github.com/mroshb/roommatch/internal/handlers"
	"github.com/mroshb/roommatch/internal/middleware"
	"github.com/mroshb/roommatch/internal/repositories"
	"github.com/mroshb/roommatch/internal/services"
	"github.com/mroshb/roommatch/pkg/logger"
	"github.com/mroshb/roommatch/telegram"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize logger
	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("APP_ENV"))
	defer logger.Sync()

	logger.Info("Starting Roommatch API...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}

	// Validate production security settings
	if cfg.AppEnv == "production" {
		if err := cfg.ValidateProductionSecurity(); err != nil {
			logger.Fatal("Production security validation failed", err)
		}
		logger.Info("Production security validation passed")
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	defer database.Close(db)

	// Run GORM auto-migration
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	checks := map[string]handlers.HealthCheck{
		"database": func(ctx context.Context) error { return database.Ping(ctx, db) },
	}

	// Redis is optional; without it generation is limited per process
	var generateLimiter middleware.Limiter
	redisClient, err := database.ConnectRedis(context.Background(), cfg)
	switch {
	case err != nil:
		logger.Fatal("Failed to connect to redis", err)
	case redisClient != nil:
		defer redisClient.Close()
		generateLimiter = middleware.NewRedisLimiter(redisClient, "rl:generate:", cfg.RateLimitGenerate, cfg.GetRateLimitWindow())
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	default:
		memLimiter := middleware.NewRateLimiter(cfg.RateLimitGenerate, cfg.GetRateLimitWindow())
		defer memLimiter.Stop()
		generateLimiter = memLimiter
		logger.Warn("REDIS_ADDR not set, using in-memory rate limiter")
	}

	userRepo := repositories.NewUserRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	matchRepo := repositories.NewMatchRepository(db)
	waitlistRepo := repositories.NewWaitlistRepository(db)

	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.GetJWTTTL())
	profileSvc := services.NewProfileService(profileRepo, userRepo)
	matchSvc := services.NewMatchService(profileRepo, matchRepo, userRepo, cfg.MatchStrictResponses)
	waitlistSvc := services.NewWaitlistService(waitlistRepo)

	manager := handlers.NewHandlerManager(authSvc, profileSvc, matchSvc, waitlistSvc, checks)
	router := handlers.NewRouter(manager, generateLimiter, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", err)
		}
	}()

	// The Telegram front-end only runs when a token is configured
	var bot *telegram.Bot
	if cfg.BotToken != "" {
		bot, err = telegram.InitBot(cfg, authSvc, matchSvc)
		if err != nil {
			logger.Error("Failed to initialize bot, continuing without it", "error", err)
		} else {
			logger.Info("Bot started successfully")
		}
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gracefully...")
	if bot != nil {
		bot.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
