package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"clinic-app-server/internal/clinic"
	"clinic-app-server/internal/config"
	"clinic-app-server/internal/middleware"
	"clinic-app-server/internal/models"
	"clinic-app-server/internal/notify"
	"clinic-app-server/internal/routes"
)

func main() {
	// Load environment variables; a missing .env file is fine in production
	_ = godotenv.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "clinic-app-server").Logger()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("error loading config")
	}

	// Initialize database connection
	db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN})
	if err != nil {
		logger.Fatal().Err(err).Msg("error connecting to database")
	}

	// Notification pipeline: lifecycle mutations enqueue, the dispatcher
	// delivers in the background so mail cannot block or fail a request.
	var mailer notify.Mailer
	if cfg.Mailer.SMTPHost != "" {
		mailer = notify.NewSMTPMailer(cfg.Mailer.SMTPHost, cfg.Mailer.SMTPPort)
	} else {
		logger.Warn().Msg("SMTP_HOST not set, outgoing mail is suppressed")
		mailer = notify.NoopMailer{Log: logger}
	}
	dispatcher := notify.NewDispatcher(mailer, logger, 256)
	defer dispatcher.Close()

	composer := notify.Composer{ClinicName: cfg.ClinicName, From: cfg.Mailer.DefaultFrom}
	svc := clinic.NewService(db, dispatcher, composer, logger)

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(logger), gin.Recovery())

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Optional Redis-backed rate limit on the credential endpoints
	var rateLimit gin.HandlerFunc
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		limiter := middleware.NewRedisRateLimiter(rdb,
			cfg.Redis.RateLimit,
			time.Duration(cfg.Redis.RateLimitWindowS)*time.Second,
			"auth", logger)
		rateLimit = limiter.Middleware()
	}

	routes.SetupRoutes(router, db, cfg, svc, rateLimit)

	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	logger.Info().Str("addr", serverAddr).Msg("server starting")
	if err := router.Run(serverAddr); err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}
}
