// Package main is the entry point for the identity service.
package main

import (
	"context"
	"log"

	"github.com/amberglobal/identity-service/internal/config"
	"github.com/amberglobal/identity-service/internal/handlers"
	"github.com/amberglobal/identity-service/internal/middleware"
	"github.com/amberglobal/identity-service/internal/notification"
	"github.com/amberglobal/identity-service/internal/ratelimit"
	"github.com/amberglobal/identity-service/internal/repository"
	"github.com/amberglobal/identity-service/internal/routes"
	"github.com/amberglobal/identity-service/internal/service"
	"github.com/amberglobal/identity-service/pkg/database"
	"github.com/amberglobal/identity-service/pkg/redis"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := database.Connect(database.PostgresConfig{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  "disable",
		TimeZone: "UTC",
	})
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	// Login throttling is best-effort. Without Redis the service still runs,
	// it just stops counting failed attempts.
	var limiter *ratelimit.Limiter
	if cfg.RedisHost != "" {
		client, err := redis.NewClient(cfg)
		if err != nil {
			log.Printf("redis unavailable, login throttling disabled: %v", err)
		} else {
			limiter = ratelimit.New(client, cfg.LoginMaxAttempts, cfg.LoginCooldown)
		}
	}

	userRepo := repository.NewUserRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	otpRepo := repository.NewOTPRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	entityStore := repository.NewEntityStore(db)

	jwtService, err := service.NewJWTService(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.UserTokenExpiry, cfg.AdminTokenExpiry)
	if err != nil {
		log.Fatalf("jwt configuration invalid: %v", err)
	}
	hasher := service.NewBcryptHasher()
	notifier := notification.NewSMTPNotifier(notification.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		Sender:   cfg.SMTPSender,
	})
	otpService := service.NewOTPService(otpRepo, cfg.OTPTTL, cfg.OTPInvalidatePrevious)
	authService := service.NewAuthService(userRepo, adminRepo, auditRepo, otpService, jwtService, hasher, notifier, limiter)
	adminService := service.NewAdminService(adminRepo, userRepo, auditRepo, entityStore, jwtService, hasher, limiter)

	ctx := context.Background()
	if cfg.BootstrapAdminUsername != "" {
		if err := adminService.EnsureBootstrap(ctx, cfg.BootstrapAdminUsername, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword); err != nil {
			log.Fatalf("bootstrap admin setup failed: %v", err)
		}
	}

	go otpService.RunSweeper(ctx, cfg.OTPSweepInterval)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	metrics := middleware.NewMetrics(prometheus.DefaultRegisterer)
	authHandler := handlers.NewAuthHandler(authService)
	adminHandler := handlers.NewAdminHandler(adminService)
	healthHandler := handlers.NewHealthHandler(db)

	routes.Setup(router, authHandler, adminHandler, healthHandler, jwtService, adminRepo, metrics)

	log.Printf("identity service listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
