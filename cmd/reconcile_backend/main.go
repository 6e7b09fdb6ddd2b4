package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/money_reconcile/internal/adapters/events"
	portsrepo "github.com/SscSPs/money_reconcile/internal/core/ports/repositories"
	"github.com/SscSPs/money_reconcile/internal/core/services"
	"github.com/SscSPs/money_reconcile/internal/handlers"
	"github.com/SscSPs/money_reconcile/internal/middleware"
	"github.com/SscSPs/money_reconcile/internal/platform/config"
	"github.com/SscSPs/money_reconcile/internal/repositories/database/pgsql"
	"github.com/SscSPs/money_reconcile/internal/repositories/memory"
	"github.com/SscSPs/money_reconcile/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitermemory "github.com/ulule/limiter/v3/drivers/store/memory"
)

// @title Money Reconcile API
// @version 1.0
// @description Multi-currency journal line reconciliation service.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	txManager, repos, closeStore, err := setupStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to set up storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	var reconcileOpts []services.ReconciliationOption
	if cfg.AMQPURL != "" {
		publisher, err := events.DialAMQPPublisher(ctx, cfg.AMQPURL, cfg.AMQPExchange, time.Minute)
		if err != nil {
			logger.Error("Failed to connect event publisher", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Warn("Error closing event publisher", slog.String("error", err.Error()))
			}
		}()
		reconcileOpts = append(reconcileOpts, services.WithEventPublisher(publisher))
	} else {
		logger.Info("AMQP_URL not set, reconciliation events are not published")
	}

	serviceContainer := services.NewServiceContainer(cfg, txManager, repos, reconcileOpts...)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit", slog.String("rate_limit", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiter.New(limitermemory.NewStore(), rate)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// setupStorage connects to PostgreSQL and applies migrations, or falls back to the in-memory
// store when no database URL is configured.
func setupStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.TransactionManager, portsrepo.RepositoryProvider, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("Using the in-memory store; data is lost on restart")
		store := memory.NewStore()
		return store, store.Repositories(), func() {}, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return nil, portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established")

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(ctx, cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		dbPool.Close()
		return nil, portsrepo.RepositoryProvider{}, nil, err
	}

	return pgsql.NewTxManager(dbPool), pgsql.NewRepositoryProvider(dbPool), dbPool.Close, nil
}
