package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/pos_ledger_engine/internal/adapters/messaging"
	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger_engine/internal/core/services"
	"github.com/SscSPs/pos_ledger_engine/internal/handlers"
	"github.com/SscSPs/pos_ledger_engine/internal/middleware"
	"github.com/SscSPs/pos_ledger_engine/internal/platform/config"
	"github.com/SscSPs/pos_ledger_engine/internal/platform/logging"
	"github.com/SscSPs/pos_ledger_engine/internal/platform/metrics"
	"github.com/SscSPs/pos_ledger_engine/internal/repositories/database/memory"
	"github.com/SscSPs/pos_ledger_engine/internal/repositories/database/pgsql"
	"github.com/SscSPs/pos_ledger_engine/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// @title POS Ledger Engine API
// @version 1.0
// @description Transaction ledger, register reconciliation and payment settlement for point-of-sale branches.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	m := metrics.New(metrics.DefaultConfig())

	repos, collab, cleanup, err := setupPersistence(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to set up persistence", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	if len(cfg.KafkaBrokers) > 0 {
		publisher := messaging.NewPayrollPublisher(cfg.KafkaBrokers, cfg.PayrollTopic, messaging.DefaultBreakerConfig(), logger, m)
		defer func() {
			if cerr := publisher.Close(); cerr != nil {
				logger.Error("Error closing payroll publisher", slog.String("error", cerr.Error()))
			}
		}()
		collab.Payroll = publisher
		logger.Info("Payroll deductions are published to Kafka", slog.String("topic", cfg.PayrollTopic))
	}

	serviceContainer := services.NewServiceContainer(cfg, repos, collab, m)

	rateLimiter, err := middleware.NewLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Failed to create rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterValidators()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSAllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", handlers.IdempotencyKeyHeader},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
	}))
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), middleware.MetricsMiddleware(m))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, m, rateLimiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
	}
}

// setupPersistence connects to PostgreSQL and applies migrations, or falls back to the
// in-memory store when no database URL is configured.
func setupPersistence(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, portssvc.Collaborators, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("Running with the in-memory store; data is lost on restart")
		permissions := memory.NewPermissionSet()
		for _, actorID := range cfg.DiscrepancyApprovers {
			permissions.Grant(actorID, domain.CapabilityApproveDiscrepancy)
		}
		collab := portssvc.Collaborators{
			Permissions: permissions,
			Clients:     memory.NewClientAccounts(),
			Payroll:     &memory.PayrollLog{},
		}
		return memory.NewRepositoryProvider(memory.NewStore()), collab, func() {}, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, portssvc.Collaborators{}, nil, err
	}

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		dbPool.Close()
		return portsrepo.RepositoryProvider{}, portssvc.Collaborators{}, nil, err
	}

	return pgsql.NewRepositoryProvider(dbPool), pgsql.NewCollaborators(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}
