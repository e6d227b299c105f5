package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpAdapter "github.com/Catson28/financial-ledger-system/internal/adapter/http"
	"github.com/Catson28/financial-ledger-system/internal/adapter/http/handler"
	"github.com/Catson28/financial-ledger-system/internal/adapter/http/middleware"
	postgresRepo "github.com/Catson28/financial-ledger-system/internal/adapter/repository/postgres"
	redisRepo "github.com/Catson28/financial-ledger-system/internal/adapter/repository/redis"
	"github.com/Catson28/financial-ledger-system/internal/infrastructure/config"
	"github.com/Catson28/financial-ledger-system/internal/infrastructure/logger"
	"github.com/Catson28/financial-ledger-system/internal/infrastructure/logging"
	"github.com/Catson28/financial-ledger-system/internal/infrastructure/metrics"
	"github.com/Catson28/financial-ledger-system/internal/infrastructure/postgres"
	"github.com/Catson28/financial-ledger-system/internal/infrastructure/redis"
	"github.com/Catson28/financial-ledger-system/internal/usecase"
)

func main() {
	rollback := flag.Bool("rollback", false, "revert the last schema migration and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "ledger",
	})
	slog.SetDefault(logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat).Logger)

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if *rollback {
		if err := postgres.RollbackMigration(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("failed to rollback migration")
		}
		return
	}

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	txnRepo := postgresRepo.NewTransactionRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	periodRepo := postgresRepo.NewPeriodRepository(pool)
	allocator := postgresRepo.NewNumberAllocator()
	idGen := postgresRepo.NewULIDGenerator()
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	cache := redisRepo.NewCache(redisClient)

	appMetrics := metrics.New()

	// Initialize use cases
	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, auditRepo, idGen).
		WithMetrics(appMetrics)
	balanceUC := usecase.NewBalanceUseCase(accountRepo, entryRepo).WithCache(cache)
	postingUC := usecase.NewPostingUseCase(txManager, accountRepo, txnRepo, entryRepo, auditRepo, allocator, idGen).
		WithRetrier(postgresRepo.NewRetrier()).
		WithMetrics(appMetrics).
		WithBalanceInvalidator(balanceUC)
	reversalUC := usecase.NewReversalUseCase(postingUC, txManager, txnRepo, entryRepo, auditRepo).
		WithMetrics(appMetrics).
		WithBalanceInvalidator(balanceUC)
	verifyUC := usecase.NewVerifyUseCase(txnRepo, entryRepo).
		WithMetrics(appMetrics).
		WithAuditTrail(txManager, auditRepo)
	reportUC := usecase.NewReportUseCase(accountRepo, entryRepo, auditRepo, balanceUC, idGen)
	periodUC := usecase.NewPeriodUseCase(accountRepo, entryRepo, periodRepo, idGen)

	rateLimiter := middleware.NewRateLimiter(float64(cfg.RateLimitPerMinute)/60, cfg.RateLimitPerMinute)
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			rateLimiter.Prune(1 * time.Hour)
		}
	}()

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:     handler.NewAccountHandler(accountUC, cfg.SourceSystem),
		TransactionHandler: handler.NewTransactionHandler(postingUC, reversalUC, cfg.SourceSystem),
		BalanceHandler:     handler.NewBalanceHandler(balanceUC),
		VerifyHandler:      handler.NewVerifyHandler(verifyUC),
		ReportHandler:      handler.NewReportHandler(reportUC),
		PeriodHandler:      handler.NewPeriodHandler(periodUC),
		HealthHandler:      handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:   idempotencyStore,
		RateLimiter:        rateLimiter,
		Logger:             log,
	})

	// Create server
	server := &http.Server{
		Addr:         cfg.HTTPAddr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
