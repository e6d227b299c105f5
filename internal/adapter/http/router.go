package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Catson28/financial-ledger-system/internal/adapter/http/handler"
	"github.com/Catson28/financial-ledger-system/internal/adapter/http/middleware"
	"github.com/Catson28/financial-ledger-system/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler     *handler.AccountHandler
	TransactionHandler *handler.TransactionHandler
	BalanceHandler     *handler.BalanceHandler
	VerifyHandler      *handler.VerifyHandler
	ReportHandler      *handler.ReportHandler
	PeriodHandler      *handler.PeriodHandler
	HealthHandler      *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	RateLimiter      *middleware.RateLimiter
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{code}", cfg.AccountHandler.Get)
			r.Delete("/{code}", cfg.AccountHandler.Deactivate)
			r.Get("/{code}/balance", cfg.BalanceHandler.Get)
			r.Get("/{code}/ledger", cfg.ReportHandler.GeneralLedger)
		})

		// Transactions
		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", cfg.TransactionHandler.Post)
			r.Get("/{id}", cfg.TransactionHandler.Get)
			r.Post("/{id}/reverse", cfg.TransactionHandler.Reverse)
			r.Get("/{id}/verify", cfg.VerifyHandler.Hash)
		})

		// Reports
		r.Route("/reports", func(r chi.Router) {
			r.Get("/trial-balance", cfg.BalanceHandler.TrialBalance)
			r.Get("/balance-sheet", cfg.ReportHandler.BalanceSheet)
			r.Get("/income-statement", cfg.ReportHandler.IncomeStatement)
		})

		// Integrity and audit
		r.Get("/verify", cfg.VerifyHandler.Integrity)
		r.Get("/audit", cfg.ReportHandler.AuditTrail)

		// Closing periods
		r.Route("/periods", func(r chi.Router) {
			r.Post("/close", cfg.PeriodHandler.Close)
			r.Get("/", cfg.PeriodHandler.List)
		})
	})

	return r
}
