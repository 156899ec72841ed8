package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/kovai/pawnbook/internal/adapter/http/handler"
	"github.com/kovai/pawnbook/internal/adapter/http/middleware"
	"github.com/kovai/pawnbook/internal/domain"
	"github.com/kovai/pawnbook/internal/infrastructure/auth"
	"github.com/kovai/pawnbook/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler    *handler.AccountHandler
	LedgerHandler     *handler.LedgerHandler
	PledgeHandler     *handler.PledgeHandler
	ReceiptHandler    *handler.ReceiptHandler
	BankPledgeHandler *handler.BankPledgeHandler
	ExpenseHandler    *handler.ExpenseHandler
	VoucherHandler    *handler.VoucherHandler
	HealthHandler     *handler.HealthHandler

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration

	// JWTManager enables authentication and role checks when set.
	JWTManager  *auth.JWTManager
	RateLimiter *middleware.RateLimiter
	Logger      zerolog.Logger

	// DefaultCompanyID scopes requests that carry neither a JWT nor an
	// X-Company-ID header.
	DefaultCompanyID string
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

	// requires gates a route on a role predicate; with auth disabled
	// every request passes.
	requires := func(allowed func(domain.Role) bool) func(http.Handler) http.Handler {
		if cfg.JWTManager == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		return middleware.RequirePermission(allowed)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTManager != nil {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))
		}
		r.Use(middleware.CompanyContext(cfg.DefaultCompanyID))

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Chart of accounts
		r.Route("/accounts", func(r chi.Router) {
			r.With(requires(domain.Role.CanManageAccounts)).Post("/", cfg.AccountHandler.Create)
			r.With(requires(domain.Role.CanManageAccounts)).Post("/seed", cfg.AccountHandler.Seed)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.With(requires(domain.Role.CanManageAccounts)).Put("/{id}", cfg.AccountHandler.Update)
			r.With(requires(domain.Role.CanDelete)).Delete("/{id}", cfg.AccountHandler.Delete)
			r.Get("/{id}/entries", cfg.LedgerHandler.ListByAccount)
		})

		// Ledger reports
		r.Route("/ledger", func(r chi.Router) {
			r.Get("/trial-balance", cfg.LedgerHandler.TrialBalance)
			r.Get("/consistency", cfg.LedgerHandler.CheckConsistency)
			r.Get("/entries", cfg.LedgerHandler.ListByReference)
		})

		// Pledges
		r.Route("/pledges", func(r chi.Router) {
			r.With(requires(domain.Role.CanPost)).Post("/", cfg.PledgeHandler.Create)
			r.Get("/", cfg.PledgeHandler.List)
			r.Get("/{id}", cfg.PledgeHandler.Get)
			r.With(requires(domain.Role.CanDelete)).Delete("/{id}", cfg.PledgeHandler.Delete)
		})

		// Receipts
		r.Route("/receipts", func(r chi.Router) {
			r.With(requires(domain.Role.CanPost)).Post("/", cfg.ReceiptHandler.Create)
			r.Get("/", cfg.ReceiptHandler.List)
			r.Get("/{id}", cfg.ReceiptHandler.Get)
			r.With(requires(domain.Role.CanPost)).Put("/{id}", cfg.ReceiptHandler.Update)
			r.With(requires(domain.Role.CanPost)).Post("/{id}/post", cfg.ReceiptHandler.Post)
			r.With(requires(domain.Role.CanVoid)).Post("/{id}/void", cfg.ReceiptHandler.Void)
			r.With(requires(domain.Role.CanDelete)).Delete("/{id}", cfg.ReceiptHandler.Delete)
		})

		// Bank pledges
		r.Route("/bank-pledges", func(r chi.Router) {
			r.With(requires(domain.Role.CanPost)).Post("/", cfg.BankPledgeHandler.Transfer)
			r.Get("/", cfg.BankPledgeHandler.List)
			r.Get("/{id}", cfg.BankPledgeHandler.Get)
			r.With(requires(domain.Role.CanPost)).Post("/{id}/redeem", cfg.BankPledgeHandler.Redeem)
			r.With(requires(domain.Role.CanVoid)).Post("/{id}/cancel", cfg.BankPledgeHandler.Cancel)
		})

		// Expenses
		r.Route("/expenses", func(r chi.Router) {
			r.With(requires(domain.Role.CanPost)).Post("/", cfg.ExpenseHandler.Create)
			r.Get("/", cfg.ExpenseHandler.List)
			r.Get("/{id}", cfg.ExpenseHandler.Get)
			r.With(requires(domain.Role.CanVoid)).Delete("/{id}", cfg.ExpenseHandler.Delete)
		})

		// Manual vouchers
		r.Route("/vouchers", func(r chi.Router) {
			r.With(requires(domain.Role.CanPost)).Post("/", cfg.VoucherHandler.Create)
			r.Get("/", cfg.VoucherHandler.List)
			r.Get("/{id}", cfg.VoucherHandler.Get)
			r.With(requires(domain.Role.CanVoid)).Post("/{id}/reverse", cfg.VoucherHandler.Reverse)
		})
	})

	return r
}
