package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iho/gobudget/internal/adapter/http/handler"
	"github.com/iho/gobudget/internal/adapter/http/middleware"
	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/infrastructure/auth"
	"github.com/iho/gobudget/internal/usecase"
)

// RouterConfig holds dependencies for the router. JWTManager,
// IdempotencyStore, RateLimiter and Logging are optional; nil disables
// the corresponding middleware.
type RouterConfig struct {
	BudgetHandler      *handler.BudgetHandler
	TransactionHandler *handler.TransactionHandler
	ReportHandler      *handler.ReportHandler
	AuthHandler        *handler.AuthHandler
	AuditHandler       *handler.AuditHandler
	HealthHandler      *handler.HealthHandler
	JWTManager         *auth.JWTManager
	IdempotencyStore   usecase.IdempotencyStore
	RateLimiter        *middleware.RateLimiter
	Logging            *middleware.LoggingMiddleware
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.Logging != nil {
		r.Use(cfg.Logging.Wrap)
	}
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Auth (public)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/login", cfg.AuthHandler.Login)
		})

		// Everything below requires a valid token.
		r.Group(func(r chi.Router) {
			if cfg.JWTManager != nil {
				r.Use(middleware.AuthMiddleware(cfg.JWTManager))
			}

			r.Get("/auth/me", cfg.AuthHandler.Me)
			r.Put("/auth/me", cfg.AuthHandler.UpdateMe)

			// Budgets
			r.Route("/budgets", func(r chi.Router) {
				r.Post("/", cfg.BudgetHandler.Create)
				r.Get("/", cfg.BudgetHandler.List)
				r.Get("/{id}", cfg.BudgetHandler.Get)
				r.Put("/{id}", cfg.BudgetHandler.Update)
				r.Delete("/{id}", cfg.BudgetHandler.Delete)
				r.Post("/{id}/spend", cfg.BudgetHandler.Spend)
				r.Put("/{id}/spending/{transactionID}", cfg.BudgetHandler.UpdateSpending)
				r.Delete("/{id}/spending/{transactionID}", cfg.BudgetHandler.RemoveSpending)
			})

			// Standalone transactions
			r.Route("/transactions", func(r chi.Router) {
				r.Post("/", cfg.TransactionHandler.Create)
				r.Get("/", cfg.TransactionHandler.List)
				r.Get("/{id}", cfg.TransactionHandler.Get)
				r.Put("/{id}", cfg.TransactionHandler.Update)
				r.Delete("/{id}", cfg.TransactionHandler.Delete)
			})

			// Reports
			r.Get("/reports/summary", cfg.ReportHandler.MonthSummary)

			// Admin
			if cfg.AuditHandler != nil {
				r.With(middleware.RequireRole(domain.RoleAdmin)).
					Get("/admin/audit", cfg.AuditHandler.List)
			}
		})
	})

	return r
}
