package api

import (
	"coop-collections/internal/api/handler"
	mw "coop-collections/internal/api/middleware"
	"coop-collections/internal/config"
	"coop-collections/internal/domain/loan"
	"coop-collections/internal/domain/obligation"
	"coop-collections/internal/domain/purchase"
	"log/slog"
	"net/http"
	"time"

	_ "coop-collections/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Services struct {
	Loans       loan.LoanService
	Purchases   purchase.PurchaseService
	Obligations obligation.ObligationService
}

func SetupRouter(services Services, rateLimiter *mw.RateLimiterMiddleware, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(router, rateLimiter, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupAuthRoutes(router, cfg, logger)
	setupLoanRoutes(router, services.Loans, cfg, logger)
	setupPurchaseRoutes(router, services.Purchases, cfg, logger)
	setupObligationRoutes(router, services, cfg, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	setupSwaggerEndpoint(router, logger)

	return router
}

func setupMiddleware(router *chi.Mux, rateLimiter *mw.RateLimiterMiddleware, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	if rateLimiter != nil {
		router.Use(rateLimiter.Middleware)
	}
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupAuthRoutes(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	authHandler := handler.NewAuthHandler(cfg.Server.Auth, logger)
	router.Route("/auth", func(r chi.Router) {
		r.Post("/token", authHandler.GenerateBearerToken)
	})
}

func setupLoanRoutes(router *chi.Mux, loanService loan.LoanService, cfg *config.Config, logger *slog.Logger) {
	loanHandler := handler.NewLoanHandler(loanService, logger)

	router.Route("/loans", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", loanHandler.ApplyLoan)
		r.Get("/pending", loanHandler.ListPendingLoans)
		r.Get("/counts", loanHandler.CountLoans)
		r.Route("/{loanID}", func(r chi.Router) {
			r.Get("/schedule", loanHandler.GetSchedule)
			r.Get("/payments", loanHandler.ListPayments)
			r.Post("/payments", loanHandler.RecordPayment)
			r.Post("/approve", loanHandler.ApproveLoan)
			r.Post("/reject", loanHandler.RejectLoan)
		})
	})

	router.Route("/schedules", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/preview", loanHandler.PreviewSchedule)
	})
}

func setupPurchaseRoutes(router *chi.Mux, purchaseService purchase.PurchaseService, cfg *config.Config, logger *slog.Logger) {
	h := handler.NewPurchaseHandler(purchaseService, logger)

	router.Route("/purchases", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", h.CreatePurchase)
		r.Route("/{purchaseID}", func(r chi.Router) {
			r.Get("/", h.GetPurchase)
			r.Post("/pay", h.PayPurchase)
		})
	})
}

func setupObligationRoutes(router *chi.Mux, services Services, cfg *config.Config, logger *slog.Logger) {
	obligations := handler.NewObligationHandler(services.Obligations, logger)
	purchases := handler.NewPurchaseHandler(services.Purchases, logger)

	router.With(mw.AuthMiddleware(cfg.Server.Auth, logger)).Get("/obligations", obligations.ListObligations)

	router.Route("/members/{memberID}", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Get("/obligations", obligations.ListMemberObligations)
		r.Get("/purchases", purchases.ListMemberPurchases)
	})
}
