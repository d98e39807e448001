package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"sellerwave/internal/config"
	"sellerwave/internal/middleware"
	"sellerwave/internal/observability"
	"sellerwave/internal/server"
	"sellerwave/internal/services"
	"sellerwave/internal/ui/templates"
	"sellerwave/internal/warehouse"
)

const (
	renderTimeout   = 10 * time.Second
	dataLoadTimeout = 30 * time.Second
	cacheMaxAge     = "public, max-age=300"
)

// Template handler functions that can access the template functions
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	w.Header().Set("Cache-Control", cacheMaxAge)
	if err := templates.Dashboard().Render(ctx, w); err != nil {
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"config", cfg,
	)

	src, err := warehouse.Open(cfg.Warehouse)
	if err != nil {
		logger.Error("failed to open warehouse source", "error", err)
		os.Exit(1)
	}

	reports := services.NewReports(logger)
	ctx, cancel := context.WithTimeout(context.Background(), dataLoadTimeout)
	defer cancel()

	if err := reports.Load(ctx, src); err != nil {
		logger.Error("failed to load sales data", "error", err)
		os.Exit(1)
	}

	templateHandlers := &server.TemplateHandlers{
		Dashboard: handleDashboard,
	}

	srv := server.NewServer(reports, logger, templateHandlers)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	handler := middlewareChain(srv)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("shutting down report service")
		return nil
	})

	logger.Info("starting graceful server")
	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
