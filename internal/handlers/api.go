package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"sellerwave/internal/errors"
	"sellerwave/internal/services"
)

type APIHandlers struct {
	reports *services.Reports
	logger  *slog.Logger
}

func NewAPIHandlers(reports *services.Reports, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		reports: reports,
		logger:  logger,
	}
}

func (h *APIHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {

	view := h.reports.Dashboard(r.Context())

	headers := map[string]string{
		"Cache-Control": "public, max-age=300",
	}

	errors.WriteSuccessWithHeaders(w, view, headers)
}

func (h *APIHandlers) HandleDecision(w http.ResponseWriter, r *http.Request) {

	view := h.reports.Decision(r.Context())

	headers := map[string]string{
		"Cache-Control": "public, max-age=300",
	}

	errors.WriteSuccessWithHeaders(w, view, headers)
}

func (h *APIHandlers) HandleExplore(w http.ResponseWriter, r *http.Request) {

	view := h.reports.Explore(r.Context())

	headers := map[string]string{
		"Cache-Control": "public, max-age=300",
	}

	errors.WriteSuccessWithHeaders(w, view, headers)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {

	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {

	stats := h.reports.Stats()

	errors.WriteSuccess(w, stats)
}
