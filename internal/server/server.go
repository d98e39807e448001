package server

import (
	"log/slog"
	"net/http"

	"sellerwave/internal/handlers"
	"sellerwave/internal/services"
)

type Server struct {
	reports     *services.Reports
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(reports *services.Reports, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		reports:     reports,
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(reports, logger),
		sseHandlers: handlers.NewSSEHandlers(reports, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Page routes
	s.mux.HandleFunc("GET /", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints
	s.mux.HandleFunc("GET /api/dashboard", s.apiHandlers.HandleDashboard)
	s.mux.HandleFunc("GET /api/decision", s.apiHandlers.HandleDecision)
	s.mux.HandleFunc("GET /api/explore", s.apiHandlers.HandleExplore)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/dashboard", s.sseHandlers.HandleDashboard)
	s.mux.HandleFunc("GET /sse/decision", s.sseHandlers.HandleDecision)
	s.mux.HandleFunc("GET /sse/explore", s.sseHandlers.HandleExplore)
	s.mux.HandleFunc("GET /sse/refresh-all", s.sseHandlers.HandleRefreshAll)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
