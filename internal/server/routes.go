package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Documents (rate limited, each request costs LLM tokens)
	mux.HandleFunc("/api/documents/analyze", s.rateLimited(s.app.DocumentHandler.AnalyzeHandler))
	mux.HandleFunc("/api/documents/process", s.rateLimited(s.app.DocumentHandler.ProcessHandler))

	// API routes - Stored analyses
	mux.HandleFunc("/api/analysis/latest", s.app.AnalysisHandler.LatestHandler)
	mux.HandleFunc("/api/analysis/history", s.app.AnalysisHandler.HistoryHandler)

	// API routes - Property valuation
	mux.HandleFunc("/api/property-valuation", s.app.ValuationHandler.GetHandler)

	// API routes - Notifications
	mux.HandleFunc("/api/notifications/send-approval", s.app.NotificationHandler.SendApprovalHandler)
	mux.HandleFunc("/api/notifications/send-conditional", s.app.NotificationHandler.SendConditionalHandler)
	mux.HandleFunc("/api/notifications/history", s.app.NotificationHandler.HistoryHandler)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/api/criteria", s.app.APIHandler.CriteriaHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}
