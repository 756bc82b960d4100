package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/loanlens/internal/common"
	"github.com/ternarybob/loanlens/internal/models"
)

// CriteriaProvider exposes the configured lender thresholds.
type CriteriaProvider interface {
	Criteria() models.MortgageCriteria
}

type APIHandler struct {
	criteria CriteriaProvider
	logger   arbor.ILogger
}

func NewAPIHandler(criteria CriteriaProvider, logger arbor.ILogger) *APIHandler {
	return &APIHandler{
		criteria: criteria,
		logger:   logger,
	}
}

// VersionHandler returns version information
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version":    common.GetVersion(),
		"build":      common.GetBuild(),
		"git_commit": common.GetGitCommit(),
	})
}

// HealthHandler returns health check status
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// CriteriaHandler returns the lender thresholds analyses are scored against.
func (h *APIHandler) CriteriaHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, h.criteria.Criteria())
}

// NotFoundHandler handles 404 errors with JSON response
func (h *APIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, map[string]interface{}{
		"error":   "Not Found",
		"path":    r.URL.Path,
		"message": "The requested endpoint does not exist",
	})
}
