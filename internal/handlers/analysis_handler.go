package handlers

import (
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/loanlens/internal/interfaces"
)

// AnalysisHandler serves stored analysis records.
type AnalysisHandler struct {
	storage interfaces.AnalysisStorage
	logger  arbor.ILogger
}

// NewAnalysisHandler creates a new AnalysisHandler instance.
func NewAnalysisHandler(storage interfaces.AnalysisStorage, logger arbor.ILogger) *AnalysisHandler {
	return &AnalysisHandler{
		storage: storage,
		logger:  logger,
	}
}

// LatestHandler handles GET /api/analysis/latest.
func (h *AnalysisHandler) LatestHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	analysis, err := h.storage.GetLatest(r.Context())
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "No analysis found")
			return
		}
		h.logger.Error().Err(err).Msg("Failed to load latest analysis")
		WriteError(w, http.StatusInternalServerError, "Failed to load latest analysis")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"analysis": analysis,
	})
}

// HistoryHandler handles GET /api/analysis/history.
func (h *AnalysisHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	limit := GetLimitParam(r, 50, 200)

	history, err := h.storage.ListHistory(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to load analysis history")
		WriteError(w, http.StatusInternalServerError, "Failed to load analysis history")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"analyses": history,
	})
}
