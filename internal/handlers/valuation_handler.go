package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/loanlens/internal/interfaces"
	"github.com/ternarybob/loanlens/internal/models"
)

// ValuationHandler serves on-demand property valuation lookups.
type ValuationHandler struct {
	valuation interfaces.ValuationService
	logger    arbor.ILogger
}

// NewValuationHandler creates a new ValuationHandler instance.
func NewValuationHandler(valuation interfaces.ValuationService, logger arbor.ILogger) *ValuationHandler {
	return &ValuationHandler{
		valuation: valuation,
		logger:    logger,
	}
}

// GetHandler handles GET /api/property-valuation?address=...
// The response combines the AVM estimate with the sale history trend.
func (h *ValuationHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	address := r.URL.Query().Get("address")
	if address == "" {
		WriteError(w, http.StatusBadRequest, "address required")
		return
	}

	valuation, err := h.valuation.GetPropertyValue(r.Context(), address)
	if err != nil {
		h.logger.Error().Err(err).Str("address", address).Msg("Property valuation lookup failed")
		WriteError(w, http.StatusInternalServerError, "Valuation lookup failed")
		return
	}

	history, err := h.valuation.GetSalesHistory(r.Context(), address)
	if err != nil {
		h.logger.Warn().Err(err).Str("address", address).Msg("Sale history lookup failed")
		history = []models.PricePoint{}
	}

	result := *valuation
	result.PriceHistory = history

	WriteJSON(w, http.StatusOK, result)
}
