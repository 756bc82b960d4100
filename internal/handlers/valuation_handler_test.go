package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/loanlens/internal/models"
)

type stubValuation struct {
	valuation  *models.PropertyValuation
	history    []models.PricePoint
	valueErr   error
	historyErr error
}

func (s *stubValuation) GetPropertyValue(ctx context.Context, address string) (*models.PropertyValuation, error) {
	if s.valueErr != nil {
		return nil, s.valueErr
	}
	return s.valuation, nil
}

func (s *stubValuation) GetSalesHistory(ctx context.Context, address string) ([]models.PricePoint, error) {
	if s.historyErr != nil {
		return nil, s.historyErr
	}
	return s.history, nil
}

func TestValuationGetHandler(t *testing.T) {
	stub := &stubValuation{
		valuation: &models.PropertyValuation{EstimatedValue: 400000, Confidence: 0.92},
		history: []models.PricePoint{
			{Month: "Jan 2024", Value: 380000},
			{Month: "Feb 2024", Value: 390000},
		},
	}
	handler := NewValuationHandler(stub, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/property-valuation?address=123+Main+St", nil)
	rec := httptest.NewRecorder()

	handler.GetHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.PropertyValuation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 400000.0, resp.EstimatedValue)
	require.Len(t, resp.PriceHistory, 2)
	assert.Equal(t, "Jan 2024", resp.PriceHistory[0].Month)
}

func TestValuationGetHandler_MissingAddress(t *testing.T) {
	handler := NewValuationHandler(&stubValuation{}, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/property-valuation", nil)
	rec := httptest.NewRecorder()

	handler.GetHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "address required")
}

func TestValuationGetHandler_LookupError(t *testing.T) {
	handler := NewValuationHandler(&stubValuation{valueErr: errors.New("RentCast error: 500")}, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/property-valuation?address=123+Main+St", nil)
	rec := httptest.NewRecorder()

	handler.GetHandler(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestValuationGetHandler_HistoryErrorDegradesToEmpty(t *testing.T) {
	stub := &stubValuation{
		valuation:  &models.PropertyValuation{EstimatedValue: 250000},
		historyErr: errors.New("timeout"),
	}
	handler := NewValuationHandler(stub, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/property-valuation?address=9+Elm+St", nil)
	rec := httptest.NewRecorder()

	handler.GetHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.PropertyValuation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 250000.0, resp.EstimatedValue)
	assert.Empty(t, resp.PriceHistory)
}
