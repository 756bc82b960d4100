// -----------------------------------------------------------------------
// Property Valuation Service - RentCast AVM client
// Results are cached per address for the lifetime of the process.
// -----------------------------------------------------------------------

package valuation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/loanlens/internal/common"
	"github.com/ternarybob/loanlens/internal/interfaces"
	"github.com/ternarybob/loanlens/internal/models"
)

// historyMonths is how many sale events the price trend keeps, oldest first.
const historyMonths = 12

// Service implements ValuationService against the RentCast API.
type Service struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     arbor.ILogger

	mu           sync.Mutex
	valueCache   map[string]*models.PropertyValuation
	historyCache map[string][]models.PricePoint
}

// Compile-time interface assertion
var _ interfaces.ValuationService = (*Service)(nil)

// NewService creates a RentCast valuation client.
func NewService(config *common.Config, logger arbor.ILogger) *Service {
	return &Service{
		baseURL:      config.Valuation.BaseURL,
		apiKey:       config.Valuation.APIKey,
		httpClient:   &http.Client{Timeout: config.ValuationTimeout()},
		logger:       logger,
		valueCache:   make(map[string]*models.PropertyValuation),
		historyCache: make(map[string][]models.PricePoint),
	}
}

// avmResponse mirrors the RentCast /avm/value payload. The estimate and the
// range bounds each appear under several names depending on API version.
type avmResponse struct {
	Price          float64 `json:"price"`
	EstimatedValue float64 `json:"estimatedValue"`
	Confidence     float64 `json:"confidence"`
	PriceRangeLow  float64 `json:"priceRangeLow"`
	PriceRangeHigh float64 `json:"priceRangeHigh"`
	LowEstimate    float64 `json:"lowEstimate"`
	HighEstimate   float64 `json:"highEstimate"`
	Range          struct {
		Low  float64 `json:"low"`
		High float64 `json:"high"`
	} `json:"range"`
}

// historyEvent is a single sale or listing event on a property record.
type historyEvent struct {
	Event string  `json:"event"`
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// propertyRecord is the subset of the RentCast /properties payload we use.
type propertyRecord struct {
	History map[string]historyEvent `json:"history"`
}

// GetPropertyValue returns the AVM estimate for an address.
func (s *Service) GetPropertyValue(ctx context.Context, address string) (*models.PropertyValuation, error) {
	s.mu.Lock()
	if cached, ok := s.valueCache[address]; ok {
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	if s.apiKey == "" {
		return nil, fmt.Errorf("RentCast API key is not configured")
	}

	body, status, err := s.get(ctx, "/avm/value", address)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("RentCast error: %d %s", status, string(body))
	}

	var data avmResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to decode RentCast valuation: %w", err)
	}

	valuation := &models.PropertyValuation{
		EstimatedValue: firstNonZero(data.Price, data.EstimatedValue),
		Confidence:     data.Confidence,
		LowEstimate:    firstNonZero(data.PriceRangeLow, data.Range.Low, data.LowEstimate),
		HighEstimate:   firstNonZero(data.PriceRangeHigh, data.Range.High, data.HighEstimate),
	}

	s.logger.Debug().
		Str("address", address).
		Float64("estimated_value", valuation.EstimatedValue).
		Msg("Property valuation retrieved")

	s.mu.Lock()
	s.valueCache[address] = valuation
	s.mu.Unlock()

	return valuation, nil
}

// GetSalesHistory returns up to the last 12 sale events for an address as
// month-labelled price points, oldest first. A property with no usable
// record yields an empty slice, not an error.
func (s *Service) GetSalesHistory(ctx context.Context, address string) ([]models.PricePoint, error) {
	s.mu.Lock()
	if cached, ok := s.historyCache[address]; ok {
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	if s.apiKey == "" {
		return nil, fmt.Errorf("RentCast API key is not configured")
	}

	body, status, err := s.get(ctx, "/properties", address)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		s.logger.Debug().Str("address", address).Int("status", status).Msg("No property record for sale history")
		return []models.PricePoint{}, nil
	}

	var records []propertyRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to decode RentCast property record: %w", err)
	}

	points := mapSaleHistory(records)

	s.mu.Lock()
	s.historyCache[address] = points
	s.mu.Unlock()

	return points, nil
}

// get performs an authenticated GET against a RentCast endpoint.
func (s *Service) get(ctx context.Context, path, address string) ([]byte, int, error) {
	endpoint := fmt.Sprintf("%s%s?address=%s", s.baseURL, path, url.QueryEscape(address))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid RentCast request: %w", err)
	}
	req.Header.Set("X-Api-Key", s.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("RentCast request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read RentCast response: %w", err)
	}

	return body, resp.StatusCode, nil
}

// mapSaleHistory flattens the first property record's event map into priced,
// chronologically sorted points, keeping the most recent 12.
func mapSaleHistory(records []propertyRecord) []models.PricePoint {
	if len(records) == 0 {
		return []models.PricePoint{}
	}

	type datedPrice struct {
		date  time.Time
		value float64
	}

	dated := make([]datedPrice, 0, len(records[0].History))
	for key, event := range records[0].History {
		if event.Price <= 0 {
			continue
		}
		date, ok := parseEventDate(event.Date)
		if !ok {
			if date, ok = parseEventDate(key); !ok {
				continue
			}
		}
		dated = append(dated, datedPrice{date: date, value: event.Price})
	}

	sort.Slice(dated, func(i, j int) bool { return dated[i].date.Before(dated[j].date) })
	if len(dated) > historyMonths {
		dated = dated[len(dated)-historyMonths:]
	}

	points := make([]models.PricePoint, 0, len(dated))
	for _, d := range dated {
		points = append(points, models.PricePoint{
			Month: d.date.Format("Jan 2006"),
			Value: int(d.value),
		})
	}
	return points
}

// parseEventDate accepts the date layouts RentCast uses for history keys and
// event timestamps.
func parseEventDate(raw string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// firstNonZero returns the first non-zero value, or zero when all are zero.
func firstNonZero(values ...float64) float64 {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
