package interfaces

import (
	"context"

	"github.com/ternarybob/loanlens/internal/models"
)

// ValuationService looks up an external property valuation and sale history
// for an address. Lookups for the same address within a process lifetime
// return a cached point-in-time snapshot; the cache is owned by the service
// instance, not by ambient package state.
type ValuationService interface {
	// GetPropertyValue returns the AVM estimate for the address.
	GetPropertyValue(ctx context.Context, address string) (*models.PropertyValuation, error)

	// GetSalesHistory returns up to 12 chronologically ordered monthly price
	// points for the address. An empty slice is a valid result.
	GetSalesHistory(ctx context.Context, address string) ([]models.PricePoint, error)
}
