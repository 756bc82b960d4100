package analyzer

import (
	"math"
	"time"

	"github.com/ternarybob/loanlens/internal/models"
)

// Synthetic history bounds: baselines below the floor are clamped up, and a
// zero baseline falls back to the default.
const (
	syntheticBaselineFloor   = 100000.0
	syntheticBaselineDefault = 300000.0
	syntheticMonths          = 12
)

// GenerateSyntheticHistory produces a deterministic 12-point placeholder
// price trend ending at the month of now, oldest first. It is used only when
// the valuation collaborator supplied no real history (fewer than 1 point);
// a reproducible sine drift keeps the presentation layer populated without
// pretending to be a statistical model.
func GenerateSyntheticHistory(baseline float64, now time.Time) []models.PricePoint {
	base := baseline
	if base == 0 {
		base = syntheticBaselineDefault
	}
	base = math.Max(syntheticBaselineFloor, base)

	points := make([]models.PricePoint, 0, syntheticMonths)
	for i := syntheticMonths - 1; i >= 0; i-- {
		month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
		drift := 1 + math.Sin(float64(i)/2)*0.02 + float64(i)*0.001
		points = append(points, models.PricePoint{
			Month: month.Format("Jan 2006"),
			Value: int(math.Round(base * drift)),
		})
	}
	return points
}
