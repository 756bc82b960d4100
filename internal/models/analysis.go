package models

import "time"

// EligibilityStatus is the terminal decision tier for an application.
type EligibilityStatus string

const (
	EligibilityApproved    EligibilityStatus = "approved"
	EligibilityConditional EligibilityStatus = "conditional"
	EligibilityDenied      EligibilityStatus = "denied"
)

// Reason strings attached to each eligibility tier.
const (
	ReasonApproved    = "All metrics within lender thresholds"
	ReasonConditional = "Close to thresholds; additional documentation required"
	ReasonDenied      = "Key metrics outside lender thresholds"
)

// ValuationSummary is the valuation block embedded in an analysis record.
// PriceHistory is real sale history when the valuation collaborator supplied
// one, otherwise a synthetic placeholder trend.
type ValuationSummary struct {
	EstimatedValue float64      `json:"estimatedValue"`
	Confidence     float64      `json:"confidence,omitempty"`
	LowEstimate    float64      `json:"lowEstimate,omitempty"`
	HighEstimate   float64      `json:"highEstimate,omitempty"`
	PriceHistory   []PricePoint `json:"priceHistory,omitempty"`
}

// DocumentAnalysis is the immutable top-level record produced once per
// document submission. It is never mutated after construction; the latest
// record overwrites the previous one in storage while history is append-only.
type DocumentAnalysis struct {
	ID                string            `json:"id" badgerhold:"key"`
	Extracted         ExtractedFacts    `json:"extracted"`
	Valuation         *ValuationSummary `json:"valuation,omitempty"`
	Metrics           LoanMetrics       `json:"metrics"`
	EligibilityStatus EligibilityStatus `json:"eligibilityStatus"`
	EligibilityReason string            `json:"eligibilityReason"`
	Recommendations   []string          `json:"recommendations"`
	CreatedAt         time.Time         `json:"createdAt"`
}
