package models

// SentinelBorrowerEmail is substituted when a document carries no borrower
// email. Downstream notification logic treats it like any other address; the
// orchestrator never auto-notifies without a real first name anyway.
const SentinelBorrowerEmail = "unknown-borrower@loanlens.local"

// Credit score bounds and defaults applied by the document parser.
const (
	CreditScoreMin     = 300
	CreditScoreMax     = 850
	CreditScoreDefault = 720
)

// DefaultLoanTermYears is assumed when a document does not state a term.
const DefaultLoanTermYears = 30

// BorrowerInfo identifies the borrower named on the document.
type BorrowerInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// ExtractedFacts is the normalized schema produced by the document parser.
// All numeric fields default to zero when the document omits them; the
// metrics calculator applies its own fallbacks on top.
type ExtractedFacts struct {
	BorrowerInfo         BorrowerInfo `json:"borrowerInfo"`
	PropertyAddress      string       `json:"propertyAddress,omitempty"`
	ZipCode              string       `json:"zipCode,omitempty"`
	LoanAmount           float64      `json:"loanAmount"`
	InterestRate         float64      `json:"interestRate"` // percent
	LoanTermYears        int          `json:"loanTerm"`
	MonthlyDebtPayments  float64      `json:"monthlyDebtPayments"`
	MonthlyIncome        float64      `json:"monthlyIncome"`
	PrincipalAndInterest float64      `json:"principalAndInterest"`
	PropertyTax          float64      `json:"propertyTax"`
	Insurance            float64      `json:"insurance"`
	CreditScore          int          `json:"creditScore"`
}

// ClampCreditScore applies the parser-side credit score policy: 720 when
// missing or non-positive, clamped to [300, 850] otherwise.
func ClampCreditScore(raw int) int {
	if raw <= 0 {
		return CreditScoreDefault
	}
	if raw < CreditScoreMin {
		return CreditScoreMin
	}
	if raw > CreditScoreMax {
		return CreditScoreMax
	}
	return raw
}

// PricePoint is a single month of property price history.
type PricePoint struct {
	Month string `json:"month"` // e.g. "Jan 2026"
	Value int    `json:"value"`
}

// PropertyValuation is the result of an AVM lookup for a property address.
type PropertyValuation struct {
	EstimatedValue float64      `json:"estimatedValue"`
	Confidence     float64      `json:"confidence,omitempty"`
	LowEstimate    float64      `json:"lowEstimate,omitempty"`
	HighEstimate   float64      `json:"highEstimate,omitempty"`
	PriceHistory   []PricePoint `json:"priceHistory,omitempty"`
}

// LoanMetrics holds the derived underwriting ratios for an application.
// Percentages are rounded to two decimals, monetary amounts to whole units.
type LoanMetrics struct {
	LTV            float64 `json:"ltv"`
	DTI            float64 `json:"dti"`
	HousingRatio   float64 `json:"housingRatio"`
	PITI           int     `json:"piti"`
	MonthlyPayment int     `json:"monthlyPayment"`
}

// MortgageCriteria are the lender policy thresholds the classifier and the
// recommendation generator evaluate against.
type MortgageCriteria struct {
	MaxLTVPercent  float64 `json:"maxLtvPercent" toml:"max_ltv_percent"`
	MaxDTIPercent  float64 `json:"maxDtiPercent" toml:"max_dti_percent"`
	MinCreditScore int     `json:"minCreditScore" toml:"min_credit_score"`
}

// DefaultMortgageCriteria mirrors the lender defaults used when no criteria
// are configured.
func DefaultMortgageCriteria() MortgageCriteria {
	return MortgageCriteria{
		MaxLTVPercent:  80,
		MaxDTIPercent:  43,
		MinCreditScore: 620,
	}
}

// LoanApprovalDetails carries the figures rendered into an approval email.
type LoanApprovalDetails struct {
	LoanID          string  `json:"loanId"`
	LoanAmount      float64 `json:"loanAmount"`
	InterestRate    float64 `json:"interestRate"`
	LoanTermYears   int     `json:"loanTerm"`
	MonthlyPayment  int     `json:"monthlyPayment"`
	PropertyAddress string  `json:"propertyAddress,omitempty"`
	LTV             float64 `json:"ltv"`
	DTI             float64 `json:"dti"`
	CreditScore     int     `json:"creditScore"`
}
