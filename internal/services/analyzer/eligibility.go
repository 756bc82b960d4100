package analyzer

import (
	"github.com/ternarybob/loanlens/internal/models"
)

// Leniency margins for the conditional tier.
const (
	conditionalLTVMargin    = 5.0
	conditionalDTIMargin    = 5.0
	conditionalCreditMargin = 20
)

// AssessEligibility classifies metrics against the lender criteria.
// Approval requires every metric within threshold. The conditional tier is
// deliberately lenient: being close on ANY single dimension is enough, even
// when the others are far off. An unscored borrower (nil creditScore) counts
// as 0 here; the orchestrator always passes the already-defaulted score.
func AssessEligibility(metrics models.LoanMetrics, creditScore *int, criteria models.MortgageCriteria) (models.EligibilityStatus, string) {
	score := 0
	if creditScore != nil {
		score = *creditScore
	}

	meets := metrics.LTV <= criteria.MaxLTVPercent &&
		metrics.DTI <= criteria.MaxDTIPercent &&
		score >= criteria.MinCreditScore
	if meets {
		return models.EligibilityApproved, models.ReasonApproved
	}

	near := metrics.LTV <= criteria.MaxLTVPercent+conditionalLTVMargin ||
		metrics.DTI <= criteria.MaxDTIPercent+conditionalDTIMargin ||
		score >= criteria.MinCreditScore-conditionalCreditMargin
	if near {
		return models.EligibilityConditional, models.ReasonConditional
	}

	return models.EligibilityDenied, models.ReasonDenied
}
