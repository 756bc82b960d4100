package analyzer

import (
	"github.com/ternarybob/loanlens/internal/models"
)

// Fixed suggestion texts, one per threshold check.
const (
	RecommendationLTV    = "Consider a larger down payment or lower loan amount"
	RecommendationDTI    = "Reduce monthly debts or increase verifiable income"
	RecommendationCredit = "Provide credit history explanations or improve credit score"
)

// GenerateRecommendations returns improvement suggestions in stable order:
// LTV, then DTI, then credit. The list is empty when all three checks pass.
// An unscored borrower (nil creditScore) is treated as having no credit issue
// here, asymmetric to the classifier's zero default.
func GenerateRecommendations(metrics models.LoanMetrics, creditScore *int, criteria models.MortgageCriteria) []string {
	score := models.CreditScoreMax
	if creditScore != nil {
		score = *creditScore
	}

	recommendations := []string{}
	if metrics.LTV > criteria.MaxLTVPercent {
		recommendations = append(recommendations, RecommendationLTV)
	}
	if metrics.DTI > criteria.MaxDTIPercent {
		recommendations = append(recommendations, RecommendationDTI)
	}
	if score < criteria.MinCreditScore {
		recommendations = append(recommendations, RecommendationCredit)
	}
	return recommendations
}
