package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ternarybob/loanlens/internal/models"
)

func TestGenerateRecommendations_EmptyWhenAllPass(t *testing.T) {
	metrics := models.LoanMetrics{LTV: 80, DTI: 43}

	recommendations := GenerateRecommendations(metrics, intPtr(620), testCriteria())

	assert.Empty(t, recommendations)
}

func TestGenerateRecommendations_StableOrder(t *testing.T) {
	metrics := models.LoanMetrics{LTV: 95, DTI: 50}

	recommendations := GenerateRecommendations(metrics, intPtr(580), testCriteria())

	assert.Equal(t, []string{
		RecommendationLTV,
		RecommendationDTI,
		RecommendationCredit,
	}, recommendations)
}

func TestGenerateRecommendations_SingleViolations(t *testing.T) {
	tests := []struct {
		name    string
		metrics models.LoanMetrics
		credit  int
		want    []string
	}{
		{"ltv only", models.LoanMetrics{LTV: 80.01, DTI: 43}, 620, []string{RecommendationLTV}},
		{"dti only", models.LoanMetrics{LTV: 80, DTI: 43.01}, 620, []string{RecommendationDTI}},
		{"credit only", models.LoanMetrics{LTV: 80, DTI: 43}, 619, []string{RecommendationCredit}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateRecommendations(tt.metrics, intPtr(tt.credit), testCriteria())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateRecommendations_NilCreditHasNoCreditIssue(t *testing.T) {
	// Asymmetric to the classifier: an unscored borrower gets no credit
	// suggestion.
	metrics := models.LoanMetrics{LTV: 90, DTI: 43}

	recommendations := GenerateRecommendations(metrics, nil, testCriteria())

	assert.Equal(t, []string{RecommendationLTV}, recommendations)
}
