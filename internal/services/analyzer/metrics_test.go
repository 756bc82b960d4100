package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ternarybob/loanlens/internal/models"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestCalculateLoanMetrics_LTVExact(t *testing.T) {
	tests := []struct {
		name       string
		loanAmount float64
		estimate   *float64
		wantLTV    float64
	}{
		{"estimate above loan", 240000, floatPtr(300000), 80.00},
		{"estimate equals loan", 300000, floatPtr(300000), 100.00},
		{"loan above estimate", 330000, floatPtr(300000), 110.00},
		{"no valuation assumes full collateral", 300000, nil, 100.00},
		{"odd division rounds to 2dp", 100000, floatPtr(300000), 33.33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts := models.ExtractedFacts{
				LoanAmount:    tt.loanAmount,
				LoanTermYears: 30,
				MonthlyIncome: 8000,
			}
			metrics := CalculateLoanMetrics(facts, tt.estimate)
			assert.Equal(t, tt.wantLTV, metrics.LTV)
		})
	}
}

func TestCalculateMonthlyPayment_ZeroRate(t *testing.T) {
	// Straight-line split at 0% interest
	assert.Equal(t, 833, CalculateMonthlyPayment(300000, 0, 30))
	assert.Equal(t, 1000, CalculateMonthlyPayment(120000, 0, 10))
}

func TestCalculateMonthlyPayment_Amortized(t *testing.T) {
	// Standard amortization: 300k at 6.5% over 30 years
	assert.Equal(t, 1896, CalculateMonthlyPayment(300000, 6.5, 30))
	// 200k at 5% over 15 years
	assert.Equal(t, 1582, CalculateMonthlyPayment(200000, 5, 15))
}

func TestCalculateMonthlyPayment_DefaultTerm(t *testing.T) {
	// Zero term defaults to 30 years
	assert.Equal(t, CalculateMonthlyPayment(300000, 6.5, 30), CalculateMonthlyPayment(300000, 6.5, 0))
}

func TestCalculateLoanMetrics_ReferenceScenario(t *testing.T) {
	facts := models.ExtractedFacts{
		LoanAmount:          300000,
		InterestRate:        6.5,
		LoanTermYears:       30,
		MonthlyDebtPayments: 1200,
		MonthlyIncome:       8000,
		CreditScore:         720,
	}

	metrics := CalculateLoanMetrics(facts, nil)

	assert.Equal(t, 100.00, metrics.LTV)
	assert.Equal(t, 15.00, metrics.DTI)
	assert.Equal(t, 1896, metrics.MonthlyPayment)
	// PITI = payment 1896 + tax fallback round(300000/12*0.001)=25 + insurance fallback 100
	assert.Equal(t, 2021, metrics.PITI)
	assert.Equal(t, 25.26, metrics.HousingRatio)
}

func TestCalculateLoanMetrics_IncomeAndDebtFallbacks(t *testing.T) {
	facts := models.ExtractedFacts{
		LoanAmount:    300000,
		LoanTermYears: 30,
	}

	metrics := CalculateLoanMetrics(facts, nil)

	// income falls back to 8000, debts to round(300000/1000*30)=9000
	assert.Equal(t, 112.50, metrics.DTI)
}

func TestCalculateLoanMetrics_NegativeIncomeClampedToOne(t *testing.T) {
	facts := models.ExtractedFacts{
		LoanAmount:          100000,
		LoanTermYears:       30,
		MonthlyIncome:       -500,
		MonthlyDebtPayments: 1,
	}

	metrics := CalculateLoanMetrics(facts, nil)

	// max(1, income) keeps the ratio finite
	assert.Equal(t, 100.00, metrics.DTI)
}

func TestCalculateLoanMetrics_ExtractedPITIComponentsPreferred(t *testing.T) {
	facts := models.ExtractedFacts{
		LoanAmount:           300000,
		InterestRate:         6.5,
		LoanTermYears:        30,
		MonthlyIncome:        10000,
		PrincipalAndInterest: 1800,
		PropertyTax:          300,
		Insurance:            120,
	}

	metrics := CalculateLoanMetrics(facts, nil)

	assert.Equal(t, 2220, metrics.PITI)
	assert.Equal(t, 22.20, metrics.HousingRatio)
}

func TestCalculateLoanMetrics_TaxFallbackUsesPropertyValue(t *testing.T) {
	facts := models.ExtractedFacts{
		LoanAmount:           288000,
		LoanTermYears:        30,
		MonthlyIncome:        9000,
		PrincipalAndInterest: 1500,
		Insurance:            110,
	}

	metrics := CalculateLoanMetrics(facts, floatPtr(360000))

	// tax fallback = round(360000/12*0.001) = 30
	assert.Equal(t, 1640, metrics.PITI)
	assert.Equal(t, 80.00, metrics.LTV)
}

func TestCalculateLoanMetrics_ZeroLoanAmount(t *testing.T) {
	// Total over degenerate input: property value floor of 1 avoids division
	// by zero.
	metrics := CalculateLoanMetrics(models.ExtractedFacts{}, nil)

	assert.Equal(t, 0.00, metrics.LTV)
	assert.GreaterOrEqual(t, metrics.DTI, 0.00)
	assert.Equal(t, 0, metrics.MonthlyPayment)
}
