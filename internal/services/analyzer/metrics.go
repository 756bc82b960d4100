// -----------------------------------------------------------------------
// Metrics Calculator - derives underwriting ratios from extracted facts
// Total over all realistic inputs: missing data falls back to documented
// defaults instead of returning errors.
// -----------------------------------------------------------------------

package analyzer

import (
	"math"

	"github.com/ternarybob/loanlens/internal/models"
)

// Fallbacks applied when the parser could not recover a field.
const (
	defaultMonthlyIncome    = 8000.0
	defaultInsuranceMonthly = 100.0
)

// roundEpsilon guards two-decimal rounding against floating point
// representation error, e.g. 25.2625*100 landing just below 2526.25.
const roundEpsilon = 1e-9

// CalculateLoanMetrics derives LTV, DTI, housing ratio, PITI, and the monthly
// payment from extracted facts plus an optional external property valuation.
// A nil estimatedValue means no valuation was available; the property is then
// assumed fully collateralized at the loan amount.
func CalculateLoanMetrics(facts models.ExtractedFacts, estimatedValue *float64) models.LoanMetrics {
	propertyValue := math.Max(1, facts.LoanAmount)
	if estimatedValue != nil {
		propertyValue = *estimatedValue
	}
	ltv := facts.LoanAmount / propertyValue * 100

	monthlyIncome := facts.MonthlyIncome
	if monthlyIncome == 0 {
		monthlyIncome = defaultMonthlyIncome
	}
	monthlyIncome = math.Max(1, monthlyIncome)

	monthlyDebtPayments := facts.MonthlyDebtPayments
	if monthlyDebtPayments == 0 {
		// Last-resort heuristic: a proxy debt load scaled to loan size.
		monthlyDebtPayments = math.Round(facts.LoanAmount / 1000 * 30)
	}
	dti := monthlyDebtPayments / monthlyIncome * 100

	monthlyPayment := CalculateMonthlyPayment(facts.LoanAmount, facts.InterestRate, facts.LoanTermYears)

	principalAndInterest := facts.PrincipalAndInterest
	if principalAndInterest == 0 {
		principalAndInterest = float64(monthlyPayment)
	}
	propertyTax := facts.PropertyTax
	if propertyTax == 0 {
		propertyTax = math.Round(propertyValue / 12 * 0.001)
	}
	insurance := facts.Insurance
	if insurance == 0 {
		insurance = defaultInsuranceMonthly
	}
	piti := principalAndInterest + propertyTax + insurance
	housingRatio := piti / monthlyIncome * 100

	return models.LoanMetrics{
		LTV:            round2(ltv),
		DTI:            round2(dti),
		HousingRatio:   round2(housingRatio),
		PITI:           int(math.Round(piti)),
		MonthlyPayment: monthlyPayment,
	}
}

// CalculateMonthlyPayment computes the standard amortized monthly payment,
// rounded to the nearest whole unit. A zero interest rate degrades to a
// straight-line principal split. A zero or negative term defaults to 30 years.
func CalculateMonthlyPayment(principal, annualRatePercent float64, termYears int) int {
	if termYears <= 0 {
		termYears = models.DefaultLoanTermYears
	}
	numberOfPayments := float64(termYears * 12)
	monthlyRate := annualRatePercent / 100 / 12

	if monthlyRate == 0 {
		return int(math.Round(principal / numberOfPayments))
	}

	growth := math.Pow(1+monthlyRate, numberOfPayments)
	payment := principal * (monthlyRate * growth / (growth - 1))
	return int(math.Round(payment))
}

// round2 rounds half-up to two decimal places.
func round2(v float64) float64 {
	return math.Round((v+roundEpsilon)*100) / 100
}
