package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/loanlens/internal/models"
)

func TestDecodeExtraction_CompleteResponse(t *testing.T) {
	response := `{
		"borrowerInfo": {"firstName": "Jamie", "lastName": "Rivera", "email": "jamie@example.com"},
		"propertyAddress": "123 Main St, Austin, TX",
		"zipCode": "78701",
		"loanAmount": 300000,
		"interestRate": 6.5,
		"loanTerm": 30,
		"monthlyDebtPayments": 1200,
		"monthlyIncome": 8000,
		"principalAndInterest": 1896,
		"propertyTax": 250,
		"insurance": 100,
		"creditScore": 720
	}`

	facts, err := decodeExtraction(response)

	require.NoError(t, err)
	assert.Equal(t, "Jamie", facts.BorrowerInfo.FirstName)
	assert.Equal(t, "jamie@example.com", facts.BorrowerInfo.Email)
	assert.Equal(t, "123 Main St, Austin, TX", facts.PropertyAddress)
	assert.Equal(t, 300000.0, facts.LoanAmount)
	assert.Equal(t, 6.5, facts.InterestRate)
	assert.Equal(t, 30, facts.LoanTermYears)
	assert.Equal(t, 720, facts.CreditScore)
}

func TestDecodeExtraction_ProseAndFencesStripped(t *testing.T) {
	response := "Here is the extracted data:\n```json\n" +
		`{"borrowerInfo": {"firstName": "A", "lastName": "B"}, "loanAmount": 100000, "interestRate": 5}` +
		"\n```\nLet me know if you need anything else."

	facts, err := decodeExtraction(response)

	require.NoError(t, err)
	assert.Equal(t, 100000.0, facts.LoanAmount)
}

func TestDecodeExtraction_NoJSONObject(t *testing.T) {
	_, err := decodeExtraction("I could not read the document.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no JSON object")
}

func TestDecodeExtraction_MalformedJSON(t *testing.T) {
	_, err := decodeExtraction(`{"loanAmount": `)
	require.Error(t, err)
}

func TestDecodeExtraction_CurrencyStringsCoerced(t *testing.T) {
	response := `{
		"borrowerInfo": {"firstName": "A", "lastName": "B"},
		"loanAmount": "$300,000",
		"interestRate": "6.5%",
		"monthlyIncome": "8,000.50"
	}`

	facts, err := decodeExtraction(response)

	require.NoError(t, err)
	assert.Equal(t, 300000.0, facts.LoanAmount)
	assert.Equal(t, 6.5, facts.InterestRate)
	assert.Equal(t, 8000.50, facts.MonthlyIncome)
}

func TestDecodeExtraction_EmailDefaults(t *testing.T) {
	tests := []struct {
		name     string
		response string
		expected string
	}{
		{
			name:     "missing email gets sentinel",
			response: `{"borrowerInfo": {"firstName": "A", "lastName": "B"}}`,
			expected: models.SentinelBorrowerEmail,
		},
		{
			name:     "top-level borrowerEmail honored",
			response: `{"borrowerInfo": {"firstName": "A", "lastName": "B"}, "borrowerEmail": "top@example.com"}`,
			expected: "top@example.com",
		},
		{
			name:     "nested email wins over top-level",
			response: `{"borrowerInfo": {"firstName": "A", "lastName": "B", "email": "nested@example.com"}, "borrowerEmail": "top@example.com"}`,
			expected: "nested@example.com",
		},
		{
			name:     "whitespace-only email gets sentinel",
			response: `{"borrowerInfo": {"firstName": "A", "lastName": "B", "email": "  "}}`,
			expected: models.SentinelBorrowerEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts, err := decodeExtraction(tt.response)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, facts.BorrowerInfo.Email)
		})
	}
}

func TestDecodeExtraction_CreditScorePolicy(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected int
	}{
		{"missing defaults to 720", `{}`, 720},
		{"zero defaults to 720", `{"creditScore": 0}`, 720},
		{"negative defaults to 720", `{"creditScore": -5}`, 720},
		{"below floor clamps to 300", `{"creditScore": 100}`, 300},
		{"above ceiling clamps to 850", `{"creditScore": 900}`, 850},
		{"in range preserved", `{"creditScore": 680}`, 680},
		{"string coerced then clamped", `{"creditScore": "905"}`, 850},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts, err := decodeExtraction(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, facts.CreditScore)
		})
	}
}

func TestDecodeExtraction_LoanTermDefaults(t *testing.T) {
	facts, err := decodeExtraction(`{"loanAmount": 100000}`)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultLoanTermYears, facts.LoanTermYears)

	facts, err = decodeExtraction(`{"loanAmount": 100000, "loanTerm": 15}`)
	require.NoError(t, err)
	assert.Equal(t, 15, facts.LoanTermYears)

	facts, err = decodeExtraction(`{"loanAmount": 100000, "loanTerm": 0}`)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultLoanTermYears, facts.LoanTermYears)
}

func TestNumberFrom(t *testing.T) {
	assert.Equal(t, 42.0, numberFrom(42.0, 0))
	assert.Equal(t, 300000.0, numberFrom("$300,000", 0))
	assert.Equal(t, -1.5, numberFrom("-1.5", 0))
	assert.Equal(t, 7.0, numberFrom(nil, 7))
	assert.Equal(t, 7.0, numberFrom("n/a", 7))
	assert.Equal(t, 7.0, numberFrom(true, 7))
	assert.Equal(t, 7.0, numberFrom([]any{1}, 7))
}
