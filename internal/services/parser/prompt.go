package parser

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ternarybob/loanlens/internal/models"
)

// extractionPrompt instructs the model to return the normalized loan schema
// as bare JSON. The document text is appended below the delimiter.
const extractionPrompt = `Extract the following structured JSON fields from the mortgage document below.
Respond with ONLY a valid JSON object (no prose). Fields: {
  "borrowerInfo": { "firstName": string, "lastName": string, "email": string (optional) },
  "propertyAddress": string (optional), "zipCode": string (optional),
  "loanAmount": number, "interestRate": number, "loanTerm": number (years, optional),
  "monthlyDebtPayments": number, "monthlyIncome": number,
  "principalAndInterest": number, "propertyTax": number, "insurance": number,
  "creditScore": number (optional)
}. Assume missing values as best as possible based on the document.

--- DOCUMENT ---
`

// rawExtraction mirrors the model's response schema with loosely typed
// fields. Models routinely return numbers as formatted strings ("$300,000"),
// so every numeric field is coerced rather than unmarshalled directly.
type rawExtraction struct {
	BorrowerInfo struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
	} `json:"borrowerInfo"`
	BorrowerEmail        string `json:"borrowerEmail"`
	PropertyAddress      string `json:"propertyAddress"`
	ZipCode              string `json:"zipCode"`
	LoanAmount           any    `json:"loanAmount"`
	InterestRate         any    `json:"interestRate"`
	LoanTerm             any    `json:"loanTerm"`
	MonthlyDebtPayments  any    `json:"monthlyDebtPayments"`
	MonthlyIncome        any    `json:"monthlyIncome"`
	PrincipalAndInterest any    `json:"principalAndInterest"`
	PropertyTax          any    `json:"propertyTax"`
	Insurance            any    `json:"insurance"`
	CreditScore          any    `json:"creditScore"`
}

// decodeExtraction parses the model response into normalized loan facts.
// The JSON object is located by bracket slicing so that surrounding prose or
// markdown fences do not break decoding.
func decodeExtraction(response string) (*models.ExtractedFacts, error) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in model response")
	}

	var raw rawExtraction
	if err := json.Unmarshal([]byte(response[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode extraction response: %w", err)
	}

	email := strings.TrimSpace(raw.BorrowerInfo.Email)
	if email == "" {
		email = strings.TrimSpace(raw.BorrowerEmail)
	}
	if email == "" {
		email = models.SentinelBorrowerEmail
	}

	facts := &models.ExtractedFacts{
		BorrowerInfo: models.BorrowerInfo{
			FirstName: strings.TrimSpace(raw.BorrowerInfo.FirstName),
			LastName:  strings.TrimSpace(raw.BorrowerInfo.LastName),
			Email:     email,
		},
		PropertyAddress:      strings.TrimSpace(raw.PropertyAddress),
		ZipCode:              strings.TrimSpace(raw.ZipCode),
		LoanAmount:           numberFrom(raw.LoanAmount, 0),
		InterestRate:         numberFrom(raw.InterestRate, 0),
		LoanTermYears:        int(numberFrom(raw.LoanTerm, models.DefaultLoanTermYears)),
		MonthlyDebtPayments:  numberFrom(raw.MonthlyDebtPayments, 0),
		MonthlyIncome:        numberFrom(raw.MonthlyIncome, 0),
		PrincipalAndInterest: numberFrom(raw.PrincipalAndInterest, 0),
		PropertyTax:          numberFrom(raw.PropertyTax, 0),
		Insurance:            numberFrom(raw.Insurance, 0),
		CreditScore:          models.ClampCreditScore(int(numberFrom(raw.CreditScore, 0))),
	}

	if facts.LoanTermYears <= 0 {
		facts.LoanTermYears = models.DefaultLoanTermYears
	}

	return facts, nil
}

// numberFrom coerces a JSON value to float64. Strings are stripped of
// currency symbols, commas, and units before parsing. Anything that does not
// yield a finite number falls back to the default.
func numberFrom(value any, fallback float64) float64 {
	switch v := value.(type) {
	case nil:
		return fallback
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fallback
		}
		return v
	case string:
		cleaned := strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '.' || r == '-' {
				return r
			}
			return -1
		}, v)
		n, err := strconv.ParseFloat(cleaned, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return fallback
		}
		return n
	case bool:
		return fallback
	default:
		return fallback
	}
}
