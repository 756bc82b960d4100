package mailer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/loanlens/internal/common"
	"github.com/ternarybob/loanlens/internal/models"
)

var renderTime = time.Date(2026, time.August, 29, 10, 0, 0, 0, time.UTC)

func TestRenderApproval(t *testing.T) {
	details := models.LoanApprovalDetails{
		LoanID:          "anl_123",
		LoanAmount:      300000,
		InterestRate:    6.5,
		LoanTermYears:   30,
		MonthlyPayment:  1896,
		PropertyAddress: "123 Main St, Austin, TX",
	}

	content, err := renderApproval("Jamie", details, "https://loanlens.example.com", renderTime)

	require.NoError(t, err)
	assert.Equal(t, SubjectApproval, content.Subject)
	assert.Contains(t, content.HTMLBody, "Congratulations Jamie!")
	assert.Contains(t, content.HTMLBody, "$300,000")
	assert.Contains(t, content.HTMLBody, "6.5%")
	assert.Contains(t, content.HTMLBody, "30 years")
	assert.Contains(t, content.HTMLBody, "$1,896")
	assert.Contains(t, content.HTMLBody, "123 Main St, Austin, TX")
	assert.Contains(t, content.HTMLBody, "https://loanlens.example.com/dashboard/loan/anl_123")
	assert.Contains(t, content.HTMLBody, "© 2026 LoanLens")
}

func TestRenderApproval_OptionalFieldsOmitted(t *testing.T) {
	details := models.LoanApprovalDetails{LoanAmount: 300000, InterestRate: 6.5, MonthlyPayment: 1896}

	content, err := renderApproval("Jamie", details, "", renderTime)

	require.NoError(t, err)
	assert.NotContains(t, content.HTMLBody, "Loan Term:")
	assert.NotContains(t, content.HTMLBody, "Property Address:")
	assert.Contains(t, content.HTMLBody, `href="#"`)
}

func TestRenderConditional(t *testing.T) {
	conditions := []string{
		"Consider a larger down payment to reduce LTV below 80%",
		"Work on improving credit score before final approval",
	}

	content, err := renderConditional("Jamie", conditions, "https://loanlens.example.com/", renderTime)

	require.NoError(t, err)
	assert.Equal(t, SubjectConditional, content.Subject)
	assert.Contains(t, content.HTMLBody, "<strong>1.</strong> Consider a larger down payment")
	assert.Contains(t, content.HTMLBody, "<strong>2.</strong> Work on improving credit score")
	// Trailing slash on the app URL must not double up
	assert.Contains(t, content.HTMLBody, "https://loanlens.example.com/dashboard/conditions")
	assert.NotContains(t, content.HTMLBody, "example.com//dashboard")
}

func TestRenderConditional_EscapesHTML(t *testing.T) {
	content, err := renderConditional("<script>alert(1)</script>", nil, "", renderTime)

	require.NoError(t, err)
	assert.NotContains(t, content.HTMLBody, "<script>alert(1)</script>")
}

func TestRenderFollowUp(t *testing.T) {
	content, err := renderFollowUp("Jamie", []string{"Provide updated pay stubs"}, "", renderTime)

	require.NoError(t, err)
	assert.Equal(t, SubjectFollowUp, content.Subject)
	assert.Contains(t, content.HTMLBody, "Hi Jamie")
	assert.Contains(t, content.HTMLBody, "Provide updated pay stubs")
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$300,000", formatMoney(300000))
	assert.Equal(t, "$1,896", formatMoney(1896))
	assert.Equal(t, "$950", formatMoney(950))
	assert.Equal(t, "$1,234,567", formatMoney(1234567))
	assert.Equal(t, "$0", formatMoney(0))
	assert.Equal(t, "-$5,000", formatMoney(-5000))
}

func TestSendApproval_UnconfiguredSMTPFailsInResult(t *testing.T) {
	config := common.DefaultConfig()
	service := NewService(config, arbor.NewLogger())

	result, content := service.SendApproval(context.Background(), "jamie@example.com", "Jamie", models.LoanApprovalDetails{LoanAmount: 300000})

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "not configured")
	// Content is still rendered so the attempt can be recorded
	assert.Equal(t, SubjectApproval, content.Subject)
	assert.NotEmpty(t, content.HTMLBody)
}

func TestGenerateMessageID(t *testing.T) {
	id := generateMessageID("loans@loanlens.example.com")
	assert.Contains(t, id, "@loanlens.example.com")

	fallback := generateMessageID("")
	assert.Contains(t, fallback, "@loanlens.local")

	assert.NotEqual(t, generateMessageID("a@b.c"), generateMessageID("a@b.c"))
}

func TestEncodeBase64WithLineBreaks(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}

	encoded := encodeBase64WithLineBreaks(string(long))

	for _, line := range splitLines(encoded) {
		assert.LessOrEqual(t, len(line), 76)
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '\r' && s[i+1] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 2
		}
	}
	lines = append(lines, s[start:])
	return lines
}
