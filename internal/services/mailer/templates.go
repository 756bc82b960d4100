package mailer

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/loanlens/internal/models"
)

// Subjects for the borrower notification templates.
const (
	SubjectApproval    = "🎉 Great News! Your Loan Application Has Been Approved"
	SubjectConditional = "📋 Your Loan Application Status Update - Action Required"
	SubjectFollowUp    = "⏰ Reminder: Outstanding Conditions on Your Loan Application"
)

var templateFuncs = template.FuncMap{
	"money": formatMoney,
	"inc":   func(i int) int { return i + 1 },
}

var approvalTemplate = template.Must(template.New("approval").Funcs(templateFuncs).Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Loan Approval Notification</title>
  <style>
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
    .content { background: white; padding: 30px; border: 1px solid #ddd; }
    .footer { background: #f8f9fa; padding: 20px; text-align: center; border-radius: 0 0 10px 10px; font-size: 12px; color: #666; }
    .highlight { background: #e8f5e8; padding: 15px; border-left: 4px solid #28a745; margin: 20px 0; }
    .loan-details { background: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0; }
    .detail-row { display: flex; justify-content: space-between; margin: 10px 0; }
    .btn { background: #28a745; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block; margin: 20px 0; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>🎉 Congratulations {{.BorrowerName}}!</h1>
      <h2>Your Loan Application Has Been Approved</h2>
    </div>
    <div class="content">
      <div class="highlight">
        <strong>Great news!</strong> Your mortgage application has been approved and you're one step closer to owning your new home.
      </div>
      <div class="loan-details">
        <h3>📋 Loan Details</h3>
        <div class="detail-row"><span><strong>Loan Amount:</strong></span><span>{{money .Details.LoanAmount}}</span></div>
        <div class="detail-row"><span><strong>Interest Rate:</strong></span><span>{{.Details.InterestRate}}%</span></div>
        {{if .Details.LoanTermYears}}<div class="detail-row"><span><strong>Loan Term:</strong></span><span>{{.Details.LoanTermYears}} years</span></div>{{end}}
        <div class="detail-row"><span><strong>Monthly Payment:</strong></span><span>{{money .MonthlyPayment}}</span></div>
        {{if .Details.PropertyAddress}}<div class="detail-row"><span><strong>Property Address:</strong></span><span>{{.Details.PropertyAddress}}</span></div>{{end}}
      </div>
      <a href="{{.DashboardURL}}" class="btn">View Full Loan Details</a>
    </div>
    <div class="footer">© {{.Year}} LoanLens. All rights reserved.</div>
  </div>
</body>
</html>`))

var conditionalTemplate = template.Must(template.New("conditional").Funcs(templateFuncs).Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Conditional Loan Approval</title>
  <style>
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: linear-gradient(135deg, #ffc107 0%, #ff8c00 100%); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
    .content { background: white; padding: 30px; border: 1px solid #ddd; }
    .footer { background: #f8f9fa; padding: 20px; text-align: center; border-radius: 0 0 10px 10px; font-size: 12px; color: #666; }
    .highlight { background: #fff3cd; padding: 15px; border-left: 4px solid #ffc107; margin: 20px 0; }
    .conditions { background: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0; }
    .condition-item { background: white; padding: 15px; margin: 10px 0; border-left: 3px solid #ffc107; border-radius: 4px; }
    .btn { background: #ffc107; color: #333; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block; margin: 20px 0; font-weight: bold; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>📋 Conditional Approval</h1>
      <h2>Action Required on Your Loan Application</h2>
    </div>
    <div class="content">
      <div class="highlight">
        <strong>Good news!</strong> Your loan application has been conditionally approved. Please review the conditions below to complete your approval.
      </div>
      <div class="conditions">
        <h3>📋 Required Actions</h3>
        {{range $i, $c := .Conditions}}<div class="condition-item"><strong>{{inc $i}}.</strong> {{$c}}</div>{{end}}
      </div>
      <a href="{{.ConditionsURL}}" class="btn">Upload Required Documents</a>
    </div>
    <div class="footer">© {{.Year}} LoanLens. All rights reserved.</div>
  </div>
</body>
</html>`))

var followUpTemplate = template.Must(template.New("followup").Funcs(templateFuncs).Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Loan Application Reminder</title>
  <style>
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: linear-gradient(135deg, #17a2b8 0%, #138496 100%); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
    .content { background: white; padding: 30px; border: 1px solid #ddd; }
    .footer { background: #f8f9fa; padding: 20px; text-align: center; border-radius: 0 0 10px 10px; font-size: 12px; color: #666; }
    .highlight { background: #d1ecf1; padding: 15px; border-left: 4px solid #17a2b8; margin: 20px 0; }
    .conditions { background: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0; }
    .condition-item { background: white; padding: 15px; margin: 10px 0; border-left: 3px solid #17a2b8; border-radius: 4px; }
    .btn { background: #17a2b8; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block; margin: 20px 0; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>⏰ Friendly Reminder</h1>
      <h2>Your Loan Application Is Still Waiting on You</h2>
    </div>
    <div class="content">
      <div class="highlight">
        Hi {{.BorrowerName}}, your conditionally approved application still has outstanding items. Completing them keeps your approval on track.
      </div>
      {{if .Conditions}}<div class="conditions">
        <h3>📋 Outstanding Items</h3>
        {{range $i, $c := .Conditions}}<div class="condition-item"><strong>{{inc $i}}.</strong> {{$c}}</div>{{end}}
      </div>{{end}}
      <a href="{{.ConditionsURL}}" class="btn">Upload Required Documents</a>
    </div>
    <div class="footer">© {{.Year}} LoanLens. All rights reserved.</div>
  </div>
</body>
</html>`))

type approvalData struct {
	BorrowerName   string
	Details        models.LoanApprovalDetails
	MonthlyPayment float64
	DashboardURL   string
	Year           int
}

type conditionalData struct {
	BorrowerName  string
	Conditions    []string
	ConditionsURL string
	Year          int
}

// renderApproval builds the approval email content.
func renderApproval(borrowerName string, details models.LoanApprovalDetails, appURL string, now time.Time) (models.EmailContent, error) {
	var body strings.Builder
	data := approvalData{
		BorrowerName:   borrowerName,
		Details:        details,
		MonthlyPayment: float64(details.MonthlyPayment),
		DashboardURL:   linkOrAnchor(appURL, "/dashboard/loan/"+details.LoanID),
		Year:           now.Year(),
	}
	if err := approvalTemplate.Execute(&body, data); err != nil {
		return models.EmailContent{}, fmt.Errorf("failed to render approval template: %w", err)
	}
	return models.EmailContent{Subject: SubjectApproval, HTMLBody: body.String()}, nil
}

// renderConditional builds the conditional-approval email content.
func renderConditional(borrowerName string, conditions []string, appURL string, now time.Time) (models.EmailContent, error) {
	var body strings.Builder
	data := conditionalData{
		BorrowerName:  borrowerName,
		Conditions:    conditions,
		ConditionsURL: linkOrAnchor(appURL, "/dashboard/conditions"),
		Year:          now.Year(),
	}
	if err := conditionalTemplate.Execute(&body, data); err != nil {
		return models.EmailContent{}, fmt.Errorf("failed to render conditional template: %w", err)
	}
	return models.EmailContent{Subject: SubjectConditional, HTMLBody: body.String()}, nil
}

// renderFollowUp builds the follow-up reminder email content.
func renderFollowUp(borrowerName string, conditions []string, appURL string, now time.Time) (models.EmailContent, error) {
	var body strings.Builder
	data := conditionalData{
		BorrowerName:  borrowerName,
		Conditions:    conditions,
		ConditionsURL: linkOrAnchor(appURL, "/dashboard/conditions"),
		Year:          now.Year(),
	}
	if err := followUpTemplate.Execute(&body, data); err != nil {
		return models.EmailContent{}, fmt.Errorf("failed to render follow-up template: %w", err)
	}
	return models.EmailContent{Subject: SubjectFollowUp, HTMLBody: body.String()}, nil
}

// linkOrAnchor joins the app URL with a path, or degrades to a bare anchor
// when no app URL is configured.
func linkOrAnchor(appURL, path string) string {
	if appURL == "" {
		return "#"
	}
	return strings.TrimSuffix(appURL, "/") + path
}

// formatMoney renders a dollar amount with thousands separators.
func formatMoney(amount float64) string {
	whole := strconv.FormatInt(int64(amount), 10)
	negative := strings.HasPrefix(whole, "-")
	if negative {
		whole = whole[1:]
	}

	var grouped strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(digit)
	}

	result := "$" + grouped.String()
	if negative {
		result = "-" + result
	}
	return result
}
