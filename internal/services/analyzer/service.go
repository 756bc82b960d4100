// -----------------------------------------------------------------------
// Analysis Orchestrator - document to decision pipeline
// Extraction failure is fatal; valuation, notification, and persistence
// failures degrade gracefully and never change the returned analysis.
// -----------------------------------------------------------------------

package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/loanlens/internal/common"
	"github.com/ternarybob/loanlens/internal/interfaces"
	"github.com/ternarybob/loanlens/internal/models"
)

// Template names recorded with each notification.
const (
	TemplateApproval    = "loan-approval"
	TemplateConditional = "conditional-approval"
	TemplateFollowUp    = "conditional-follow-up"
)

// Options control a single analysis run.
type Options struct {
	AddressOverride string
	Notify          bool
}

// Service composes the parser, valuation, mailer, and storage collaborators
// into the analysis pipeline. Each invocation is an independent, stateless
// computation; the service itself holds no mutable state.
type Service struct {
	parser        interfaces.DocumentParser
	valuation     interfaces.ValuationService
	mailer        interfaces.EmailSender
	analyses      interfaces.AnalysisStorage
	notifications interfaces.NotificationStorage
	criteria      models.MortgageCriteria
	logger        arbor.ILogger
	now           func() time.Time
}

// NewService creates the analysis orchestrator.
func NewService(
	parser interfaces.DocumentParser,
	valuation interfaces.ValuationService,
	mailer interfaces.EmailSender,
	analyses interfaces.AnalysisStorage,
	notifications interfaces.NotificationStorage,
	criteria models.MortgageCriteria,
	logger arbor.ILogger,
) *Service {
	return &Service{
		parser:        parser,
		valuation:     valuation,
		mailer:        mailer,
		analyses:      analyses,
		notifications: notifications,
		criteria:      criteria,
		logger:        logger,
		now:           time.Now,
	}
}

// Criteria returns the lender thresholds the service classifies against.
func (s *Service) Criteria() models.MortgageCriteria {
	return s.criteria
}

// AnalyzeURL runs the full pipeline against a document fetched from a URL.
func (s *Service) AnalyzeURL(ctx context.Context, fileURL string, opts Options) (*models.DocumentAnalysis, error) {
	facts, err := s.parser.ParseDocumentFromURL(ctx, fileURL)
	if err != nil {
		return nil, fmt.Errorf("document extraction failed: %w", err)
	}
	return s.analyze(ctx, *facts, opts), nil
}

// AnalyzeBytes runs the full pipeline against raw document bytes.
func (s *Service) AnalyzeBytes(ctx context.Context, document []byte, opts Options) (*models.DocumentAnalysis, error) {
	facts, err := s.parser.ParseDocument(ctx, document)
	if err != nil {
		return nil, fmt.Errorf("document extraction failed: %w", err)
	}
	return s.analyze(ctx, *facts, opts), nil
}

// Extract runs extraction only, without the downstream pipeline.
func (s *Service) Extract(ctx context.Context, document []byte) (*models.ExtractedFacts, error) {
	facts, err := s.parser.ParseDocument(ctx, document)
	if err != nil {
		return nil, fmt.Errorf("document extraction failed: %w", err)
	}
	return facts, nil
}

// analyze is the shared post-extraction pipeline. It is total: everything
// past extraction degrades instead of failing.
func (s *Service) analyze(ctx context.Context, facts models.ExtractedFacts, opts Options) *models.DocumentAnalysis {
	address := opts.AddressOverride
	if address == "" {
		address = facts.PropertyAddress
	}

	valuation, history := s.lookupValuation(ctx, address)

	var estimate *float64
	if valuation != nil {
		estimate = &valuation.EstimatedValue
	}
	metrics := CalculateLoanMetrics(facts, estimate)

	creditScore := facts.CreditScore
	if creditScore <= 0 {
		creditScore = models.CreditScoreDefault
	}
	status, reason := AssessEligibility(metrics, &creditScore, s.criteria)
	recommendations := GenerateRecommendations(metrics, &creditScore, s.criteria)

	analysis := &models.DocumentAnalysis{
		ID:                common.NewAnalysisID(),
		Extracted:         facts,
		Valuation:         s.buildValuationSummary(facts, valuation, history),
		Metrics:           metrics,
		EligibilityStatus: status,
		EligibilityReason: reason,
		Recommendations:   recommendations,
		CreatedAt:         s.now(),
	}

	s.logger.Info().
		Str("analysis_id", analysis.ID).
		Str("status", string(status)).
		Float64("ltv", metrics.LTV).
		Float64("dti", metrics.DTI).
		Int("credit_score", creditScore).
		Msg("Document analysis completed")

	if opts.Notify {
		s.notify(ctx, analysis)
	}

	s.persist(ctx, analysis)

	return analysis
}

// lookupValuation fetches the AVM estimate and sale history for an address.
// Any failure clears both results; absence of a valuation must never abort
// the pipeline.
func (s *Service) lookupValuation(ctx context.Context, address string) (*models.PropertyValuation, []models.PricePoint) {
	if address == "" {
		return nil, nil
	}

	valuation, err := s.valuation.GetPropertyValue(ctx, address)
	if err != nil {
		s.logger.Warn().Err(err).Str("address", address).Msg("Property valuation lookup failed, proceeding without valuation")
		return nil, nil
	}

	history, err := s.valuation.GetSalesHistory(ctx, address)
	if err != nil {
		s.logger.Warn().Err(err).Str("address", address).Msg("Sale history lookup failed, proceeding without valuation")
		return nil, nil
	}

	return valuation, history
}

// buildValuationSummary assembles the valuation block for the analysis
// record, defaulting the estimate to the loan amount and substituting a
// synthetic trend when real history has fewer than 1 point.
func (s *Service) buildValuationSummary(facts models.ExtractedFacts, valuation *models.PropertyValuation, history []models.PricePoint) *models.ValuationSummary {
	summary := &models.ValuationSummary{
		EstimatedValue: facts.LoanAmount,
	}
	if valuation != nil {
		summary.EstimatedValue = valuation.EstimatedValue
		summary.Confidence = valuation.Confidence
		summary.LowEstimate = valuation.LowEstimate
		summary.HighEstimate = valuation.HighEstimate
	}

	if len(history) >= 1 {
		summary.PriceHistory = history
	} else {
		summary.PriceHistory = GenerateSyntheticHistory(summary.EstimatedValue, s.now())
	}

	return summary
}

// notify dispatches the borrower email for an approved or conditional
// analysis. Denied applications never notify, and the send is silently
// skipped without a borrower email and first name. Failures are absorbed.
func (s *Service) notify(ctx context.Context, analysis *models.DocumentAnalysis) {
	email := analysis.Extracted.BorrowerInfo.Email
	name := analysis.Extracted.BorrowerInfo.FirstName
	if email == "" || name == "" {
		s.logger.Debug().Str("analysis_id", analysis.ID).Msg("Skipping notification: borrower email or first name missing")
		return
	}

	switch analysis.EligibilityStatus {
	case models.EligibilityApproved:
		details := models.LoanApprovalDetails{
			LoanID:          "N/A",
			LoanAmount:      analysis.Extracted.LoanAmount,
			InterestRate:    analysis.Extracted.InterestRate,
			LoanTermYears:   analysis.Extracted.LoanTermYears,
			MonthlyPayment:  analysis.Metrics.MonthlyPayment,
			PropertyAddress: analysis.Extracted.PropertyAddress,
			LTV:             analysis.Metrics.LTV,
			DTI:             analysis.Metrics.DTI,
			CreditScore:     analysis.Extracted.CreditScore,
		}
		result, content := s.mailer.SendApproval(ctx, email, name, details)
		s.recordNotification(ctx, models.NotificationApproval, TemplateApproval, email, result, content)

	case models.EligibilityConditional:
		result, content := s.mailer.SendConditional(ctx, email, name, analysis.Recommendations)
		s.recordNotification(ctx, models.NotificationConditional, TemplateConditional, email, result, content)
	}
}

// persist writes the latest record and the history entry best-effort.
// Persistence failures are logged and swallowed; staleness is acceptable for
// the UI-hydration use case.
func (s *Service) persist(ctx context.Context, analysis *models.DocumentAnalysis) {
	if err := s.analyses.SaveLatest(ctx, analysis); err != nil {
		s.logger.Warn().Err(err).Str("analysis_id", analysis.ID).Msg("Failed to persist latest analysis")
	}
	if err := s.analyses.AppendHistory(ctx, analysis); err != nil {
		s.logger.Warn().Err(err).Str("analysis_id", analysis.ID).Msg("Failed to append analysis history")
	}
}

// SendApprovalNotification sends an approval email on behalf of the explicit
// notification endpoint and records the attempt. Unlike the automatic path,
// a delivery failure is surfaced to the caller.
func (s *Service) SendApprovalNotification(ctx context.Context, recipient, borrowerName string, details models.LoanApprovalDetails) (*models.EmailNotification, error) {
	result, content := s.mailer.SendApproval(ctx, recipient, borrowerName, details)
	record := s.recordNotification(ctx, models.NotificationApproval, TemplateApproval, recipient, result, content)
	if !result.Success {
		return record, fmt.Errorf("approval email failed: %s", result.Error)
	}
	return record, nil
}

// SendConditionalNotification sends a conditional-approval email on behalf of
// the explicit notification endpoint and records the attempt.
func (s *Service) SendConditionalNotification(ctx context.Context, recipient, borrowerName string, conditions []string) (*models.EmailNotification, error) {
	result, content := s.mailer.SendConditional(ctx, recipient, borrowerName, conditions)
	record := s.recordNotification(ctx, models.NotificationConditional, TemplateConditional, recipient, result, content)
	if !result.Success {
		return record, fmt.Errorf("conditional email failed: %s", result.Error)
	}
	return record, nil
}

// SendFollowUpNotification sends a follow-up reminder for a stale conditional
// analysis, used by the scheduler.
func (s *Service) SendFollowUpNotification(ctx context.Context, recipient, borrowerName string, conditions []string) (*models.EmailNotification, error) {
	result, content := s.mailer.SendFollowUp(ctx, recipient, borrowerName, conditions)
	record := s.recordNotification(ctx, models.NotificationFollowUp, TemplateFollowUp, recipient, result, content)
	if !result.Success {
		return record, fmt.Errorf("follow-up email failed: %s", result.Error)
	}
	return record, nil
}

// recordNotification appends a notification attempt to the history log,
// best-effort.
func (s *Service) recordNotification(ctx context.Context, kind models.NotificationType, template, recipient string, result models.EmailSendResult, content models.EmailContent) *models.EmailNotification {
	status := models.NotificationSent
	if !result.Success {
		status = models.NotificationFailed
		s.logger.Warn().
			Str("type", string(kind)).
			Str("recipient", recipient).
			Str("error", result.Error).
			Msg("Notification delivery failed")
	}

	record := &models.EmailNotification{
		ID:             common.NewNotificationID(),
		Type:           kind,
		RecipientEmail: recipient,
		SentAt:         s.now(),
		Status:         status,
		MessageID:      result.MessageID,
		Template:       template,
		Content:        content,
	}

	if err := s.notifications.Append(ctx, record); err != nil {
		s.logger.Warn().Err(err).Str("notification_id", record.ID).Msg("Failed to append notification history")
	}

	return record
}
