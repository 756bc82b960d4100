package interfaces

import (
	"context"

	"github.com/ternarybob/loanlens/internal/models"
)

// EmailSender dispatches borrower notification emails. Implementations never
// return an error; delivery failure is reported through the result so callers
// can record the attempt either way. The returned content is the rendered
// subject and body, kept for the notification history log.
type EmailSender interface {
	// SendApproval sends the approval template with the given loan details.
	SendApproval(ctx context.Context, recipient, borrowerName string, details models.LoanApprovalDetails) (models.EmailSendResult, models.EmailContent)

	// SendConditional sends the conditional-approval template listing the
	// conditions the borrower must satisfy.
	SendConditional(ctx context.Context, recipient, borrowerName string, conditions []string) (models.EmailSendResult, models.EmailContent)

	// SendFollowUp sends a reminder for an application that has sat in the
	// conditional tier without further documentation.
	SendFollowUp(ctx context.Context, recipient, borrowerName string, conditions []string) (models.EmailSendResult, models.EmailContent)
}
