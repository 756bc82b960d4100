package models

import "time"

// NotificationType distinguishes the email templates sent to borrowers.
type NotificationType string

const (
	NotificationApproval    NotificationType = "approval"
	NotificationConditional NotificationType = "conditional"
	NotificationDenial      NotificationType = "denial"
	NotificationFollowUp    NotificationType = "follow-up"
)

// NotificationStatus records the outcome of a delivery attempt.
type NotificationStatus string

const (
	NotificationSent   NotificationStatus = "sent"
	NotificationFailed NotificationStatus = "failed"
)

// EmailContent is the rendered subject and body of a notification.
type EmailContent struct {
	Subject  string `json:"subject"`
	HTMLBody string `json:"htmlBody"`
}

// EmailNotification is an append-only record of a notification attempt,
// stored most-recent-first in the notification history log.
type EmailNotification struct {
	ID             string             `json:"id" badgerhold:"key"`
	Type           NotificationType   `json:"type"`
	RecipientEmail string             `json:"recipientEmail"`
	SentAt         time.Time          `json:"sentAt"`
	Status         NotificationStatus `json:"status"`
	MessageID      string             `json:"messageId,omitempty"`
	Template       string             `json:"template"`
	Content        EmailContent       `json:"content"`
}

// EmailSendResult is the collaborator-level outcome of a dispatch call.
type EmailSendResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}
