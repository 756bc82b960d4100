// -----------------------------------------------------------------------
// Mailer Service - SMTP delivery of borrower notifications
// Delivery outcomes are reported in the result, never as an error, so the
// analysis pipeline can treat notification as best-effort.
// -----------------------------------------------------------------------

package mailer

import (
	"context"
	"crypto/rand"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/loanlens/internal/common"
	"github.com/ternarybob/loanlens/internal/interfaces"
	"github.com/ternarybob/loanlens/internal/models"
)

// Service sends borrower notification emails over SMTP.
type Service struct {
	config common.MailerConfig
	logger arbor.ILogger
	now    func() time.Time
}

// Compile-time interface assertion
var _ interfaces.EmailSender = (*Service)(nil)

// NewService creates the SMTP mailer.
func NewService(config *common.Config, logger arbor.ILogger) *Service {
	return &Service{
		config: config.Mailer,
		logger: logger,
		now:    time.Now,
	}
}

// IsConfigured reports whether SMTP has the minimum required settings.
func (s *Service) IsConfigured() bool {
	return s.config.Host != "" && s.config.Username != "" && s.config.Password != "" && s.config.From != ""
}

// SendApproval renders and sends the loan approval email.
func (s *Service) SendApproval(ctx context.Context, recipient, borrowerName string, details models.LoanApprovalDetails) (models.EmailSendResult, models.EmailContent) {
	content, err := renderApproval(borrowerName, details, s.config.AppURL, s.now())
	if err != nil {
		return models.EmailSendResult{Success: false, Error: err.Error()}, content
	}
	return s.deliver(ctx, recipient, content), content
}

// SendConditional renders and sends the conditional-approval email.
func (s *Service) SendConditional(ctx context.Context, recipient, borrowerName string, conditions []string) (models.EmailSendResult, models.EmailContent) {
	content, err := renderConditional(borrowerName, conditions, s.config.AppURL, s.now())
	if err != nil {
		return models.EmailSendResult{Success: false, Error: err.Error()}, content
	}
	return s.deliver(ctx, recipient, content), content
}

// SendFollowUp renders and sends the stale-conditions reminder email.
func (s *Service) SendFollowUp(ctx context.Context, recipient, borrowerName string, conditions []string) (models.EmailSendResult, models.EmailContent) {
	content, err := renderFollowUp(borrowerName, conditions, s.config.AppURL, s.now())
	if err != nil {
		return models.EmailSendResult{Success: false, Error: err.Error()}, content
	}
	return s.deliver(ctx, recipient, content), content
}

// deliver sends rendered content to a recipient and reports the outcome.
func (s *Service) deliver(ctx context.Context, recipient string, content models.EmailContent) models.EmailSendResult {
	if !s.IsConfigured() {
		s.logger.Warn().Str("to", recipient).Msg("SMTP not configured, cannot send notification")
		return models.EmailSendResult{Success: false, Error: "SMTP is not configured"}
	}

	messageID := generateMessageID(s.config.From)
	msg := s.buildMessage(recipient, messageID, content)

	if err := s.send(ctx, recipient, msg); err != nil {
		s.logger.Error().Err(err).Str("to", recipient).Str("subject", content.Subject).Msg("Failed to send email")
		return models.EmailSendResult{Success: false, Error: err.Error()}
	}

	s.logger.Info().Str("to", recipient).Str("subject", content.Subject).Str("message_id", messageID).Msg("Email sent")
	return models.EmailSendResult{Success: true, MessageID: messageID}
}

// buildMessage assembles the MIME message. HTML bodies are base64 encoded
// with RFC 2045 line breaks so long template lines survive every server.
func (s *Service) buildMessage(to, messageID string, content models.EmailContent) string {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", content.Subject))
	msg.WriteString(fmt.Sprintf("Message-ID: <%s>\r\n", messageID))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("Content-Transfer-Encoding: base64\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(encodeBase64WithLineBreaks(content.HTMLBody))
	msg.WriteString("\r\n")
	return msg.String()
}

// send connects to the SMTP server and transmits the message, honoring
// context cancellation between the dial and the handshake.
func (s *Service) send(ctx context.Context, to, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)

	if s.config.UseTLS {
		return s.sendWithTLS(addr, auth, to, msg)
	}
	return smtp.SendMail(addr, auth, s.config.From, []string{to}, []byte(msg))
}

// sendWithTLS sends over a direct TLS connection, falling back to STARTTLS
// when the server does not accept implicit TLS.
func (s *Service) sendWithTLS(addr string, auth smtp.Auth, to, msg string) error {
	host := strings.Split(addr, ":")[0]

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return s.sendWithSTARTTLS(addr, auth, to, msg)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	return s.transmit(client, auth, to, msg)
}

// sendWithSTARTTLS sends over a plain connection upgraded with STARTTLS.
func (s *Service) sendWithSTARTTLS(addr string, auth smtp.Auth, to, msg string) error {
	host := strings.Split(addr, ":")[0]

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	return s.transmit(client, auth, to, msg)
}

// transmit runs the authenticated SMTP envelope exchange on an open client.
func (s *Service) transmit(client *smtp.Client, auth smtp.Auth, to, msg string) error {
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err := client.Mail(s.config.From); err != nil {
		return fmt.Errorf("failed to set mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set mail recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to start data: %w", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}

// generateMessageID creates an RFC 5322 Message-ID scoped to the sender's
// domain.
func generateMessageID(from string) string {
	domain := "loanlens.local"
	if at := strings.LastIndex(from, "@"); at >= 0 && at < len(from)-1 {
		domain = from[at+1:]
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("loanlens-%d@%s", time.Now().UnixNano(), domain)
	}
	return fmt.Sprintf("%x@%s", b, domain)
}

// encodeBase64WithLineBreaks encodes content as base64 with 76-char line
// breaks per RFC 2045.
func encodeBase64WithLineBreaks(content string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(content))

	var result strings.Builder
	const lineLen = 76

	for i := 0; i < len(encoded); i += lineLen {
		end := i + lineLen
		if end > len(encoded) {
			end = len(encoded)
		}
		result.WriteString(encoded[i:end])
		if end < len(encoded) {
			result.WriteString("\r\n")
		}
	}

	return result.String()
}
