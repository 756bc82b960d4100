// -----------------------------------------------------------------------
// Notification Handler - explicit email dispatch and delivery history
// -----------------------------------------------------------------------

package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/loanlens/internal/interfaces"
	"github.com/ternarybob/loanlens/internal/models"
)

// NotificationSender is the dispatch surface the notification endpoints need.
type NotificationSender interface {
	SendApprovalNotification(ctx context.Context, recipient, borrowerName string, details models.LoanApprovalDetails) (*models.EmailNotification, error)
	SendConditionalNotification(ctx context.Context, recipient, borrowerName string, conditions []string) (*models.EmailNotification, error)
}

// NotificationHandler serves the notification endpoints.
type NotificationHandler struct {
	sender   NotificationSender
	storage  interfaces.NotificationStorage
	validate *validator.Validate
	logger   arbor.ILogger
}

// NewNotificationHandler creates a new NotificationHandler instance.
func NewNotificationHandler(sender NotificationSender, storage interfaces.NotificationStorage, logger arbor.ILogger) *NotificationHandler {
	return &NotificationHandler{
		sender:   sender,
		storage:  storage,
		validate: validator.New(),
		logger:   logger,
	}
}

type sendApprovalRequest struct {
	BorrowerEmail string                     `json:"borrowerEmail" validate:"required,email"`
	BorrowerName  string                     `json:"borrowerName" validate:"required"`
	LoanDetails   models.LoanApprovalDetails `json:"loanDetails" validate:"required"`
}

type sendConditionalRequest struct {
	BorrowerEmail string   `json:"borrowerEmail" validate:"required,email"`
	BorrowerName  string   `json:"borrowerName" validate:"required"`
	Conditions    []string `json:"conditions" validate:"required"`
}

// SendApprovalHandler handles POST /api/notifications/send-approval.
// A delivery failure maps to 502 so callers can distinguish an upstream
// email problem from a bad request.
func (h *NotificationHandler) SendApprovalHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req sendApprovalRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	record, err := h.sender.SendApprovalNotification(r.Context(), req.BorrowerEmail, req.BorrowerName, req.LoanDetails)
	if err != nil {
		h.logger.Warn().Err(err).Str("recipient", req.BorrowerEmail).Msg("Approval notification failed")
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"messageId": record.MessageID,
	})
}

// SendConditionalHandler handles POST /api/notifications/send-conditional.
func (h *NotificationHandler) SendConditionalHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req sendConditionalRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	record, err := h.sender.SendConditionalNotification(r.Context(), req.BorrowerEmail, req.BorrowerName, req.Conditions)
	if err != nil {
		h.logger.Warn().Err(err).Str("recipient", req.BorrowerEmail).Msg("Conditional notification failed")
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"messageId": record.MessageID,
	})
}

// HistoryHandler handles GET /api/notifications/history, returning the last
// 50 notification attempts most recent first.
func (h *NotificationHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	limit := GetLimitParam(r, 50, 200)

	notifications, err := h.storage.List(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to load notification history")
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"success":       false,
			"notifications": []models.EmailNotification{},
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"notifications": notifications,
	})
}

func (h *NotificationHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "Missing required fields")
		return false
	}
	return true
}
