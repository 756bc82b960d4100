package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/loanlens/internal/interfaces"
	"github.com/ternarybob/loanlens/internal/models"
)

// NotificationStorage implements the SQLite notification delivery log.
type NotificationStorage struct {
	db     *SQLiteDB
	logger arbor.ILogger
}

// NewNotificationStorage creates a new notification storage instance
func NewNotificationStorage(db *SQLiteDB, logger arbor.ILogger) *NotificationStorage {
	return &NotificationStorage{
		db:     db,
		logger: logger,
	}
}

var _ interfaces.NotificationStorage = (*NotificationStorage)(nil)

// Append records a notification attempt.
func (s *NotificationStorage) Append(ctx context.Context, notification *models.EmailNotification) error {
	if notification.ID == "" {
		return fmt.Errorf("notification ID is required")
	}

	data, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to serialize notification: %w", err)
	}

	if _, err := s.db.DB().ExecContext(ctx,
		"INSERT INTO notifications (id, data, sent_at) VALUES (?, ?, ?)",
		notification.ID, string(data), notification.SentAt.UnixNano()); err != nil {
		return fmt.Errorf("failed to append notification: %w", err)
	}

	return nil
}

// List returns up to limit notifications, most recent first. A limit of
// zero or less returns everything.
func (s *NotificationStorage) List(ctx context.Context, limit int) ([]models.EmailNotification, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.DB().QueryContext(ctx,
		"SELECT data FROM notifications ORDER BY sent_at DESC, rowid DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	notifications := []models.EmailNotification{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		var notification models.EmailNotification
		if err := json.Unmarshal([]byte(data), &notification); err != nil {
			return nil, fmt.Errorf("failed to deserialize notification: %w", err)
		}
		notifications = append(notifications, notification)
	}

	return notifications, rows.Err()
}
