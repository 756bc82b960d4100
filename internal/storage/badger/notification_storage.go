package badger

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/loanlens/internal/interfaces"
	"github.com/ternarybob/loanlens/internal/models"
)

// NotificationStorage implements the NotificationStorage interface for Badger
type NotificationStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewNotificationStorage creates a new NotificationStorage instance
func NewNotificationStorage(db *BadgerDB, logger arbor.ILogger) interfaces.NotificationStorage {
	return &NotificationStorage{
		db:     db,
		logger: logger,
	}
}

// Append records a notification attempt in the append-only log.
func (s *NotificationStorage) Append(ctx context.Context, notification *models.EmailNotification) error {
	if notification == nil || notification.ID == "" {
		return fmt.Errorf("notification ID is required")
	}

	if err := s.db.Store().Insert(notification.ID, notification); err != nil {
		return fmt.Errorf("failed to append notification: %w", err)
	}
	return nil
}

// List returns notifications most recent first, up to limit.
func (s *NotificationStorage) List(ctx context.Context, limit int) ([]models.EmailNotification, error) {
	query := badgerhold.Where("ID").Ne("").SortBy("SentAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var notifications []models.EmailNotification
	if err := s.db.Store().Find(&notifications, query); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	if notifications == nil {
		notifications = []models.EmailNotification{}
	}
	return notifications, nil
}
