package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/loanlens/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// AnalysisStorage persists document analyses. The latest record uses
// last-write-wins overwrite semantics; history is an append-only log read
// most-recent-first.
type AnalysisStorage interface {
	// SaveLatest overwrites the single "latest analysis" record.
	SaveLatest(ctx context.Context, analysis *models.DocumentAnalysis) error

	// GetLatest returns the latest analysis, or ErrNotFound when none exists.
	GetLatest(ctx context.Context) (*models.DocumentAnalysis, error)

	// AppendHistory appends an analysis to the history log.
	AppendHistory(ctx context.Context, analysis *models.DocumentAnalysis) error

	// ListHistory returns up to limit analyses, most recent first.
	ListHistory(ctx context.Context, limit int) ([]models.DocumentAnalysis, error)
}

// NotificationStorage is the append-only log of notification attempts.
type NotificationStorage interface {
	// Append records a notification attempt.
	Append(ctx context.Context, notification *models.EmailNotification) error

	// List returns up to limit notifications, most recent first.
	List(ctx context.Context, limit int) ([]models.EmailNotification, error)
}

// StorageManager aggregates the storage backends behind a single handle.
type StorageManager interface {
	AnalysisStorage() AnalysisStorage
	NotificationStorage() NotificationStorage
	Close() error
}
