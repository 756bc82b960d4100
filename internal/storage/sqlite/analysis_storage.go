package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/loanlens/internal/interfaces"
	"github.com/ternarybob/loanlens/internal/models"
)

// AnalysisStorage implements SQLite persistence for document analyses.
type AnalysisStorage struct {
	db     *SQLiteDB
	logger arbor.ILogger
}

// NewAnalysisStorage creates a new analysis storage instance
func NewAnalysisStorage(db *SQLiteDB, logger arbor.ILogger) *AnalysisStorage {
	return &AnalysisStorage{
		db:     db,
		logger: logger,
	}
}

var _ interfaces.AnalysisStorage = (*AnalysisStorage)(nil)

// SaveLatest overwrites the single latest-analysis slot.
func (s *AnalysisStorage) SaveLatest(ctx context.Context, analysis *models.DocumentAnalysis) error {
	if analysis.ID == "" {
		return fmt.Errorf("analysis ID is required")
	}

	data, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to serialize analysis: %w", err)
	}

	query := `
		INSERT INTO latest_analysis (slot, analysis_id, data, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			analysis_id = excluded.analysis_id,
			data = excluded.data,
			updated_at = excluded.updated_at`

	if _, err := s.db.DB().ExecContext(ctx, query,
		analysis.ID, string(data), analysis.CreatedAt.UnixNano()); err != nil {
		return fmt.Errorf("failed to save latest analysis: %w", err)
	}

	return nil
}

// GetLatest returns the latest analysis, or interfaces.ErrNotFound.
func (s *AnalysisStorage) GetLatest(ctx context.Context) (*models.DocumentAnalysis, error) {
	var data string
	err := s.db.DB().QueryRowContext(ctx,
		"SELECT data FROM latest_analysis WHERE slot = 1").Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, interfaces.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest analysis: %w", err)
	}

	var analysis models.DocumentAnalysis
	if err := json.Unmarshal([]byte(data), &analysis); err != nil {
		return nil, fmt.Errorf("failed to deserialize analysis: %w", err)
	}

	return &analysis, nil
}

// AppendHistory appends an analysis to the history log.
func (s *AnalysisStorage) AppendHistory(ctx context.Context, analysis *models.DocumentAnalysis) error {
	if analysis.ID == "" {
		return fmt.Errorf("analysis ID is required")
	}

	data, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to serialize analysis: %w", err)
	}

	if _, err := s.db.DB().ExecContext(ctx,
		"INSERT INTO analysis_history (id, data, created_at) VALUES (?, ?, ?)",
		analysis.ID, string(data), analysis.CreatedAt.UnixNano()); err != nil {
		return fmt.Errorf("failed to append analysis history: %w", err)
	}

	return nil
}

// ListHistory returns up to limit analyses, most recent first. A limit of
// zero or less returns everything.
func (s *AnalysisStorage) ListHistory(ctx context.Context, limit int) ([]models.DocumentAnalysis, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.DB().QueryContext(ctx,
		"SELECT data FROM analysis_history ORDER BY created_at DESC, rowid DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis history: %w", err)
	}
	defer rows.Close()

	analyses := []models.DocumentAnalysis{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan analysis row: %w", err)
		}
		var analysis models.DocumentAnalysis
		if err := json.Unmarshal([]byte(data), &analysis); err != nil {
			return nil, fmt.Errorf("failed to deserialize analysis: %w", err)
		}
		analyses = append(analyses, analysis)
	}

	return analyses, rows.Err()
}
