package badger

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/loanlens/internal/interfaces"
	"github.com/ternarybob/loanlens/internal/models"
)

// latestAnalysisKey is the fixed key the most recent analysis is upserted
// under, mirroring a single-slot cache.
const latestAnalysisKey = "analysis:latest"

// latestAnalysis wraps the latest analysis so it lives in its own bucket and
// never collides with the append-only history records.
type latestAnalysis struct {
	Key      string `badgerhold:"key"`
	Analysis models.DocumentAnalysis
}

// AnalysisStorage implements the AnalysisStorage interface for Badger
type AnalysisStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewAnalysisStorage creates a new AnalysisStorage instance
func NewAnalysisStorage(db *BadgerDB, logger arbor.ILogger) interfaces.AnalysisStorage {
	return &AnalysisStorage{
		db:     db,
		logger: logger,
	}
}

// SaveLatest overwrites the single latest-analysis slot.
func (s *AnalysisStorage) SaveLatest(ctx context.Context, analysis *models.DocumentAnalysis) error {
	if analysis == nil || analysis.ID == "" {
		return fmt.Errorf("analysis ID is required")
	}

	record := latestAnalysis{Key: latestAnalysisKey, Analysis: *analysis}
	if err := s.db.Store().Upsert(latestAnalysisKey, &record); err != nil {
		return fmt.Errorf("failed to save latest analysis: %w", err)
	}
	return nil
}

// GetLatest returns the most recently saved analysis.
func (s *AnalysisStorage) GetLatest(ctx context.Context) (*models.DocumentAnalysis, error) {
	var record latestAnalysis
	if err := s.db.Store().Get(latestAnalysisKey, &record); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest analysis: %w", err)
	}
	return &record.Analysis, nil
}

// AppendHistory adds an analysis to the append-only history log.
func (s *AnalysisStorage) AppendHistory(ctx context.Context, analysis *models.DocumentAnalysis) error {
	if analysis == nil || analysis.ID == "" {
		return fmt.Errorf("analysis ID is required")
	}

	if err := s.db.Store().Insert(analysis.ID, analysis); err != nil {
		return fmt.Errorf("failed to append analysis history: %w", err)
	}
	return nil
}

// ListHistory returns analyses most recent first, up to limit.
func (s *AnalysisStorage) ListHistory(ctx context.Context, limit int) ([]models.DocumentAnalysis, error) {
	query := badgerhold.Where("ID").Ne("").SortBy("CreatedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var analyses []models.DocumentAnalysis
	if err := s.db.Store().Find(&analyses, query); err != nil {
		return nil, fmt.Errorf("failed to list analysis history: %w", err)
	}

	if analyses == nil {
		analyses = []models.DocumentAnalysis{}
	}
	return analyses, nil
}
