// -----------------------------------------------------------------------
// Follow-Up Scheduler - reminds borrowers about stale conditional approvals
// -----------------------------------------------------------------------

package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/loanlens/internal/common"
	"github.com/ternarybob/loanlens/internal/interfaces"
	"github.com/ternarybob/loanlens/internal/models"
	"github.com/ternarybob/loanlens/internal/services/analyzer"
)

// Service periodically checks the latest analysis and sends a follow-up
// reminder when a conditional approval has gone stale without action.
type Service struct {
	analyzerService *analyzer.Service
	analyses        interfaces.AnalysisStorage
	notifications   interfaces.NotificationStorage
	schedule        string
	minAge          time.Duration
	cron            *cron.Cron
	logger          arbor.ILogger
	now             func() time.Time

	mu      sync.Mutex
	running bool
}

// NewService creates the follow-up scheduler.
func NewService(
	config *common.Config,
	analyzerService *analyzer.Service,
	analyses interfaces.AnalysisStorage,
	notifications interfaces.NotificationStorage,
	logger arbor.ILogger,
) *Service {
	return &Service{
		analyzerService: analyzerService,
		analyses:        analyses,
		notifications:   notifications,
		schedule:        config.FollowUp.Schedule,
		minAge:          config.FollowUpMinAge(),
		cron:            cron.New(),
		logger:          logger,
		now:             time.Now,
	}
}

// Start registers the cron entry and begins scheduling.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	if _, err := s.cron.AddFunc(s.schedule, s.runFollowUpCheck); err != nil {
		return fmt.Errorf("failed to add follow-up cron job: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().
		Str("schedule", s.schedule).
		Dur("min_age", s.minAge).
		Msg("Follow-up scheduler started")

	return nil
}

// Stop halts scheduling and waits for any in-flight run to finish.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info().Msg("Follow-up scheduler stopped")
}

// runFollowUpCheck is the cron entrypoint.
func (s *Service) runFollowUpCheck() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.CheckAndNotify(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Follow-up check failed")
	}
}

// CheckAndNotify sends a follow-up reminder when the latest analysis is a
// conditional approval older than the configured minimum age that has not
// already been reminded. Returns nil when there is nothing to do.
func (s *Service) CheckAndNotify(ctx context.Context) error {
	latest, err := s.analyses.GetLatest(ctx)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load latest analysis: %w", err)
	}

	if latest.EligibilityStatus != models.EligibilityConditional {
		return nil
	}

	age := s.now().Sub(latest.CreatedAt)
	if age < s.minAge {
		return nil
	}

	email := latest.Extracted.BorrowerInfo.Email
	name := latest.Extracted.BorrowerInfo.FirstName
	if email == "" || name == "" {
		s.logger.Debug().Str("analysis_id", latest.ID).Msg("Skipping follow-up: borrower contact details missing")
		return nil
	}

	reminded, err := s.alreadyReminded(ctx, latest.CreatedAt)
	if err != nil {
		return err
	}
	if reminded {
		return nil
	}

	s.logger.Info().
		Str("analysis_id", latest.ID).
		Dur("age", age).
		Str("recipient", email).
		Msg("Sending follow-up reminder for stale conditional approval")

	if _, err := s.analyzerService.SendFollowUpNotification(ctx, email, name, latest.Recommendations); err != nil {
		return fmt.Errorf("failed to send follow-up: %w", err)
	}

	return nil
}

// alreadyReminded reports whether a follow-up has been sent since the given
// analysis was created, so each stale conditional gets at most one reminder.
func (s *Service) alreadyReminded(ctx context.Context, analysisCreatedAt time.Time) (bool, error) {
	history, err := s.notifications.List(ctx, 50)
	if err != nil {
		return false, fmt.Errorf("failed to load notification history: %w", err)
	}

	for _, record := range history {
		if record.Type == models.NotificationFollowUp && record.SentAt.After(analysisCreatedAt) {
			return true, nil
		}
	}
	return false, nil
}
