package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/loanlens/internal/common"
	"github.com/ternarybob/loanlens/internal/interfaces"
	"github.com/ternarybob/loanlens/internal/models"
	"github.com/ternarybob/loanlens/internal/services/analyzer"
)

type fakeAnalyses struct {
	latest *models.DocumentAnalysis
	err    error
}

func (f *fakeAnalyses) SaveLatest(ctx context.Context, analysis *models.DocumentAnalysis) error {
	f.latest = analysis
	return nil
}

func (f *fakeAnalyses) GetLatest(ctx context.Context) (*models.DocumentAnalysis, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.latest, nil
}

func (f *fakeAnalyses) AppendHistory(ctx context.Context, analysis *models.DocumentAnalysis) error {
	return nil
}

func (f *fakeAnalyses) ListHistory(ctx context.Context, limit int) ([]models.DocumentAnalysis, error) {
	return nil, nil
}

type fakeNotifications struct {
	records []models.EmailNotification
}

func (f *fakeNotifications) Append(ctx context.Context, notification *models.EmailNotification) error {
	f.records = append(f.records, *notification)
	return nil
}

func (f *fakeNotifications) List(ctx context.Context, limit int) ([]models.EmailNotification, error) {
	return f.records, nil
}

type fakeMailer struct {
	followUps int
}

func (f *fakeMailer) SendApproval(ctx context.Context, recipient, name string, details models.LoanApprovalDetails) (models.EmailSendResult, models.EmailContent) {
	return models.EmailSendResult{Success: true}, models.EmailContent{}
}

func (f *fakeMailer) SendConditional(ctx context.Context, recipient, name string, conditions []string) (models.EmailSendResult, models.EmailContent) {
	return models.EmailSendResult{Success: true}, models.EmailContent{}
}

func (f *fakeMailer) SendFollowUp(ctx context.Context, recipient, name string, conditions []string) (models.EmailSendResult, models.EmailContent) {
	f.followUps++
	return models.EmailSendResult{Success: true, MessageID: "msg-follow"}, models.EmailContent{Subject: "reminder"}
}

type schedulerEnv struct {
	service       *Service
	analyses      *fakeAnalyses
	notifications *fakeNotifications
	mailer        *fakeMailer
}

func newSchedulerEnv(t *testing.T) *schedulerEnv {
	t.Helper()
	logger := arbor.NewLogger()
	env := &schedulerEnv{
		analyses:      &fakeAnalyses{},
		notifications: &fakeNotifications{},
		mailer:        &fakeMailer{},
	}

	orchestrator := analyzer.NewService(nil, nil, env.mailer, env.analyses, env.notifications, models.DefaultMortgageCriteria(), logger)

	config := common.DefaultConfig()
	config.FollowUp.Enabled = true

	env.service = NewService(config, orchestrator, env.analyses, env.notifications, logger)
	return env
}

func conditionalAnalysis(age time.Duration) *models.DocumentAnalysis {
	return &models.DocumentAnalysis{
		ID: "anl_stale",
		Extracted: models.ExtractedFacts{
			BorrowerInfo: models.BorrowerInfo{FirstName: "Jamie", Email: "jamie@example.com"},
		},
		EligibilityStatus: models.EligibilityConditional,
		Recommendations:   []string{"Work on improving credit score before final approval"},
		CreatedAt:         time.Now().Add(-age),
	}
}

func TestCheckAndNotify_StaleConditionalGetsReminder(t *testing.T) {
	env := newSchedulerEnv(t)
	env.analyses.latest = conditionalAnalysis(96 * time.Hour)

	err := env.service.CheckAndNotify(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, env.mailer.followUps)
	require.Len(t, env.notifications.records, 1)
	assert.Equal(t, models.NotificationFollowUp, env.notifications.records[0].Type)
}

func TestCheckAndNotify_FreshConditionalSkipped(t *testing.T) {
	env := newSchedulerEnv(t)
	env.analyses.latest = conditionalAnalysis(12 * time.Hour)

	err := env.service.CheckAndNotify(context.Background())

	require.NoError(t, err)
	assert.Zero(t, env.mailer.followUps)
}

func TestCheckAndNotify_NonConditionalSkipped(t *testing.T) {
	env := newSchedulerEnv(t)
	analysis := conditionalAnalysis(96 * time.Hour)
	analysis.EligibilityStatus = models.EligibilityApproved
	env.analyses.latest = analysis

	err := env.service.CheckAndNotify(context.Background())

	require.NoError(t, err)
	assert.Zero(t, env.mailer.followUps)
}

func TestCheckAndNotify_NoLatestAnalysisIsNoop(t *testing.T) {
	env := newSchedulerEnv(t)
	env.analyses.err = interfaces.ErrNotFound

	err := env.service.CheckAndNotify(context.Background())

	require.NoError(t, err)
	assert.Zero(t, env.mailer.followUps)
}

func TestCheckAndNotify_StorageErrorSurfaced(t *testing.T) {
	env := newSchedulerEnv(t)
	env.analyses.err = errors.New("badger closed")

	err := env.service.CheckAndNotify(context.Background())

	require.Error(t, err)
}

func TestCheckAndNotify_MissingContactSkipped(t *testing.T) {
	env := newSchedulerEnv(t)
	analysis := conditionalAnalysis(96 * time.Hour)
	analysis.Extracted.BorrowerInfo.Email = ""
	env.analyses.latest = analysis

	err := env.service.CheckAndNotify(context.Background())

	require.NoError(t, err)
	assert.Zero(t, env.mailer.followUps)
}

func TestCheckAndNotify_AtMostOneReminderPerAnalysis(t *testing.T) {
	env := newSchedulerEnv(t)
	env.analyses.latest = conditionalAnalysis(96 * time.Hour)

	require.NoError(t, env.service.CheckAndNotify(context.Background()))
	require.NoError(t, env.service.CheckAndNotify(context.Background()))

	assert.Equal(t, 1, env.mailer.followUps)
}

func TestStartStop(t *testing.T) {
	env := newSchedulerEnv(t)

	require.NoError(t, env.service.Start())
	assert.Error(t, env.service.Start())
	env.service.Stop()
	env.service.Stop()
}
