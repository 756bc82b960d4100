package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/loanlens/internal/common"
	"github.com/ternarybob/loanlens/internal/interfaces"
	"github.com/ternarybob/loanlens/internal/models"
)

func newTestManager(t *testing.T) interfaces.StorageManager {
	t.Helper()
	manager, err := NewManager(arbor.NewLogger(), &common.BadgerConfig{
		Path: t.TempDir(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })
	return manager
}

func testAnalysis(id string, createdAt time.Time) *models.DocumentAnalysis {
	return &models.DocumentAnalysis{
		ID: id,
		Extracted: models.ExtractedFacts{
			BorrowerInfo: models.BorrowerInfo{FirstName: "Jamie", LastName: "Rivera", Email: "jamie@example.com"},
			LoanAmount:   300000,
			InterestRate: 6.5,
		},
		Metrics:           models.LoanMetrics{LTV: 75, DTI: 15, MonthlyPayment: 1896},
		EligibilityStatus: models.EligibilityApproved,
		Recommendations:   []string{},
		CreatedAt:         createdAt,
	}
}

func TestAnalysisStorage_LatestRoundTrip(t *testing.T) {
	manager := newTestManager(t)
	storage := manager.AnalysisStorage()
	ctx := context.Background()

	_, err := storage.GetLatest(ctx)
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	first := testAnalysis("anl_1", time.Now().UTC())
	require.NoError(t, storage.SaveLatest(ctx, first))

	got, err := storage.GetLatest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "anl_1", got.ID)
	assert.Equal(t, 300000.0, got.Extracted.LoanAmount)
	assert.Equal(t, models.EligibilityApproved, got.EligibilityStatus)

	// Latest is a single slot; a second save replaces the first
	second := testAnalysis("anl_2", time.Now().UTC())
	require.NoError(t, storage.SaveLatest(ctx, second))

	got, err = storage.GetLatest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "anl_2", got.ID)
}

func TestAnalysisStorage_SaveLatestRequiresID(t *testing.T) {
	manager := newTestManager(t)

	err := manager.AnalysisStorage().SaveLatest(context.Background(), &models.DocumentAnalysis{})

	require.Error(t, err)
}

func TestAnalysisStorage_HistoryOrderedAndLimited(t *testing.T) {
	manager := newTestManager(t)
	storage := manager.AnalysisStorage()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, storage.AppendHistory(ctx, testAnalysis("anl_old", base.Add(-2*time.Hour))))
	require.NoError(t, storage.AppendHistory(ctx, testAnalysis("anl_mid", base.Add(-1*time.Hour))))
	require.NoError(t, storage.AppendHistory(ctx, testAnalysis("anl_new", base)))

	history, err := storage.ListHistory(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "anl_new", history[0].ID)
	assert.Equal(t, "anl_mid", history[1].ID)
	assert.Equal(t, "anl_old", history[2].ID)

	limited, err := storage.ListHistory(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "anl_new", limited[0].ID)
}

func TestAnalysisStorage_EmptyHistory(t *testing.T) {
	manager := newTestManager(t)

	history, err := manager.AnalysisStorage().ListHistory(context.Background(), 10)

	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestNotificationStorage_AppendAndList(t *testing.T) {
	manager := newTestManager(t)
	storage := manager.NotificationStorage()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	first := &models.EmailNotification{
		ID:             "ntf_1",
		Type:           models.NotificationApproval,
		RecipientEmail: "jamie@example.com",
		SentAt:         base.Add(-time.Minute),
		Status:         models.NotificationSent,
		Template:       "loan-approval",
	}
	second := &models.EmailNotification{
		ID:             "ntf_2",
		Type:           models.NotificationConditional,
		RecipientEmail: "jamie@example.com",
		SentAt:         base,
		Status:         models.NotificationFailed,
		Template:       "conditional-approval",
	}

	require.NoError(t, storage.Append(ctx, first))
	require.NoError(t, storage.Append(ctx, second))

	records, err := storage.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "ntf_2", records[0].ID)
	assert.Equal(t, models.NotificationFailed, records[0].Status)
	assert.Equal(t, "ntf_1", records[1].ID)
}

func TestNotificationStorage_AppendRequiresID(t *testing.T) {
	manager := newTestManager(t)

	err := manager.NotificationStorage().Append(context.Background(), &models.EmailNotification{})

	require.Error(t, err)
}
