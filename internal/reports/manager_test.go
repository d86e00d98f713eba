package reports

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kunjshukla/ain/internal/models"
	"github.com/kunjshukla/ain/internal/orchestrator"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	dsn := fmt.Sprintf("file:%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.InterviewReport{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return NewManager(db, time.Minute)
}

func sampleSummary() orchestrator.Summary {
	return orchestrator.Summary{
		StagesCompleted:       5,
		TotalInteractions:     8,
		AverageResponseLength: 24.5,
		FollowupsNeeded:       2,
		EngagementScore:       100,
		CompletionPercentage:  100,
		StrongAreas:           []string{"Python", "Docker"},
	}
}

func TestRecordSummaryAndGetReport(t *testing.T) {
	m := newTestManager(t)

	require.NoError(t, m.RecordSummary("s1", "SWE", sampleSummary(), true))

	report, err := m.GetReport("s1")
	require.NoError(t, err)
	assert.Equal(t, "SWE", report.JobRole)
	assert.Equal(t, 5, report.StagesCompleted)
	assert.Equal(t, []string{"Python", "Docker"}, report.StrongAreaList())
	assert.True(t, report.Completed)
	assert.False(t, report.Exported)

	// The summary is also served from the cache.
	cached, ok := m.GetSummary("s1")
	assert.True(t, ok)
	assert.Equal(t, 8, cached.TotalInteractions)
}

func TestRecordSummaryUpserts(t *testing.T) {
	m := newTestManager(t)

	first := sampleSummary()
	first.StagesCompleted = 2
	first.CompletionPercentage = 40
	require.NoError(t, m.RecordSummary("s1", "SWE", first, false))
	require.NoError(t, m.RecordSummary("s1", "SWE", sampleSummary(), true))

	report, err := m.GetReport("s1")
	require.NoError(t, err)
	assert.Equal(t, 5, report.StagesCompleted)
	assert.True(t, report.Completed)

	stats, err := m.Stats()
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats["total_reports"])
}

func TestRecordSummaryIgnoresNoInteraction(t *testing.T) {
	m := newTestManager(t)

	require.NoError(t, m.RecordSummary("s1", "SWE", orchestrator.Summary{Status: orchestrator.StatusNoInteraction}, false))

	_, err := m.GetReport("s1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGetUnexportedAndMarkExported(t *testing.T) {
	m := newTestManager(t)

	require.NoError(t, m.RecordSummary("done", "SWE", sampleSummary(), true))

	inProgress := sampleSummary()
	inProgress.StagesCompleted = 2
	require.NoError(t, m.RecordSummary("partial", "SWE", inProgress, false))

	unexported, err := m.GetUnexported(0)
	require.NoError(t, err)
	require.Len(t, unexported, 1, "only completed interviews are exported")
	assert.Equal(t, "done", unexported[0].SessionID)

	require.NoError(t, m.MarkExported([]uint{unexported[0].ID}))

	unexported, err = m.GetUnexported(0)
	require.NoError(t, err)
	assert.Empty(t, unexported)

	report, err := m.GetReport("done")
	require.NoError(t, err)
	assert.True(t, report.Exported)
	assert.NotNil(t, report.ExportedAt)
}

func TestMarkExportedEmpty(t *testing.T) {
	m := newTestManager(t)
	assert.NoError(t, m.MarkExported(nil))
}
