package jobs

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kunjshukla/ain/internal/models"
	"github.com/kunjshukla/ain/internal/orchestrator"
	"github.com/kunjshukla/ain/internal/reports"
)

func newTestReportManager(t *testing.T) *reports.Manager {
	t.Helper()
	dsn := fmt.Sprintf("file:%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.InterviewReport{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return reports.NewManager(db, time.Minute)
}

func TestRunExportWritesJSONL(t *testing.T) {
	manager := newTestReportManager(t)
	exportDir := t.TempDir()

	summary := orchestrator.Summary{
		StagesCompleted:      5,
		TotalInteractions:    6,
		EngagementScore:      80,
		CompletionPercentage: 100,
		StrongAreas:          []string{"Go"},
	}
	require.NoError(t, manager.RecordSummary("s1", "SWE", summary, true))
	require.NoError(t, manager.RecordSummary("s2", "SRE", summary, true))

	job := NewReportExporterJob(manager, &ExporterConfig{
		Schedule:  "0 2 * * *",
		ExportDir: exportDir,
		Enabled:   true,
	}, zap.NewNop())

	require.NoError(t, job.RunExport())

	files, err := filepath.Glob(filepath.Join(exportDir, "interview_reports_*.jsonl"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	file, err := os.Open(files[0])
	require.NoError(t, err)
	defer file.Close()

	var lines []exportRecord
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var record exportRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &record))
		lines = append(lines, record)
	}
	require.Len(t, lines, 2)
	assert.ElementsMatch(t, []string{"s1", "s2"}, []string{lines[0].SessionID, lines[1].SessionID})
	assert.Equal(t, []string{"Go"}, lines[0].StrongAreas)

	// Exported rows are marked and not exported twice.
	unexported, err := manager.GetUnexported(0)
	require.NoError(t, err)
	assert.Empty(t, unexported)

	require.NoError(t, job.RunExport())
	files, err = filepath.Glob(filepath.Join(exportDir, "interview_reports_*.jsonl"))
	require.NoError(t, err)
	assert.Len(t, files, 1, "no new file when nothing to export")
}

func TestStartDisabled(t *testing.T) {
	manager := newTestReportManager(t)
	job := NewReportExporterJob(manager, &ExporterConfig{Enabled: false}, zap.NewNop())

	assert.NoError(t, job.Start())
	job.Stop()
}

func TestStartInvalidSchedule(t *testing.T) {
	manager := newTestReportManager(t)
	job := NewReportExporterJob(manager, &ExporterConfig{
		Schedule: "not a schedule",
		Enabled:  true,
	}, zap.NewNop())

	assert.Error(t, job.Start())
}
