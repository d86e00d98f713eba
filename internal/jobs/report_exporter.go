package jobs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/kunjshukla/ain/internal/reports"
)

// ReportExporterJob writes completed interview reports to JSONL files on a
// cron schedule for offline analysis.
type ReportExporterJob struct {
	manager *reports.Manager
	config  *ExporterConfig
	logger  *zap.Logger
	cron    *cron.Cron
}

// ExporterConfig contains configuration for the exporter job
type ExporterConfig struct {
	Schedule  string // Cron schedule (e.g., "0 2 * * *" for 2 AM daily)
	ExportDir string // Directory to store exported files
	Enabled   bool   // Whether to run exports
}

// exportRecord is one JSONL line of an export file.
type exportRecord struct {
	SessionID          string   `json:"session_id"`
	JobRole            string   `json:"job_role"`
	StagesCompleted    int      `json:"stages_completed"`
	TotalInteractions  int      `json:"total_interactions"`
	AverageResponseLen float64  `json:"average_response_length"`
	FollowupsNeeded    int      `json:"followups_needed"`
	EngagementScore    float64  `json:"engagement_score"`
	CompletionPercent  float64  `json:"completion_percentage"`
	StrongAreas        []string `json:"strong_areas"`
	CreatedAt          string   `json:"created_at"`
}

func NewReportExporterJob(manager *reports.Manager, config *ExporterConfig, logger *zap.Logger) *ReportExporterJob {
	return &ReportExporterJob{
		manager: manager,
		config:  config,
		logger:  logger,
		cron:    cron.New(),
	}
}

// Start begins the scheduled export job.
func (j *ReportExporterJob) Start() error {
	if !j.config.Enabled {
		j.logger.Info("report export is disabled, skipping scheduler")
		return nil
	}

	_, err := j.cron.AddFunc(j.config.Schedule, func() {
		if err := j.RunExport(); err != nil {
			j.logger.Error("report export run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule export job: %w", err)
	}

	j.cron.Start()
	j.logger.Info("report exporter started", zap.String("schedule", j.config.Schedule))
	return nil
}

// Stop stops the scheduled export job.
func (j *ReportExporterJob) Stop() {
	if j.cron != nil {
		j.cron.Stop()
	}
}

// RunExport performs a single export run.
func (j *ReportExporterJob) RunExport() error {
	unexported, err := j.manager.GetUnexported(0)
	if err != nil {
		return err
	}
	if len(unexported) == 0 {
		j.logger.Info("no reports to export")
		return nil
	}

	if err := os.MkdirAll(j.config.ExportDir, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	filename := filepath.Join(j.config.ExportDir,
		fmt.Sprintf("interview_reports_%s.jsonl", time.Now().Format("20060102_150405")))
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	ids := make([]uint, 0, len(unexported))
	for _, report := range unexported {
		record := exportRecord{
			SessionID:          report.SessionID,
			JobRole:            report.JobRole,
			StagesCompleted:    report.StagesCompleted,
			TotalInteractions:  report.TotalInteractions,
			AverageResponseLen: report.AverageResponseLen,
			FollowupsNeeded:    report.FollowupsNeeded,
			EngagementScore:    report.EngagementScore,
			CompletionPercent:  report.CompletionPercent,
			StrongAreas:        report.StrongAreaList(),
			CreatedAt:          report.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := encoder.Encode(record); err != nil {
			return fmt.Errorf("failed to write export record: %w", err)
		}
		ids = append(ids, report.ID)
	}

	if err := j.manager.MarkExported(ids); err != nil {
		return fmt.Errorf("failed to mark reports exported: %w", err)
	}

	j.logger.Info("exported interview reports",
		zap.Int("count", len(ids)), zap.String("file", filename))
	return nil
}
