package reports

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kunjshukla/ain/internal/models"
	"github.com/kunjshukla/ain/internal/orchestrator"
)

// Manager persists interview summaries and serves them to the REST surface.
// Recent summaries are cached in memory with a TTL to keep the summary
// endpoint off the database for repeat reads.
type Manager struct {
	db    *gorm.DB
	cache *summaryCache
}

func NewManager(db *gorm.DB, cacheTTL time.Duration) *Manager {
	return &Manager{
		db:    db,
		cache: newSummaryCache(cacheTTL),
	}
}

// RecordSummary upserts the report row for a session.
func (m *Manager) RecordSummary(sessionID, jobRole string, summary orchestrator.Summary, completed bool) error {
	if summary.Status == orchestrator.StatusNoInteraction {
		return nil
	}

	report := models.InterviewReport{
		SessionID:          sessionID,
		JobRole:            jobRole,
		StagesCompleted:    summary.StagesCompleted,
		TotalInteractions:  summary.TotalInteractions,
		AverageResponseLen: summary.AverageResponseLength,
		FollowupsNeeded:    summary.FollowupsNeeded,
		EngagementScore:    summary.EngagementScore,
		CompletionPercent:  summary.CompletionPercentage,
		StrongAreas:        models.JoinStrongAreas(summary.StrongAreas),
		Completed:          completed,
	}

	err := m.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"job_role", "stages_completed", "total_interactions",
			"average_response_len", "followups_needed", "engagement_score",
			"completion_percent", "strong_areas", "completed", "updated_at",
		}),
	}).Create(&report).Error
	if err != nil {
		return fmt.Errorf("failed to record interview summary: %w", err)
	}

	m.cache.set(sessionID, summary)
	return nil
}

// GetSummary returns a cached summary if present.
func (m *Manager) GetSummary(sessionID string) (orchestrator.Summary, bool) {
	return m.cache.get(sessionID)
}

// GetReport loads the persisted report row for a session.
func (m *Manager) GetReport(sessionID string) (*models.InterviewReport, error) {
	var report models.InterviewReport
	if err := m.db.Where("session_id = ?", sessionID).First(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// GetUnexported returns completed reports not yet exported. limit <= 0 means
// no limit.
func (m *Manager) GetUnexported(limit int) ([]models.InterviewReport, error) {
	var reports []models.InterviewReport
	query := m.db.Where("exported = ? AND completed = ?", false, true).Order("created_at asc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to load unexported reports: %w", err)
	}
	return reports, nil
}

// MarkExported flags report rows after a successful export run.
func (m *Manager) MarkExported(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	now := time.Now()
	return m.db.Model(&models.InterviewReport{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{"exported": true, "exported_at": &now}).Error
}

// Stats returns counts for the health endpoint.
func (m *Manager) Stats() (map[string]interface{}, error) {
	var total, completed int64
	if err := m.db.Model(&models.InterviewReport{}).Count(&total).Error; err != nil {
		return nil, err
	}
	if err := m.db.Model(&models.InterviewReport{}).Where("completed = ?", true).Count(&completed).Error; err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"total_reports":     total,
		"completed_reports": completed,
		"cached_summaries":  m.cache.len(),
	}, nil
}
