package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// InterviewReport stores the summary of an interview session for offline
// analysis. One row per session, upserted as the session progresses.
type InterviewReport struct {
	gorm.Model
	SessionID          string     `gorm:"uniqueIndex;not null" json:"session_id"`
	JobRole            string     `gorm:"not null" json:"job_role"`
	StagesCompleted    int        `gorm:"not null" json:"stages_completed"`
	TotalInteractions  int        `gorm:"not null" json:"total_interactions"`
	AverageResponseLen float64    `json:"average_response_length"`
	FollowupsNeeded    int        `json:"followups_needed"`
	EngagementScore    float64    `json:"engagement_score"`
	CompletionPercent  float64    `json:"completion_percentage"`
	StrongAreas        string     `json:"strong_areas"` // comma-separated skills
	Completed          bool       `gorm:"not null;default:false" json:"completed"`
	Exported           bool       `gorm:"not null;default:false;index" json:"exported"`
	ExportedAt         *time.Time `json:"exported_at"`
}

// StrongAreaList splits the stored comma-separated skills.
func (r *InterviewReport) StrongAreaList() []string {
	if r.StrongAreas == "" {
		return nil
	}
	return strings.Split(r.StrongAreas, ",")
}

// JoinStrongAreas encodes a skill list for storage.
func JoinStrongAreas(skills []string) string {
	return strings.Join(skills, ",")
}
