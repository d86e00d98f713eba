package orchestrator

import "strings"

// Progress describes how far a session has moved through the stages.
type Progress struct {
	CurrentStage        string  `json:"current_stage"`
	StageNumber         int     `json:"stage_number"`
	TotalStages         int     `json:"total_stages"`
	ProgressPercent     float64 `json:"progress_percent"`
	FollowUpCount       int     `json:"follow_up_count"`
	QuestionsAskedCount int     `json:"questions_asked_count"`
	ConversationLength  int     `json:"conversation_length"`
}

// Summary is the end-of-interview performance readout.
type Summary struct {
	Status                string   `json:"status,omitempty"`
	StagesCompleted       int      `json:"stages_completed"`
	TotalInteractions     int      `json:"total_interactions"`
	AverageResponseLength float64  `json:"average_response_length"`
	FollowupsNeeded       int      `json:"followups_needed"`
	EngagementScore       float64  `json:"engagement_score"`
	CompletionPercentage  float64  `json:"completion_percentage"`
	WeakAreas             []string `json:"weak_areas"`
	StrongAreas           []string `json:"strong_areas"`
}

// StatusNoInteraction marks a summary requested before any exchange happened.
const StatusNoInteraction = "no_interaction"

// Progress returns the current stage progress. Pure read.
func (s *Session) Progress() Progress {
	return Progress{
		CurrentStage:        s.StageName(),
		StageNumber:         s.CurrentStage + 1,
		TotalStages:         len(Stages),
		ProgressPercent:     float64(s.CurrentStage+1) / float64(len(Stages)) * 100,
		FollowUpCount:       s.FollowUpCount,
		QuestionsAskedCount: len(s.QuestionsAsked),
		ConversationLength:  len(s.History),
	}
}

// Summary computes the interview assessment from the recorded history.
// Pure read.
func (s *Session) Summary() Summary {
	if len(s.History) == 0 {
		return Summary{Status: StatusNoInteraction}
	}

	totalWords := 0
	followupsNeeded := 0
	var answers strings.Builder
	for _, item := range s.History {
		totalWords += item.WordCount
		if item.NeededFollowup {
			followupsNeeded++
		}
		answers.WriteString(strings.ToLower(item.Answer))
		answers.WriteString(" ")
	}
	avgLen := float64(totalWords) / float64(len(s.History))

	engagement := avgLen / 20 * 100
	if engagement > 100 {
		engagement = 100
	}

	allAnswers := answers.String()
	var strong []string
	for _, skill := range s.ResumeSkills {
		if strings.Contains(allAnswers, strings.ToLower(skill)) {
			strong = append(strong, skill)
		}
	}

	return Summary{
		StagesCompleted:       s.CurrentStage + 1,
		TotalInteractions:     len(s.History),
		AverageResponseLength: avgLen,
		FollowupsNeeded:       followupsNeeded,
		EngagementScore:       engagement,
		CompletionPercentage:  float64(s.CurrentStage+1) / float64(len(Stages)) * 100,
		WeakAreas:             s.WeakAreas,
		StrongAreas:           strong,
	}
}
