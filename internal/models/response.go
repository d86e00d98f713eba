package models

import "github.com/kunjshukla/ain/internal/orchestrator"

// ErrorResponse is the uniform error payload for REST and WebSocket clients.
type ErrorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

// TurnResponse is the completion payload of one processed turn. Over the
// WebSocket it is emitted as the ai_complete event after the token stream.
type TurnResponse struct {
	Stage         string                `json:"stage"`
	StageNumber   int                   `json:"stage_number"`
	TotalStages   int                   `json:"total_stages"`
	IsFinal       bool                  `json:"is_final"`
	NeedsFollowup bool                  `json:"needs_followup"`
	FollowUpCount int                   `json:"follow_up_count"`
	FullResponse  string                `json:"full_response"`
	Progress      orchestrator.Progress `json:"progress"`
}

// TokenEvent is one streamed token, emitted as the ai_token event.
type TokenEvent struct {
	Token      string `json:"token"`
	Stage      string `json:"stage"`
	IsFollowup bool   `json:"is_followup"`
}

// SessionCreatedResponse acknowledges start_interview.
type SessionCreatedResponse struct {
	SessionID string `json:"session_id"`
	JobRole   string `json:"job_role"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// ProgressResponse wraps stage progress for the REST surface.
type ProgressResponse struct {
	SessionID string                `json:"session_id"`
	Progress  orchestrator.Progress `json:"progress"`
}

// SummaryResponse wraps the interview summary for the REST surface.
type SummaryResponse struct {
	SessionID string               `json:"session_id"`
	Complete  bool                 `json:"complete"`
	Summary   orchestrator.Summary `json:"summary"`
}
