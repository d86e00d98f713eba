package models

import "strings"

// TurnRequest is one candidate answer submitted for processing, over REST or
// as the payload of a voice_input WebSocket event.
type TurnRequest struct {
	SessionID    string   `json:"session_id"`
	Transcript   string   `json:"transcript"`
	JobRole      string   `json:"job_role"`
	ResumeSkills []string `json:"resume_skills,omitempty"`
}

// implements the Validator interface
func (r *TurnRequest) Validate() error {
	if strings.TrimSpace(r.Transcript) == "" {
		return &ErrorResponse{
			Code:    "missing_transcript",
			Message: "No transcript provided",
		}
	}

	if r.SessionID == "" {
		return &ErrorResponse{
			Code:    "missing_session_id",
			Message: "Session ID is required",
		}
	}

	if r.JobRole == "" {
		r.JobRole = "Software Engineer"
	}

	return nil
}

// StartInterviewRequest opens a new interview session.
type StartInterviewRequest struct {
	SessionID string `json:"session_id,omitempty"`
	JobRole   string `json:"job_role"`
}

func (r *StartInterviewRequest) Validate() error {
	if r.JobRole == "" {
		r.JobRole = "Software Engineer"
	}
	return nil
}
