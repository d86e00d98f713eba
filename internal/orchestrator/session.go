package orchestrator

import (
	"strings"
	"unicode/utf8"
)

// Stages is the fixed interview progression. CurrentStage indexes into it.
var Stages = []string{
	"greeting",
	"experience_probe",
	"technical_deep_dive",
	"behavioral",
	"closing",
}

const (
	// MaxFollowUps bounds clarifying questions per stage so a vague
	// candidate can never stall the interview inside one stage.
	MaxFollowUps = 2

	// technicalStage is the first stage where answers are expected to
	// contain technical vocabulary.
	technicalStage = 2

	minAnswerRunes = 5
)

// FollowUpHint is appended to the system prompt when the last answer was
// judged vague and a clarifying question should be asked instead of moving on.
const FollowUpHint = "\n[USER GAVE VAGUE ANSWER - ASK SPECIFIC FOLLOW-UP TO GET MORE DETAILS]"

var specificityMarkers = []string{
	"because", "example", "specifically", "by using", "with", "when", "where",
	"implemented", "designed", "built", "created", "developed", "managed",
	"result", "outcome", "impact", "achieved", "improved", "reduced",
	"increased", "optimized", "solved", "fixed", "handled",
}

var technicalTerms = []string{
	"algorithm", "database", "api", "framework", "library", "method",
	"function", "class", "object", "variable", "query", "server",
	"client", "frontend", "backend", "architecture", "design pattern",
}

// Interaction is one recorded question/answer exchange.
type Interaction struct {
	Stage          string `json:"stage"`
	Question       string `json:"question"`
	Answer         string `json:"answer"`
	IsFollowup     bool   `json:"is_followup"`
	WordCount      int    `json:"word_count"`
	NeededFollowup bool   `json:"needed_followup"`
}

// Session holds the interview state for one candidate conversation. It is a
// plain value with no locking; callers must serialize turns per session.
type Session struct {
	JobRole        string
	ResumeSkills   []string
	CurrentStage   int
	WeakAreas      []string
	FollowUpCount  int
	QuestionsAsked []string
	History        []Interaction
}

// NewSession creates a session at the greeting stage. An empty skill list is
// replaced with a generic placeholder so technical questions always have a
// subject.
func NewSession(jobRole string, resumeSkills []string) *Session {
	if len(resumeSkills) == 0 {
		resumeSkills = []string{"general technical skills"}
	}
	return &Session{
		JobRole:      jobRole,
		ResumeSkills: resumeSkills,
	}
}

// Restore rebuilds a session from persisted state, clamping out-of-range
// values instead of trusting the stored shape.
func Restore(jobRole string, resumeSkills []string, stage, followUpCount int) *Session {
	s := NewSession(jobRole, resumeSkills)
	s.CurrentStage = clamp(stage, 0, len(Stages)-1)
	s.FollowUpCount = clamp(followUpCount, 0, MaxFollowUps)
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// StageName returns the name of the current stage.
func (s *Session) StageName() string {
	return Stages[s.CurrentStage]
}

// PrimarySkill returns the first resume skill, used to anchor technical
// questions.
func (s *Session) PrimarySkill() string {
	return s.ResumeSkills[0]
}

// NeedsFollowUp reports whether the answer is too vague to advance the
// interview. Pure read; the caller decides whether to act on the verdict and
// owns the follow-up counter.
func (s *Session) NeedsFollowUp(answer string) bool {
	if s.FollowUpCount >= MaxFollowUps {
		return false
	}

	trimmed := strings.TrimSpace(answer)
	if utf8.RuneCountInString(trimmed) < minAnswerRunes {
		return true
	}

	wordCount := WordCount(answer)
	lower := strings.ToLower(answer)
	hasSpecifics := containsAny(lower, specificityMarkers)

	if wordCount < 15 {
		return true
	}
	if wordCount < 30 && !hasSpecifics {
		return true
	}
	if s.CurrentStage >= technicalStage {
		if wordCount < 40 && !containsAny(lower, technicalTerms) {
			return true
		}
	}
	return false
}

// AdvanceStage moves to the next stage and resets the follow-up counter.
// No-op at the closing stage. This is the only operation that changes
// CurrentStage.
func (s *Session) AdvanceStage() {
	if s.CurrentStage < len(Stages)-1 {
		s.CurrentStage++
		s.FollowUpCount = 0
	}
}

// RecordInteraction appends one exchange to the history. NeededFollowup is
// re-evaluated against the answer and stored for analytics only.
func (s *Session) RecordInteraction(question, answer string, isFollowup bool) {
	s.History = append(s.History, Interaction{
		Stage:          s.StageName(),
		Question:       question,
		Answer:         answer,
		IsFollowup:     isFollowup,
		WordCount:      WordCount(answer),
		NeededFollowup: s.NeedsFollowUp(answer),
	})
}

// Complete reports whether the interview has reached the closing stage with
// enough recorded interaction to count as a real session.
func (s *Session) Complete() bool {
	return s.CurrentStage >= len(Stages)-1 && len(s.History) >= 2
}

// WordCount counts whitespace-separated tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
