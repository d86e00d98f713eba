package orchestrator

import (
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/kunjshukla/ain/internal/prompts"
)

// Orchestrator produces stage-appropriate prompts and fallback questions for
// interview sessions. Sessions themselves are plain values; one Orchestrator
// serves all of them.
type Orchestrator struct {
	prompts *prompts.Manager
	pick    func(n int) int
}

// New creates an orchestrator backed by the given prompt templates.
func New(pm *prompts.Manager) *Orchestrator {
	return &Orchestrator{
		prompts: pm,
		pick:    rand.IntN,
	}
}

// SetPickFunc replaces the random pool selector (used in tests).
func (o *Orchestrator) SetPickFunc(pick func(n int) int) {
	o.pick = pick
}

// SystemPrompt builds the instruction block for the downstream text
// generator. Deterministic given identical session state.
func (o *Orchestrator) SystemPrompt(s *Session) string {
	stagePrompt, err := o.prompts.StagePrompt(s.StageName())
	if err != nil {
		// Stage names come from the fixed Stages list; a missing
		// directive is a build-time template defect.
		panic(err)
	}

	weakAreas := "None yet"
	if len(s.WeakAreas) > 0 {
		weakAreas = strings.Join(s.WeakAreas, ", ")
	}

	return prompts.Render(stagePrompt, map[string]string{
		"JobRole":       s.JobRole,
		"Skills":        strings.Join(s.ResumeSkills, ", "),
		"PrimarySkill":  s.PrimarySkill(),
		"Stage":         s.StageName(),
		"StageNumber":   strconv.Itoa(s.CurrentStage + 1),
		"TotalStages":   strconv.Itoa(len(Stages)),
		"FollowUpCount": strconv.Itoa(s.FollowUpCount),
		"WeakAreas":     weakAreas,
	})
}

// StageQuestion picks an opening question for the current stage from the
// canned pool, avoiding the most recently asked question on a best-effort
// basis, and records it in QuestionsAsked.
func (o *Orchestrator) StageQuestion(s *Session) string {
	pool := o.prompts.StageQuestions(s.StageName())
	if len(pool) == 0 {
		pool = []string{"Tell me more about yourself."}
	}

	question := o.pickQuestion(pool, s)
	question = o.renderQuestion(question, s)
	s.QuestionsAsked = append(s.QuestionsAsked, question)
	return question
}

// FollowUpQuestion picks a clarifying question for the current stage. It does
// not touch FollowUpCount; the turn protocol owns the counter.
func (o *Orchestrator) FollowUpQuestion(s *Session) string {
	pool := o.prompts.FollowUpQuestions(s.StageName())
	if len(pool) == 0 {
		pool = []string{"Can you elaborate on that?"}
	}
	return o.renderQuestion(o.pickQuestion(pool, s), s)
}

// pickQuestion selects randomly from the pool, retrying once if the pick
// matches the last question asked. Repeats remain possible; exact
// non-repetition is not a guarantee.
func (o *Orchestrator) pickQuestion(pool []string, s *Session) string {
	question := pool[o.pick(len(pool))]
	if len(s.QuestionsAsked) == 0 || len(pool) < 2 {
		return question
	}
	last := s.QuestionsAsked[len(s.QuestionsAsked)-1]
	if o.renderQuestion(question, s) == last {
		question = pool[o.pick(len(pool))]
	}
	return question
}

func (o *Orchestrator) renderQuestion(question string, s *Session) string {
	return prompts.Render(question, map[string]string{
		"JobRole":      s.JobRole,
		"PrimarySkill": s.PrimarySkill(),
	})
}
