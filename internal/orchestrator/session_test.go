package orchestrator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSessionDefaults(t *testing.T) {
	s := NewSession("Software Engineer", nil)

	assert.Equal(t, 0, s.CurrentStage)
	assert.Equal(t, 0, s.FollowUpCount)
	assert.Equal(t, []string{"general technical skills"}, s.ResumeSkills)
	assert.Empty(t, s.History)
	assert.Empty(t, s.QuestionsAsked)
}

func TestRestoreClampsOutOfRangeValues(t *testing.T) {
	s := Restore("SWE", []string{"Go"}, 99, -3)
	assert.Equal(t, len(Stages)-1, s.CurrentStage)
	assert.Equal(t, 0, s.FollowUpCount)

	s = Restore("SWE", []string{"Go"}, -1, 7)
	assert.Equal(t, 0, s.CurrentStage)
	assert.Equal(t, MaxFollowUps, s.FollowUpCount)
}

func TestNeedsFollowUpShortAnswer(t *testing.T) {
	s := NewSession("SWE", []string{"Python"})

	// Under 5 non-space characters is always vague.
	assert.True(t, s.NeedsFollowUp(""))
	assert.True(t, s.NeedsFollowUp("   "))
	assert.True(t, s.NeedsFollowUp("yes"))
	assert.True(t, s.NeedsFollowUp("  ok  "))
}

func TestNeedsFollowUpWordCountThresholds(t *testing.T) {
	s := NewSession("SWE", []string{"Python"})

	// 3 words, no markers: vague.
	assert.True(t, s.NeedsFollowUp("I write code"))

	// 20 words with specificity markers: not vague.
	answer := "I implemented a caching layer because our latency was high and the result was a much faster page load overall"
	assert.GreaterOrEqual(t, WordCount(answer), 15)
	assert.False(t, s.NeedsFollowUp(answer))

	// 20 words without any specificity marker: vague.
	vague := "There are many things one could say about various topics and several ideas come to mind on most days honestly"
	assert.GreaterOrEqual(t, WordCount(vague), 15)
	assert.Less(t, WordCount(vague), 30)
	assert.True(t, s.NeedsFollowUp(vague))
}

func TestNeedsFollowUpTechnicalStage(t *testing.T) {
	s := NewSession("SWE", []string{"Python"})
	s.CurrentStage = 2 // technical_deep_dive

	// >=15 words with specifics but no technical vocabulary and under 40
	// words: still vague at a technical stage.
	answer := "I solved the problem because the team achieved a better outcome and we improved the overall delivery result significantly"
	assert.True(t, s.NeedsFollowUp(answer))

	// Same length but mentions a database: acceptable.
	technical := "I solved the problem because our database queries improved and the API achieved a better result for the backend overall"
	assert.False(t, s.NeedsFollowUp(technical))
}

func TestNeedsFollowUpCapReached(t *testing.T) {
	s := NewSession("SWE", []string{"Python"})
	s.FollowUpCount = MaxFollowUps

	// At the cap the verdict is false regardless of content.
	assert.False(t, s.NeedsFollowUp(""))
	assert.False(t, s.NeedsFollowUp("no"))
	assert.False(t, s.NeedsFollowUp("short vague answer"))
}

func TestAdvanceStage(t *testing.T) {
	s := NewSession("SWE", []string{"Python"})
	s.FollowUpCount = 2

	s.AdvanceStage()
	assert.Equal(t, 1, s.CurrentStage)
	assert.Equal(t, 0, s.FollowUpCount)

	// Walk to the terminal stage; further calls are no-ops.
	for i := 0; i < 10; i++ {
		s.AdvanceStage()
	}
	assert.Equal(t, len(Stages)-1, s.CurrentStage)
	assert.Equal(t, "closing", s.StageName())
}

func TestStageMonotonicallyNonDecreasing(t *testing.T) {
	s := NewSession("SWE", []string{"Python"})
	prev := s.CurrentStage
	answers := []string{"hm", "I built and implemented a service because scale demanded it and the result improved latency for everyone involved daily", "no", "ok then"}

	for _, answer := range answers {
		if s.NeedsFollowUp(answer) && s.FollowUpCount < MaxFollowUps {
			s.FollowUpCount++
		} else {
			s.AdvanceStage()
		}
		assert.GreaterOrEqual(t, s.CurrentStage, prev)
		assert.GreaterOrEqual(t, s.FollowUpCount, 0)
		assert.LessOrEqual(t, s.FollowUpCount, MaxFollowUps)
		prev = s.CurrentStage
	}
}

func TestFollowUpCapForcesAdvance(t *testing.T) {
	s := NewSession("SWE", []string{"Python"})

	// Three consecutive 2-word answers at stage 0.
	for i := 0; i < 2; i++ {
		assert.True(t, s.NeedsFollowUp("um yes"))
		s.FollowUpCount++
	}
	assert.Equal(t, 2, s.FollowUpCount)

	// Third vague answer: cap reached, verdict flips to false and the
	// caller advances the stage.
	assert.False(t, s.NeedsFollowUp("um yes"))
	s.AdvanceStage()
	assert.Equal(t, 1, s.CurrentStage)
	assert.Equal(t, 0, s.FollowUpCount)
}

func TestRecordInteraction(t *testing.T) {
	s := NewSession("SWE", []string{"Python"})

	s.RecordInteraction("Tell me about your role", "I write Python services for payments", false)

	assert.Len(t, s.History, 1)
	got := s.History[0]
	assert.Equal(t, "greeting", got.Stage)
	assert.Equal(t, "Tell me about your role", got.Question)
	assert.Equal(t, 6, got.WordCount)
	assert.False(t, got.IsFollowup)
	assert.True(t, got.NeededFollowup) // 6 words is under the threshold

	// Only the history changed.
	assert.Equal(t, 0, s.CurrentStage)
	assert.Equal(t, 0, s.FollowUpCount)
}

func TestComplete(t *testing.T) {
	s := NewSession("SWE", []string{"Python"})
	assert.False(t, s.Complete())

	s.CurrentStage = 3
	s.RecordInteraction("q1", "a1 that is long enough", false)
	s.RecordInteraction("q2", "a2 that is long enough", false)
	assert.False(t, s.Complete(), "not complete before the closing stage")

	s.CurrentStage = 4
	s.History = s.History[:1]
	assert.False(t, s.Complete(), "one interaction is not enough")

	s.RecordInteraction("q2", "a2 that is long enough", false)
	assert.True(t, s.Complete())
}

func TestProgress(t *testing.T) {
	s := NewSession("SWE", []string{"Python"})
	s.CurrentStage = 2
	s.FollowUpCount = 1
	s.QuestionsAsked = []string{"q1", "q2"}
	s.RecordInteraction("q", "a reasonable answer here", false)

	p := s.Progress()
	assert.Equal(t, "technical_deep_dive", p.CurrentStage)
	assert.Equal(t, 3, p.StageNumber)
	assert.Equal(t, 5, p.TotalStages)
	assert.InDelta(t, 60.0, p.ProgressPercent, 1e-9)
	assert.Equal(t, 1, p.FollowUpCount)
	assert.Equal(t, 2, p.QuestionsAskedCount)
	assert.Equal(t, 1, p.ConversationLength)
}

func TestProgressPercentExact(t *testing.T) {
	s := NewSession("SWE", []string{"Python"})
	for stage := 0; stage < len(Stages); stage++ {
		s.CurrentStage = stage
		want := float64(stage+1) / float64(len(Stages)) * 100
		assert.Equal(t, want, s.Progress().ProgressPercent)
	}
}

func TestSummaryEmpty(t *testing.T) {
	s := NewSession("SWE", []string{"Python"})
	assert.Equal(t, StatusNoInteraction, s.Summary().Status)
}

func TestSummary(t *testing.T) {
	s := NewSession("SWE", []string{"Python", "Kubernetes"})
	s.CurrentStage = 2
	s.WeakAreas = []string{"system design"}

	s.RecordInteraction("q1", "I built Python services because scale demanded it and the result improved latency across the board for everyone involved", false)
	s.RecordInteraction("q2", "um", true)

	sum := s.Summary()
	assert.Empty(t, sum.Status)
	assert.Equal(t, 3, sum.StagesCompleted)
	assert.Equal(t, 2, sum.TotalInteractions)
	assert.InDelta(t, 10.0, sum.AverageResponseLength, 1e-9) // (19+1)/2
	assert.Equal(t, 2, sum.FollowupsNeeded)                  // short answer + technical-stage verdicts
	assert.InDelta(t, 50.0, sum.EngagementScore, 1e-9)
	assert.InDelta(t, 60.0, sum.CompletionPercentage, 1e-9)
	assert.Equal(t, []string{"system design"}, sum.WeakAreas)
	assert.Equal(t, []string{"Python"}, sum.StrongAreas, "only skills mentioned in answers are strong")
}

func TestSummaryEngagementCappedAt100(t *testing.T) {
	s := NewSession("SWE", []string{"Python"})
	long := strings.Repeat("word ", 60) + "because implemented result database api server backend"
	s.RecordInteraction("q", long, false)

	assert.Equal(t, 100.0, s.Summary().EngagementScore)
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount(""))
	assert.Equal(t, 0, WordCount("   "))
	assert.Equal(t, 3, WordCount("I write code"))
	assert.Equal(t, 3, WordCount("  I\twrite\ncode  "))
}
