package relay

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kunjshukla/ain/internal/llm"
	"github.com/kunjshukla/ain/internal/metrics"
	"github.com/kunjshukla/ain/internal/models"
	"github.com/kunjshukla/ain/internal/orchestrator"
	"github.com/kunjshukla/ain/internal/session"
)

// recentMessages is how much chat history accompanies the system prompt: the
// last 3 exchanges.
const recentMessages = 6

// DefaultGeneratorTimeout bounds the single suspension point of a turn.
const DefaultGeneratorTimeout = 30 * time.Second

// TurnService runs the turn-processing protocol: follow-up decision, stage
// advancement, history bookkeeping, generation with deterministic fallback,
// and persistence. Turns for the same session are serialized; sessions are
// independent and process in parallel.
type TurnService struct {
	orch       *orchestrator.Orchestrator
	store      *session.Store
	generator  llm.Generator
	logger     *zap.Logger
	genTimeout time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewTurnService(orch *orchestrator.Orchestrator, store *session.Store, generator llm.Generator, logger *zap.Logger, genTimeout time.Duration) *TurnService {
	if genTimeout <= 0 {
		genTimeout = DefaultGeneratorTimeout
	}
	return &TurnService{
		orch:       orch,
		store:      store,
		generator:  generator,
		logger:     logger,
		genTimeout: genTimeout,
		locks:      make(map[string]*sync.Mutex),
	}
}

// sessionLock returns the mutex serializing turns for one session. Stage
// advancement and counter updates are not commutative, so at most one turn
// per session may be in flight.
func (t *TurnService) sessionLock(sessionID string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	lock, ok := t.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		t.locks[sessionID] = lock
	}
	return lock
}

// ProcessTurn handles one candidate answer. emit receives streamed tokens and
// may be nil for non-streaming callers. Generator and store failures degrade
// (canned question, in-memory state) rather than failing the turn; the only
// error returned is an empty transcript.
func (t *TurnService) ProcessTurn(ctx context.Context, req models.TurnRequest, emit func(models.TokenEvent)) (*models.TurnResponse, error) {
	transcript := strings.TrimSpace(req.Transcript)
	if transcript == "" {
		return nil, &models.ErrorResponse{
			Code:    "missing_transcript",
			Message: "No transcript provided",
		}
	}

	lock := t.sessionLock(req.SessionID)
	lock.Lock()
	defer lock.Unlock()

	sess := t.loadOrCreateSession(ctx, req)
	history := t.loadHistory(ctx, req.SessionID)
	history = append(history, session.Message{Role: "user", Content: transcript})

	// Follow-up decision, then stage advancement. The counter is owned
	// here, not by the orchestrator.
	needsFollowup := sess.NeedsFollowUp(transcript)
	followupHint := ""
	if needsFollowup && sess.FollowUpCount < orchestrator.MaxFollowUps {
		sess.FollowUpCount++
		followupHint = orchestrator.FollowUpHint
		t.logger.Debug("follow-up needed",
			zap.String("session_id", req.SessionID),
			zap.Int("follow_up_count", sess.FollowUpCount))
	} else {
		sess.AdvanceStage()
	}

	sess.RecordInteraction(previousQuestion(history), transcript, needsFollowup)

	systemPrompt := t.orch.SystemPrompt(sess) + followupHint
	recent := recentLLMMessages(history)

	outcome := "generated"
	fullResponse, err := t.generate(ctx, sess, systemPrompt, recent, needsFollowup, emit)
	if err != nil {
		t.logger.Warn("generator unavailable, using canned question",
			zap.String("session_id", req.SessionID), zap.Error(err))
		outcome = "fallback"
		fullResponse = t.fallback(sess, needsFollowup, emit)
	}
	metrics.RecordTurn(sess.StageName(), outcome)

	history = append(history, session.Message{Role: "assistant", Content: fullResponse})
	t.persist(ctx, req.SessionID, sess, history)

	return &models.TurnResponse{
		Stage:         sess.StageName(),
		StageNumber:   sess.CurrentStage + 1,
		TotalStages:   len(orchestrator.Stages),
		IsFinal:       sess.Complete(),
		NeedsFollowup: needsFollowup,
		FollowUpCount: sess.FollowUpCount,
		FullResponse:  fullResponse,
		Progress:      sess.Progress(),
	}, nil
}

func (t *TurnService) loadOrCreateSession(ctx context.Context, req models.TurnRequest) *orchestrator.Session {
	state, err := t.store.LoadState(ctx, req.SessionID)
	if err != nil {
		t.logger.Warn("session store unavailable, running turn in memory",
			zap.String("session_id", req.SessionID), zap.Error(err))
	}
	if state != nil {
		return state.Session()
	}

	skills := req.ResumeSkills
	if len(skills) == 0 {
		skills = defaultSkills(req.JobRole)
	}
	t.logger.Info("created interview session",
		zap.String("session_id", req.SessionID),
		zap.String("job_role", req.JobRole),
		zap.Int("skills", len(skills)))
	return orchestrator.NewSession(req.JobRole, skills)
}

func (t *TurnService) loadHistory(ctx context.Context, sessionID string) []session.Message {
	history, err := t.store.LoadHistory(ctx, sessionID)
	if err != nil {
		t.logger.Warn("failed to load session history",
			zap.String("session_id", sessionID), zap.Error(err))
		return nil
	}
	return history
}

func (t *TurnService) generate(ctx context.Context, sess *orchestrator.Session, systemPrompt string, recent []llm.Message, needsFollowup bool, emit func(models.TokenEvent)) (string, error) {
	genCtx, cancel := context.WithTimeout(ctx, t.genTimeout)
	defer cancel()

	var onToken func(string)
	if emit != nil {
		stage := sess.StageName()
		onToken = func(token string) {
			emit(models.TokenEvent{Token: token, Stage: stage, IsFollowup: needsFollowup})
		}
	}
	return t.generator.StreamChat(genCtx, systemPrompt, recent, onToken)
}

// fallback substitutes a deterministic canned question when the generator
// fails, emitted word by word so streaming clients behave the same.
func (t *TurnService) fallback(sess *orchestrator.Session, needsFollowup bool, emit func(models.TokenEvent)) string {
	var response string
	if needsFollowup {
		response = t.orch.FollowUpQuestion(sess)
	} else {
		response = t.orch.StageQuestion(sess)
	}

	if emit != nil {
		stage := sess.StageName()
		for _, word := range strings.Fields(response) {
			emit(models.TokenEvent{Token: word + " ", Stage: stage, IsFollowup: needsFollowup})
		}
	}
	return response
}

func (t *TurnService) persist(ctx context.Context, sessionID string, sess *orchestrator.Session, history []session.Message) {
	if err := t.store.SaveState(ctx, sessionID, session.Snapshot(sess)); err != nil {
		t.logger.Warn("failed to persist session state",
			zap.String("session_id", sessionID), zap.Error(err))
	}
	if err := t.store.SaveHistory(ctx, sessionID, history); err != nil {
		t.logger.Warn("failed to persist session history",
			zap.String("session_id", sessionID), zap.Error(err))
	}
}

// previousQuestion is the assistant message preceding the just-appended user
// answer, or a placeholder on the opening turn.
func previousQuestion(history []session.Message) string {
	if len(history) >= 2 {
		return history[len(history)-2].Content
	}
	return "Initial"
}

func recentLLMMessages(history []session.Message) []llm.Message {
	start := 0
	if len(history) > recentMessages {
		start = len(history) - recentMessages
	}
	out := make([]llm.Message, 0, len(history)-start)
	for _, m := range history[start:] {
		out = append(out, llm.Message{Role: m.Role, Content: m.Content})
	}
	return out
}

// defaultSkills biases question content when no resume skills accompany the
// request.
func defaultSkills(jobRole string) []string {
	role := strings.ToLower(jobRole)
	switch {
	case strings.Contains(role, "data scientist"):
		return []string{"Python", "Pandas", "NumPy", "Scikit-learn", "SQL", "Jupyter", "TensorFlow"}
	case strings.Contains(role, "frontend"):
		return []string{"JavaScript", "React", "HTML", "CSS", "TypeScript", "Vue.js", "Angular"}
	case strings.Contains(role, "backend"):
		return []string{"Python", "Node.js", "FastAPI", "Django", "PostgreSQL", "MongoDB", "Redis"}
	case strings.Contains(role, "fullstack"), strings.Contains(role, "full stack"):
		return []string{"JavaScript", "React", "Node.js", "Python", "FastAPI", "PostgreSQL", "AWS"}
	default:
		return []string{"Python", "JavaScript", "React", "FastAPI", "SQL", "Git"}
	}
}
