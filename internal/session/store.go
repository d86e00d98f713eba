package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kunjshukla/ain/internal/orchestrator"
)

const (
	statePrefix   = "orch:"
	historyPrefix = "history:"

	// DefaultTTL is how long session records survive after the last write.
	// Sessions are never deleted explicitly; expiry is the cleanup.
	DefaultTTL = time.Hour

	// maxStoredMessages bounds the persisted chat transcript. Older
	// messages fall off; the generator only ever sees the recent window
	// anyway.
	maxStoredMessages = 20
)

// Message is one chat transcript entry, role "user" or "assistant".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// State is the persisted orchestrator snapshot for one session.
type State struct {
	JobRole        string                     `json:"job_role"`
	Skills         []string                   `json:"skills"`
	Stage          int                        `json:"stage"`
	FollowUpCount  int                        `json:"follow_up_count"`
	QuestionsAsked []string                   `json:"questions_asked,omitempty"`
	Interactions   []orchestrator.Interaction `json:"interactions,omitempty"`
}

// Snapshot captures the persistable parts of a session.
func Snapshot(s *orchestrator.Session) *State {
	return &State{
		JobRole:        s.JobRole,
		Skills:         s.ResumeSkills,
		Stage:          s.CurrentStage,
		FollowUpCount:  s.FollowUpCount,
		QuestionsAsked: s.QuestionsAsked,
		Interactions:   s.History,
	}
}

// Session rehydrates an orchestrator session, clamping out-of-range stage and
// follow-up values instead of trusting the stored blob.
func (st *State) Session() *orchestrator.Session {
	s := orchestrator.Restore(st.JobRole, st.Skills, st.Stage, st.FollowUpCount)
	s.QuestionsAsked = st.QuestionsAsked
	s.History = st.Interactions
	return s
}

// Store persists session state and chat history in Redis under TTL'd keys.
// All methods tolerate store failures: callers are expected to continue the
// turn with in-memory state when an error is returned.
type Store struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewStore(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{rdb: rdb, ttl: ttl, logger: logger}
}

// LoadState fetches the persisted session state. A missing key or an
// unparseable blob returns (nil, nil): the caller starts a fresh session.
func (s *Store) LoadState(ctx context.Context, sessionID string) (*State, error) {
	data, err := s.rdb.Get(ctx, statePrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		s.logger.Warn("discarding corrupt session state",
			zap.String("session_id", sessionID), zap.Error(err))
		return nil, nil
	}
	return &state, nil
}

// SaveState writes the session state with a fresh TTL.
func (s *Store) SaveState(ctx context.Context, sessionID string, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, statePrefix+sessionID, data, s.ttl).Err()
}

// LoadHistory fetches the chat transcript. Missing or corrupt history yields
// an empty list.
func (s *Store) LoadHistory(ctx context.Context, sessionID string) ([]Message, error) {
	data, err := s.rdb.Get(ctx, historyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var messages []Message
	if err := json.Unmarshal(data, &messages); err != nil {
		s.logger.Warn("discarding corrupt session history",
			zap.String("session_id", sessionID), zap.Error(err))
		return nil, nil
	}
	return messages, nil
}

// SaveHistory writes the chat transcript, trimmed to the newest entries,
// with a fresh TTL.
func (s *Store) SaveHistory(ctx context.Context, sessionID string, messages []Message) error {
	if len(messages) > maxStoredMessages {
		messages = messages[len(messages)-maxStoredMessages:]
	}
	data, err := json.Marshal(messages)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, historyPrefix+sessionID, data, s.ttl).Err()
}
