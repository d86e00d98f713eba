package llm

import "context"

// Message is one chat turn sent to the generator.
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// Generator is the interface for streaming LLM providers. StreamChat invokes
// onToken for each generated fragment and returns the full concatenated
// response. onToken may be nil when the caller only wants the final text.
type Generator interface {
	StreamChat(ctx context.Context, systemPrompt string, messages []Message, onToken func(token string)) (string, error)
	GetProviderName() string
}

// represents an error from an LLM provider
type ProviderError struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + " error: " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Provider + " error: " + e.Message
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Common error codes
const (
	ErrCodeAPIKey       = "invalid_api_key"
	ErrCodeRateLimit    = "rate_limit_exceeded"
	ErrCodeServiceDown  = "service_unavailable"
	ErrCodeInvalidInput = "invalid_input"
	ErrCodeTimeout      = "timeout"
)
