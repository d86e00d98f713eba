package gemini

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"github.com/kunjshukla/ain/internal/llm"
)

// Client streams interviewer responses from the Gemini API.
type Client struct {
	client *genai.Client
	config *Config
}

func NewClient(config *Config) (*Client, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeAPIKey,
			Message:  "Failed to create Gemini client",
			Err:      err,
		}
	}

	return &Client{
		client: client,
		config: config,
	}, nil
}

// StreamChat sends the system prompt plus recent conversation and forwards
// generated tokens to onToken as they arrive. Returns the full response text.
func (c *Client) StreamChat(ctx context.Context, systemPrompt string, messages []llm.Message, onToken func(token string)) (string, error) {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		role := "user"
		if m.Role == "assistant" {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
		Temperature: genai.Ptr[float64](0.7),
		TopP:        genai.Ptr[float64](0.9),
	}

	var full strings.Builder
	for result, err := range c.client.Models.GenerateContentStream(ctx, c.config.Model, contents, config) {
		if err != nil {
			return "", &llm.ProviderError{
				Provider: "gemini",
				Code:     llm.ErrCodeServiceDown,
				Message:  "Streaming generation failed",
				Err:      err,
			}
		}
		token, err := result.Text()
		if err != nil {
			// Malformed chunk; skip it rather than abort the stream.
			continue
		}
		if token == "" {
			continue
		}
		full.WriteString(token)
		if onToken != nil {
			onToken(token)
		}
	}

	if full.Len() == 0 {
		return "", &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeInvalidInput,
			Message:  "Empty response generated",
		}
	}

	return full.String(), nil
}

func (c *Client) GetProviderName() string {
	return "gemini"
}
