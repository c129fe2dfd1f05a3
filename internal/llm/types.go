// Package llm wraps calls to an OpenAI-compatible chat completion API.
//
// The rest of the system depends only on the small interfaces here, so
// tests use stubs and the provider can be swapped without touching the
// chat pipeline.
package llm

import (
	"context"
	"errors"
	"time"
)

// Defaults for the HTTP client.
const (
	defaultBaseURL     = "https://api.openai.com"
	defaultModel       = "gpt-4o-mini"
	defaultTimeout     = 30 * time.Second
	defaultRateLimit   = 5 // requests per second
	defaultBurst       = 10
	defaultMaxRetries  = 3
	defaultBaseBackoff = 500 * time.Millisecond
)

// ErrEmptyResponse is returned when the API answers with no choices.
var ErrEmptyResponse = errors.New("empty response from API")

// Message is one turn of a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chatter generates a chat reply from a message list.
type Chatter interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

// KeywordExtractor turns a user message into a small set of keywords used
// as a high-weight relevance signal. Implementations may fail; callers
// degrade to no keywords rather than propagating the error downstream.
type KeywordExtractor interface {
	Keywords(ctx context.Context, message string) ([]string, error)
}

// Config holds client settings.
type Config struct {
	BaseURL    string  `koanf:"base_url"`
	APIKey     string  `koanf:"api_key"`
	Model      string  `koanf:"model"`
	TimeoutSec int     `koanf:"timeout_sec"`
	RateLimit  float64 `koanf:"rate_limit"`
	MaxRetries int     `koanf:"max_retries"`
}

// retryableError marks errors worth retrying (429, 5xx, network).
type retryableError struct {
	err error
}

func (r *retryableError) Error() string { return r.err.Error() }

func (r *retryableError) Unwrap() error { return r.err }

// isRetryableError reports whether err is transient.
func isRetryableError(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}

// chatRequest is the OpenAI-compatible request body.
type chatRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature"`
	Messages    []Message `json:"messages"`
}

// chatResponse is the OpenAI-compatible response body.
type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// apiError is the OpenAI-compatible error body.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
