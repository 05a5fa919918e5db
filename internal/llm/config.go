// Package llm provides the classification oracle: a thin client over an external text
// generation service that returns the raw reply text or a typed failure.
package llm

import (
	"time"

	"github.com/teemow/inboxlabeler/internal/prompt"
)

// Provider represents an LLM provider
type Provider string

const (
	// ProviderOpenAI talks to an OpenAI compatible chat-completions endpoint.
	ProviderOpenAI Provider = "openai"
	// ProviderGemini uses the Google Gemini API.
	ProviderGemini Provider = "gemini"
)

// DefaultOpenAIEndpoint is the chat-completions URL used when none is configured.
const DefaultOpenAIEndpoint = "https://api.openai.com/v1/chat/completions"

// Config holds the oracle request settings.
type Config struct {
	Provider          Provider
	APIKey            string
	Model             string
	Endpoint          string
	MaxTokens         int
	Temperature       float64
	Timeout           time.Duration
	RequestsPerSecond float64
	SystemInstruction string
}

// DefaultConfig returns the settings used for classification: a short, low-temperature
// answer from gpt-4o-mini.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderOpenAI,
		Model:             "gpt-4o-mini",
		Endpoint:          DefaultOpenAIEndpoint,
		MaxTokens:         50,
		Temperature:       0.1,
		Timeout:           30 * time.Second,
		SystemInstruction: prompt.SystemInstruction,
	}
}
