package llm

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/time/rate"
)

// Client is an abstraction over LLM providers
type Client interface {
	// Complete sends prompt under the configured system instruction and returns the trimmed
	// reply. Every failure is an *Error.
	Complete(ctx context.Context, prompt string) (string, error)
	// Provider returns the provider name for logs and metrics.
	Provider() Provider
	// Model returns the model identifier in use.
	Model() string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderOpenAI, "":
		return NewOpenAIClient(config)
	case ProviderGemini:
		return NewGeminiClient(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", config.Provider)
	}
}

// ConnectionPrompt is the fixed prompt used by CheckConnection.
const ConnectionPrompt = `Respond with "OK" if you can read this message.`

// CheckConnection sends a fixed prompt and succeeds if the reply contains "ok".
func CheckConnection(ctx context.Context, c Client) error {
	reply, err := c.Complete(ctx, ConnectionPrompt)
	if err != nil {
		return fmt.Errorf("connection check failed: %w", err)
	}
	if !strings.Contains(strings.ToLower(reply), "ok") {
		return fmt.Errorf("connection check failed: unexpected reply %q", reply)
	}
	return nil
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}
