package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// maxErrorBody bounds how much of a failed response body ends up in an error.
const maxErrorBody = 512

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// OpenAIClient implements Client for OpenAI compatible chat-completions endpoints.
type OpenAIClient struct {
	config     Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewOpenAIClient creates a new chat-completions client
func NewOpenAIClient(config *Config) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	cfg := *config
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultOpenAIEndpoint
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &OpenAIClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: newLimiter(cfg.RequestsPerSecond),
	}, nil
}

// Complete posts a two-message chat (system instruction and prompt) and returns the first
// choice's text.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", newError(ProviderOpenAI, KindTransport, err)
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: c.config.SystemInstruction},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.config.MaxTokens,
		Temperature: c.config.Temperature,
	})
	if err != nil {
		return "", newError(ProviderOpenAI, KindTransport, fmt.Errorf("failed to encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", newError(ProviderOpenAI, KindTransport, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", newError(ProviderOpenAI, KindTransport, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return "", newError(ProviderOpenAI, KindTransport,
			fmt.Errorf("http status %s: %s", res.Status, strings.TrimSpace(string(snippet))))
	}

	var body chatResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", newError(ProviderOpenAI, KindParse, fmt.Errorf("failed to decode response: %w", err))
	}

	return extractChoice(body)
}

func extractChoice(body chatResponse) (string, error) {
	if body.Choices == nil {
		return "", newError(ProviderOpenAI, KindParse, fmt.Errorf("response has no choices field"))
	}
	if len(body.Choices) == 0 {
		return "", newError(ProviderOpenAI, KindEmpty, fmt.Errorf("no choices in response"))
	}

	first := body.Choices[0]
	if first.Message == nil || first.Message.Content == nil {
		return "", newError(ProviderOpenAI, KindParse, fmt.Errorf("first choice has no message content"))
	}

	text := strings.TrimSpace(*first.Message.Content)
	if text == "" {
		return "", newError(ProviderOpenAI, KindEmpty, fmt.Errorf("first choice is blank"))
	}
	return text, nil
}

// Provider returns ProviderOpenAI.
func (c *OpenAIClient) Provider() Provider {
	return ProviderOpenAI
}

// Model returns the configured model.
func (c *OpenAIClient) Model() string {
	return c.config.Model
}

// Close is a no-op; the HTTP client holds no resources that need releasing.
func (c *OpenAIClient) Close() error {
	return nil
}
