package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	name    string
	limiter *rate.Limiter
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config) (*GeminiClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(config.Model)
	model.SetTemperature(float32(config.Temperature))
	if config.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(config.MaxTokens))
	}
	if config.SystemInstruction != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(config.SystemInstruction))
	}

	return &GeminiClient{
		client:  client,
		model:   model,
		name:    config.Model,
		limiter: newLimiter(config.RequestsPerSecond),
	}, nil
}

// Complete generates a reply for prompt.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", newError(ProviderGemini, KindTransport, err)
	}

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", newError(ProviderGemini, KindTransport, err)
	}

	return extractTextFromResponse(resp)
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", newError(ProviderGemini, KindParse, fmt.Errorf("nil response"))
	}
	if len(resp.Candidates) == 0 {
		return "", newError(ProviderGemini, KindEmpty, fmt.Errorf("no candidates in response"))
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", newError(ProviderGemini, KindEmpty, fmt.Errorf("no content in response"))
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", newError(ProviderGemini, KindParse, fmt.Errorf("no text parts in response"))
	}

	text := strings.TrimSpace(strings.Join(parts, ""))
	if text == "" {
		return "", newError(ProviderGemini, KindEmpty, fmt.Errorf("blank text in response"))
	}
	return text, nil
}

// Provider returns ProviderGemini.
func (c *GeminiClient) Provider() Provider {
	return ProviderGemini
}

// Model returns the configured model.
func (c *GeminiClient) Model() string {
	return c.name
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
