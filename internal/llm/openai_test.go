package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAIClient(t *testing.T, endpoint string) *OpenAIClient {
	t.Helper()
	cfg := DefaultConfig()
	cfg.APIKey = "sk-test"
	cfg.Endpoint = endpoint
	c, err := NewOpenAIClient(cfg)
	require.NoError(t, err)
	return c
}

func TestOpenAIClient_Complete(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  [LBot]: Applied \n"}}]}`))
	}))
	defer srv.Close()

	c := newTestOpenAIClient(t, srv.URL)
	text, err := c.Complete(context.Background(), "classify me")
	require.NoError(t, err)

	assert.Equal(t, "[LBot]: Applied", text)
	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.Equal(t, 50, got.MaxTokens)
	assert.InDelta(t, 0.1, got.Temperature, 1e-9)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Contains(t, got.Messages[0].Content, "email classifier")
	assert.Equal(t, chatMessage{Role: "user", Content: "classify me"}, got.Messages[1])
}

func TestOpenAIClient_Failures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind Kind
		sentinel error
	}{
		{"missing choices", http.StatusOK, `{"id":"x"}`, KindParse, ErrParse},
		{"empty choices", http.StatusOK, `{"choices":[]}`, KindEmpty, ErrEmpty},
		{"missing message", http.StatusOK, `{"choices":[{}]}`, KindParse, ErrParse},
		{"null content", http.StatusOK, `{"choices":[{"message":{"content":null}}]}`, KindParse, ErrParse},
		{"blank content", http.StatusOK, `{"choices":[{"message":{"content":"   "}}]}`, KindEmpty, ErrEmpty},
		{"invalid json", http.StatusOK, `{not json`, KindParse, ErrParse},
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, KindTransport, ErrTransport},
		{"unauthorized", http.StatusUnauthorized, `{"error":"bad key"}`, KindTransport, ErrTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := newTestOpenAIClient(t, srv.URL)
			text, err := c.Complete(context.Background(), "p")

			require.Error(t, err)
			assert.Empty(t, text)
			assert.Equal(t, tt.wantKind, KindOf(err))
			assert.True(t, errors.Is(err, tt.sentinel))
		})
	}
}

func TestOpenAIClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	c := newTestOpenAIClient(t, endpoint)
	_, err := c.Complete(context.Background(), "p")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
}

func TestOpenAIClient_Cancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestOpenAIClient(t, srv.URL)
	_, err := c.Complete(ctx, "p")

	require.Error(t, err)
	assert.Equal(t, KindTransport, KindOf(err))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNewOpenAIClient_Validation(t *testing.T) {
	_, err := NewOpenAIClient(&Config{Model: "m"})
	assert.ErrorContains(t, err, "API key is required")

	_, err = NewOpenAIClient(&Config{APIKey: "k"})
	assert.ErrorContains(t, err, "model is required")

	c, err := NewOpenAIClient(&Config{APIKey: "k", Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, DefaultOpenAIEndpoint, c.config.Endpoint)
	assert.Equal(t, ProviderOpenAI, c.Provider())
	assert.Equal(t, "m", c.Model())
	assert.NoError(t, c.Close())
}
