package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaComplete(t *testing.T) {
	var gotReq ollamaChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := ollamaChatResponse{
			Model:           "test-model",
			Message:         ollamaMessage{Role: "assistant", Content: "sql"},
			Done:            true,
			PromptEvalCount: 12,
			EvalCount:       1,
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider := NewOllamaProvider(&Config{
		Endpoint:    server.URL,
		Model:       "test-model",
		Temperature: 0.2,
	})

	out, err := provider.Complete(context.Background(), "classify this")
	require.NoError(t, err)
	assert.Equal(t, "sql", out)

	assert.Equal(t, "test-model", gotReq.Model)
	assert.False(t, gotReq.Stream)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Equal(t, "classify this", gotReq.Messages[0].Content)
	assert.InDelta(t, 0.2, gotReq.Options.Temperature, 0.001)
}

func TestOllamaCompleteServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	provider := NewOllamaProvider(&Config{Endpoint: server.URL})

	_, err := provider.Complete(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, IsModelError(err))
	assert.Contains(t, err.Error(), "status 404")
}

func TestOllamaCompleteConnectionRefused(t *testing.T) {
	// Point at a server that was already shut down.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	provider := NewOllamaProvider(&Config{Endpoint: url, Timeout: time.Second})

	_, err := provider.Complete(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, IsModelError(err))
}

func TestOllamaAvailable(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		expected bool
	}{
		{
			name: "models present",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{
					"models": []map[string]string{{"name": "mistral:7b"}},
				})
			},
			expected: true,
		},
		{
			name: "no models",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{"models": []any{}})
			},
			expected: false,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			provider := NewOllamaProvider(&Config{Endpoint: server.URL})
			assert.Equal(t, tt.expected, provider.Available())
		})
	}
}

func TestOllamaDefaults(t *testing.T) {
	provider := NewOllamaProvider(nil)
	assert.Equal(t, "ollama", provider.Name())
	assert.Equal(t, "http://127.0.0.1:11434", provider.config.Endpoint)
	assert.Equal(t, "mistral:7b", provider.config.Model)
	assert.InDelta(t, 0.2, provider.config.Temperature, 0.001)
}

func TestMockProvider(t *testing.T) {
	mock := NewMockProvider("general").
		WithResponse("classify", "sql")

	out, err := mock.Complete(context.Background(), "please classify: find doctors")
	require.NoError(t, err)
	assert.Equal(t, "sql", out)

	out, err = mock.Complete(context.Background(), "unrelated")
	require.NoError(t, err)
	assert.Equal(t, "general", out)

	assert.Equal(t, 2, mock.CallCount())
	assert.Equal(t, "unrelated", mock.LastPrompt())
}

func TestMockProviderError(t *testing.T) {
	mock := NewMockProvider("x").WithError(ErrMockFailure)

	_, err := mock.Complete(context.Background(), "anything")
	require.Error(t, err)
	assert.True(t, IsModelError(err))
}
