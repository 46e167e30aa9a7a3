package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// OllamaProvider implements Provider against a local or remote Ollama server.
type OllamaProvider struct {
	config *Config
	client *http.Client
}

// OllamaOption is a functional option for configuring OllamaProvider.
type OllamaOption func(*OllamaProvider)

// WithHTTPClient overrides the HTTP client (used by tests).
func WithHTTPClient(c *http.Client) OllamaOption {
	return func(p *OllamaProvider) {
		p.client = c
	}
}

// NewOllamaProvider creates a new Ollama provider. Missing config fields are
// filled from DefaultConfig("ollama").
func NewOllamaProvider(cfg *Config, opts ...OllamaOption) *OllamaProvider {
	if cfg == nil {
		cfg = DefaultConfig("ollama")
	}

	defaults := DefaultConfig("ollama")
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaults.Endpoint
	}
	if cfg.Model == "" {
		cfg.Model = defaults.Model
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaults.Timeout
	}
	cfg.Name = "ollama"

	p := &OllamaProvider{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the provider identifier.
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// Available checks if Ollama is running and has at least one model.
// An Ollama endpoint with 0 models is not useful as a backend.
func (p *OllamaProvider) Available() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.Endpoint+"/api/tags", nil)
	if err != nil {
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	var result struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false
	}

	return len(result.Models) > 0
}

// Complete sends a single-turn chat request to Ollama and returns the
// response text. The orchestration core is synchronous, so streaming is
// disabled and the full response is read in one shot.
func (p *OllamaProvider) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	ollamaReq := ollamaChatRequest{
		Model:  p.config.Model,
		Stream: false,
		Messages: []ollamaMessage{
			{Role: "user", Content: prompt},
		},
	}
	ollamaReq.Options.Temperature = p.config.Temperature
	ollamaReq.Options.NumPredict = p.config.MaxTokens

	body, err := json.Marshal(ollamaReq)
	if err != nil {
		return "", &ModelError{Provider: "ollama", Err: fmt.Errorf("marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.Endpoint+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", &ModelError{Provider: "ollama", Err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", &ModelError{Provider: "ollama", Err: fmt.Errorf("execute request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := readLimitedBody(resp.Body, MaxErrorBodySize)
		return "", &ModelError{
			Provider: "ollama",
			Err:      fmt.Errorf("status %d: %s", resp.StatusCode, string(bodyBytes)),
		}
	}

	var chatResp ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", &ModelError{Provider: "ollama", Err: fmt.Errorf("decode response: %w", err)}
	}

	log.Debug().
		Str("model", chatResp.Model).
		Int("prompt_tokens", chatResp.PromptEvalCount).
		Int("completion_tokens", chatResp.EvalCount).
		Dur("duration", time.Since(start)).
		Msg("ollama completion")

	return chatResp.Message.Content, nil
}

// Ollama API types
type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options,omitempty"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaChatResponse struct {
	Model           string        `json:"model"`
	Message         ollamaMessage `json:"message"`
	Done            bool          `json:"done"`
	PromptEvalCount int           `json:"prompt_eval_count"`
	EvalCount       int           `json:"eval_count"`
}
