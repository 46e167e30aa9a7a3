// Package llm provides the language model client used by the classification
// and answer pipelines. Ollama (local) is the reference implementation; any
// backend satisfying Provider can be substituted.
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// MaxErrorBodySize limits how much error response body is read (1MB).
// This prevents memory exhaustion from malformed error responses.
const MaxErrorBodySize = 1 * 1024 * 1024

// readLimitedBody reads up to maxBytes from r, returning the bytes read.
func readLimitedBody(r io.Reader, maxBytes int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, maxBytes))
}

// Provider defines the interface for language model backends.
// Complete is a blocking, synchronous call; every external model invocation
// the orchestration core makes goes through it.
type Provider interface {
	// Complete sends a prompt and returns the model's text output.
	// Failures are reported as *ModelError.
	Complete(ctx context.Context, prompt string) (string, error)

	// Name returns the provider identifier.
	Name() string

	// Available reports whether the provider is configured and reachable.
	Available() bool
}

// ModelError reports a failed model invocation (transport, timeout, quota).
type ModelError struct {
	Provider string
	Err      error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("%s: model invocation failed: %v", e.Provider, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// IsModelError reports whether err is (or wraps) a ModelError.
func IsModelError(err error) bool {
	var me *ModelError
	return errors.As(err, &me)
}

// Config contains configuration for a language model provider.
type Config struct {
	// Name identifies the provider (currently only "ollama").
	Name string

	// Endpoint is the API base URL.
	Endpoint string

	// Model is the model to use.
	Model string

	// MaxTokens caps response length.
	MaxTokens int

	// Temperature controls randomness (0.0-1.0).
	Temperature float64

	// Timeout for API calls.
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults for a provider.
func DefaultConfig(name string) *Config {
	switch name {
	case "ollama":
		return &Config{
			Name:        "ollama",
			Endpoint:    "http://127.0.0.1:11434",
			Model:       "mistral:7b",
			MaxTokens:   2048,
			Temperature: 0.2,
			Timeout:     2 * time.Minute,
		}
	default:
		return &Config{
			Name:        name,
			MaxTokens:   2048,
			Temperature: 0.2,
			Timeout:     2 * time.Minute,
		}
	}
}
