package llm

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// MockProvider is an in-memory Provider implementation for testing.
// Responses are matched against prompt substrings in registration order;
// unmatched prompts return the default response.
type MockProvider struct {
	mu        sync.Mutex
	rules     []mockRule
	fallback  string
	err       error
	available bool

	// Prompts records every prompt passed to Complete, in order.
	Prompts []string
}

type mockRule struct {
	substring string
	response  string
}

// NewMockProvider creates a mock provider that answers every prompt with
// fallback.
func NewMockProvider(fallback string) *MockProvider {
	return &MockProvider{
		fallback:  fallback,
		available: true,
	}
}

// WithResponse registers a response for prompts containing substring.
func (m *MockProvider) WithResponse(substring, response string) *MockProvider {
	m.rules = append(m.rules, mockRule{substring: substring, response: response})
	return m
}

// WithError makes every Complete call fail with a ModelError wrapping err.
func (m *MockProvider) WithError(err error) *MockProvider {
	m.err = err
	return m
}

// WithAvailable sets the availability flag.
func (m *MockProvider) WithAvailable(available bool) *MockProvider {
	m.available = available
	return m
}

// Complete implements Provider.
func (m *MockProvider) Complete(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)

	if m.err != nil {
		return "", &ModelError{Provider: "mock", Err: m.err}
	}
	for _, rule := range m.rules {
		if strings.Contains(prompt, rule.substring) {
			return rule.response, nil
		}
	}
	return m.fallback, nil
}

// Name implements Provider.
func (m *MockProvider) Name() string { return "mock" }

// Available implements Provider.
func (m *MockProvider) Available() bool { return m.available }

// LastPrompt returns the most recent prompt, or "" if none were made.
func (m *MockProvider) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Prompts) == 0 {
		return ""
	}
	return m.Prompts[len(m.Prompts)-1]
}

// CallCount returns the number of Complete invocations.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}

// ErrMockFailure is a convenience error for tests exercising model failures.
var ErrMockFailure = errors.New("mock model failure")
