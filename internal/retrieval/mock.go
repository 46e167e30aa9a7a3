package retrieval

import (
	"context"
	"sync"
)

// MockRetriever is an in-memory Retriever implementation for testing.
type MockRetriever struct {
	mu        sync.Mutex
	result    *Result
	err       error
	available bool

	// Questions records every question passed to Retrieve, in order.
	Questions []string
}

// NewMockRetriever creates an available mock returning the placeholder answer.
func NewMockRetriever() *MockRetriever {
	return &MockRetriever{
		result:    &Result{Answer: NoInformationFound, Used: false},
		available: true,
	}
}

// WithAnswer sets the answer returned by Retrieve.
func (m *MockRetriever) WithAnswer(answer string) *MockRetriever {
	m.result = &Result{Answer: answer, Used: true}
	return m
}

// WithError makes Retrieve fail with a RetrievalError wrapping err.
func (m *MockRetriever) WithError(err error) *MockRetriever {
	m.err = err
	return m
}

// WithAvailable sets the availability flag.
func (m *MockRetriever) WithAvailable(available bool) *MockRetriever {
	m.available = available
	return m
}

// Retrieve implements Retriever.
func (m *MockRetriever) Retrieve(_ context.Context, question string) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Questions = append(m.Questions, question)
	if m.err != nil {
		return nil, &RetrievalError{Err: m.err}
	}
	return m.result, nil
}

// Available implements Retriever.
func (m *MockRetriever) Available() bool { return m.available }

// CallCount returns the number of Retrieve invocations.
func (m *MockRetriever) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Questions)
}
