package store

import (
	"context"
	"sync"
)

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	mu        sync.Mutex
	result    *Result
	queryErr  error
	schema    string
	schemaErr error
	available bool

	// Queries records every SQL text passed to Query, in order.
	Queries []string
}

// NewMockStore creates an available mock store returning an empty result.
func NewMockStore() *MockStore {
	return &MockStore{
		result:    &Result{},
		available: true,
	}
}

// WithResult sets the result returned by Query.
func (m *MockStore) WithResult(result *Result) *MockStore {
	m.result = result
	return m
}

// WithQueryError makes Query fail with a QueryError wrapping err.
func (m *MockStore) WithQueryError(err error) *MockStore {
	m.queryErr = err
	return m
}

// WithSchema sets the schema description text.
func (m *MockStore) WithSchema(schema string) *MockStore {
	m.schema = schema
	return m
}

// WithSchemaError makes SchemaDescription fail.
func (m *MockStore) WithSchemaError(err error) *MockStore {
	m.schemaErr = err
	return m
}

// WithAvailable sets the availability flag.
func (m *MockStore) WithAvailable(available bool) *MockStore {
	m.available = available
	return m
}

// Query implements Store.
func (m *MockStore) Query(_ context.Context, sqlText string) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Queries = append(m.Queries, sqlText)
	if m.queryErr != nil {
		return nil, &QueryError{Err: m.queryErr}
	}
	return m.result, nil
}

// SchemaDescription implements Store.
func (m *MockStore) SchemaDescription(_ context.Context, _ []string) (string, error) {
	if m.schemaErr != nil {
		return "", &QueryError{Err: m.schemaErr}
	}
	return m.schema, nil
}

// Available implements Store.
func (m *MockStore) Available() bool { return m.available }

// QueryCount returns the number of Query invocations.
func (m *MockStore) QueryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Queries)
}
