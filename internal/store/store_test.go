package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultFormat(t *testing.T) {
	tests := []struct {
		name     string
		result   *Result
		expected string
	}{
		{
			name:     "nil result",
			result:   nil,
			expected: "[]",
		},
		{
			name:     "empty result",
			result:   &Result{Columns: []string{"full_name"}},
			expected: "[]",
		},
		{
			name: "single row",
			result: &Result{
				Columns: []string{"full_name", "specialization"},
				Rows:    [][]any{{"Ana Smith", "Cardiology"}},
			},
			expected: "[('Ana Smith', 'Cardiology')]",
		},
		{
			name: "multiple rows with mixed types",
			result: &Result{
				Columns: []string{"full_name", "id"},
				Rows: [][]any{
					{"Ana Smith", int64(1)},
					{"Bob Jones", int64(2)},
					{nil, int64(3)},
				},
			},
			expected: "[('Ana Smith', 1), ('Bob Jones', 2), (NULL, 3)]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.result.Format())
		})
	}
}

func TestResultFormatTruncation(t *testing.T) {
	result := &Result{Columns: []string{"n"}}
	for i := 0; i < 25; i++ {
		result.Rows = append(result.Rows, []any{int64(i)})
	}

	out := result.Format()
	assert.Contains(t, out, "... (results truncated, total 25 rows found)")
	assert.Contains(t, out, "(9)")
	assert.NotContains(t, out, "(10)")
}

func TestResultFormatExactlyAtCap(t *testing.T) {
	result := &Result{}
	for i := 0; i < MaxResultRows; i++ {
		result.Rows = append(result.Rows, []any{int64(i)})
	}

	out := result.Format()
	assert.NotContains(t, out, "truncated")
}

func TestQueryError(t *testing.T) {
	underlying := errors.New("syntax error at or near SELEC")
	err := &QueryError{Err: underlying}

	assert.Contains(t, err.Error(), "SQL Execution Error")
	assert.Contains(t, err.Error(), "syntax error")
	assert.True(t, IsQueryError(err))
	assert.True(t, IsQueryError(fmt.Errorf("wrapped: %w", err)))
	assert.True(t, errors.Is(err, underlying))
	assert.False(t, IsQueryError(underlying))
}
