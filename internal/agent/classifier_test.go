package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nevenar/medassist/internal/history"
	"github.com/nevenar/medassist/internal/llm"
)

func allCaps() Capabilities {
	return Capabilities{SQL: true, RAG: true}
}

func TestClassifyValidLabels(t *testing.T) {
	// A valid model label is used verbatim, regardless of question content.
	tests := []struct {
		label    string
		expected QuestionType
	}{
		{"sql", TypeSQL},
		{"rag", TypeRAG},
		{"general", TypeGeneral},
		{" SQL \n", TypeSQL},   // trimmed and lower-cased
		{"General", TypeGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			mock := llm.NewMockProvider(tt.label)
			c := NewClassifier(mock, "CREATE TABLE doctors (...)", allCaps())

			label, err := c.Classify(context.Background(), "anything at all", nil)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, label)
		})
	}
}

func TestClassifyKeywordFallback(t *testing.T) {
	tests := []struct {
		name     string
		question string
		expected QuestionType
	}{
		{"doctor keyword", "Find doctors named Smith", TypeSQL},
		{"institution keyword", "Which institution is largest?", TypeSQL},
		{"clinic keyword", "Is there a clinic nearby?", TypeSQL},
		{"hospital keyword", "List hospital addresses", TypeSQL},
		{"symptom keyword", "What are flu symptoms?", TypeRAG},
		{"disease keyword", "Is this disease contagious?", TypeRAG},
		{"treatment keyword", "Best treatment for migraines", TypeRAG},
		{"cause keyword", "What causes insomnia?", TypeRAG},
		{"sql wins over rag", "Which doctor treats this disease?", TypeSQL},
		{"case insensitive", "FIND DOCTORS IN BELGRADE", TypeSQL},
		{"no keyword", "What is the capital of diabetes management?", TypeGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Model returns an invalid label, forcing the fallback.
			mock := llm.NewMockProvider("I think this is probably a database question")
			c := NewClassifier(mock, "schema", allCaps())

			label, err := c.Classify(context.Background(), tt.question, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, label)
		})
	}
}

func TestClassifyCapabilityDowngrade(t *testing.T) {
	t.Run("sql backend down", func(t *testing.T) {
		mock := llm.NewMockProvider("sql")
		c := NewClassifier(mock, "schema", Capabilities{SQL: false, RAG: true})

		label, err := c.Classify(context.Background(), "Find doctors named Smith", nil)
		assert.Equal(t, TypeGeneral, label)
		require.Error(t, err)
		assert.True(t, IsCapabilityUnavailable(err))
		assert.Equal(t, "Database connection is unavailable.", err.Error())
	})

	t.Run("rag backend down", func(t *testing.T) {
		mock := llm.NewMockProvider("rag")
		c := NewClassifier(mock, "schema", Capabilities{SQL: true, RAG: false})

		label, err := c.Classify(context.Background(), "What are flu symptoms?", nil)
		assert.Equal(t, TypeGeneral, label)
		require.Error(t, err)
		assert.True(t, IsCapabilityUnavailable(err))
		assert.Equal(t, "RAG system is unavailable.", err.Error())
	})

	t.Run("downgrade applies after keyword fallback", func(t *testing.T) {
		mock := llm.NewMockProvider("not-a-label")
		c := NewClassifier(mock, "schema", Capabilities{SQL: false, RAG: true})

		label, err := c.Classify(context.Background(), "Find doctors named Smith", nil)
		assert.Equal(t, TypeGeneral, label)
		assert.True(t, IsCapabilityUnavailable(err))
	})

	t.Run("general is never downgraded", func(t *testing.T) {
		mock := llm.NewMockProvider("general")
		c := NewClassifier(mock, "schema", Capabilities{SQL: false, RAG: false})

		label, err := c.Classify(context.Background(), "hello there", nil)
		require.NoError(t, err)
		assert.Equal(t, TypeGeneral, label)
	})
}

func TestClassifyModelFailure(t *testing.T) {
	// Model invocation failure bypasses the keyword fallback entirely:
	// even a question full of sql keywords lands on general.
	mock := llm.NewMockProvider("").WithError(llm.ErrMockFailure)
	c := NewClassifier(mock, "schema", allCaps())

	label, err := c.Classify(context.Background(), "Find doctors at the hospital clinic", nil)
	assert.Equal(t, TypeGeneral, label)
	require.Error(t, err)
	assert.True(t, IsClassificationError(err))
	assert.Contains(t, err.Error(), "Failed to classify question")
}

func TestClassifyPromptContents(t *testing.T) {
	mock := llm.NewMockProvider("general")
	c := NewClassifier(mock, "CREATE TABLE doctors (id integer)", allCaps())

	hist := []history.Message{
		history.User("hi"),
		history.Assistant("hello"),
	}
	_, err := c.Classify(context.Background(), "who are you?", hist)
	require.NoError(t, err)

	prompt := mock.LastPrompt()
	assert.Contains(t, prompt, "who are you?")
	assert.Contains(t, prompt, "Human: hi\nAssistant: hello")
	assert.Contains(t, prompt, "CREATE TABLE doctors (id integer)")
}

func TestClassifyEmptySchemaPlaceholder(t *testing.T) {
	mock := llm.NewMockProvider("general")
	c := NewClassifier(mock, "", allCaps())

	_, err := c.Classify(context.Background(), "hello", nil)
	require.NoError(t, err)
	assert.Contains(t, mock.LastPrompt(), "Schema not available.")
}

func TestKeywordFallback(t *testing.T) {
	assert.Equal(t, TypeSQL, keywordFallback("any Doctor around?"))
	assert.Equal(t, TypeRAG, keywordFallback("symptom check"))
	assert.Equal(t, TypeGeneral, keywordFallback("how is the weather"))
}
