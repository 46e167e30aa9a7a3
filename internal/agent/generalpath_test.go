package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nevenar/medassist/internal/history"
	"github.com/nevenar/medassist/internal/llm"
)

func TestGeneralPipelineDirectAnswer(t *testing.T) {
	mock := llm.NewMockProvider("unexpected prompt").
		WithResponse("Answer the user's question directly", "Hello! How can I help?")

	p := NewGeneralPipeline(mock)
	hist := []history.Message{history.User("hey")}
	state := NewTurnState("hello there", hist)
	p.Run(context.Background(), state)

	assert.Equal(t, "Hello! How can I help?", state.FinalAnswer)

	prompt := mock.LastPrompt()
	assert.Contains(t, prompt, "hello there")
	assert.Contains(t, prompt, "Human: hey")
	assert.NotContains(t, prompt, "internal error")
}

func TestGeneralPipelineApologyVariant(t *testing.T) {
	mock := llm.NewMockProvider("unexpected prompt").
		WithResponse("An internal error occurred processing the request", "I'm sorry, something went wrong on my side.")

	p := NewGeneralPipeline(mock)
	state := NewTurnState("Find doctors named Smith", nil)
	state.setError(&CapabilityUnavailableError{Capability: "sql", Message: "Database connection is unavailable."})
	p.Run(context.Background(), state)

	assert.Equal(t, "I'm sorry, something went wrong on my side.", state.FinalAnswer)
	// The error text is embedded into the apology prompt.
	assert.Contains(t, mock.LastPrompt(), `"Database connection is unavailable."`)
}

func TestGeneralPipelineSynthesisFailure(t *testing.T) {
	mock := llm.NewMockProvider("").WithError(errors.New("model crashed"))

	p := NewGeneralPipeline(mock)
	state := NewTurnState("hello", nil)
	p.Run(context.Background(), state)

	require.NotEmpty(t, state.FinalAnswer)
	assert.Contains(t, state.FinalAnswer, "Failed to generate general/fallback answer. Error:")
}
