package agent

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTurnStateErrorHandling(t *testing.T) {
	state := NewTurnState("q", nil)
	assert.False(t, state.Failed())
	assert.Empty(t, state.ErrorMessage())

	first := errors.New("first failure")
	state.setError(first)
	assert.True(t, state.Failed())
	assert.Equal(t, "first failure", state.ErrorMessage())

	// The first error wins; later failures do not overwrite it.
	state.setError(errors.New("second failure"))
	assert.Equal(t, "first failure", state.ErrorMessage())
}

func TestQuestionTypeIsValid(t *testing.T) {
	assert.True(t, TypeSQL.IsValid())
	assert.True(t, TypeRAG.IsValid())
	assert.True(t, TypeGeneral.IsValid())
	assert.False(t, QuestionType("").IsValid())
	assert.False(t, QuestionType("chitchat").IsValid())
}

func TestRouteString(t *testing.T) {
	assert.Equal(t, "sql", RouteSQL.String())
	assert.Equal(t, "rag", RouteRAG.String())
	assert.Equal(t, "general", RouteGeneral.String())
}

func TestNewTurnStateAssignsID(t *testing.T) {
	a := NewTurnState("q", nil)
	b := NewTurnState("q", nil)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "q", a.Question)
}
