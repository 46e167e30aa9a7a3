// Package agent implements the classification-and-routing orchestration
// engine: a question is classified into one of three categories, routed to
// the matching answer pipeline, and resolved to a single natural-language
// answer. Errors along the way are carried in the turn state rather than
// raised, so the active pipeline's synthesis step can always degrade to a
// conversational explanation.
package agent

import (
	"github.com/google/uuid"

	"github.com/nevenar/medassist/internal/history"
)

// QuestionType is the classification assigned to a question.
type QuestionType string

const (
	// TypeSQL routes to the structured-data pipeline over the doctors and
	// institutions tables.
	TypeSQL QuestionType = "sql"
	// TypeRAG routes to the document-retrieval pipeline over medical
	// summaries.
	TypeRAG QuestionType = "rag"
	// TypeGeneral routes to the conversational fallback pipeline.
	TypeGeneral QuestionType = "general"
)

// IsValid reports whether t is one of the three known categories.
func (t QuestionType) IsValid() bool {
	switch t {
	case TypeSQL, TypeRAG, TypeGeneral:
		return true
	}
	return false
}

// TurnState is the record threaded through one question/answer cycle.
// It is created per question, mutated by the steps of exactly one pipeline,
// and discarded once FinalAnswer has been extracted. Steps add fields; no
// step removes a field written by a prior step.
type TurnState struct {
	// ID correlates log lines across the steps of one cycle.
	ID uuid.UUID

	// Question is the user's question. Immutable after creation.
	Question string

	// History is the transcript of prior turns, owned by the caller and
	// read-only within the cycle.
	History []history.Message

	// QuestionType is unset until classification; afterwards it always
	// holds a valid category, even when classification itself failed.
	QuestionType QuestionType

	// SQLQuery and SQLResult are populated only on the sql path.
	SQLQuery  string
	SQLResult string

	// RAGResult is populated only on the rag path.
	RAGResult string

	// FinalAnswer is the sole externally consumed field; it is non-empty
	// after every completed cycle.
	FinalAnswer string

	// Err is set by the first step that fails and is never cleared by a
	// later success. Steps with side effects inspect it and skip when a
	// prior failure is carried.
	Err error
}

// NewTurnState creates the state for one cycle.
func NewTurnState(question string, hist []history.Message) *TurnState {
	return &TurnState{
		ID:       uuid.New(),
		Question: question,
		History:  hist,
	}
}

// Failed reports whether some step has recorded an error.
func (s *TurnState) Failed() bool {
	return s.Err != nil
}

// ErrorMessage returns the carried error's text, or "" when none is set.
func (s *TurnState) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

// setError records err unless an earlier failure is already carried.
// The first error wins; it is what the synthesis step explains to the user.
func (s *TurnState) setError(err error) {
	if s.Err == nil {
		s.Err = err
	}
}
