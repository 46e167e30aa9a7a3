package agent

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/nevenar/medassist/internal/history"
	"github.com/nevenar/medassist/internal/llm"
	"github.com/nevenar/medassist/internal/store"
)

// SQLPipeline answers questions about doctors and institutions: it has the
// model write a query from the schema, executes it against the store, and
// phrases the rows (or the failure) conversationally.
type SQLPipeline struct {
	provider llm.Provider
	store    store.Store
	schema   string
}

// NewSQLPipeline creates the structured-data pipeline.
func NewSQLPipeline(provider llm.Provider, st store.Store, schema string) *SQLPipeline {
	return &SQLPipeline{
		provider: provider,
		store:    st,
		schema:   schema,
	}
}

// Run executes the three steps in order. Every exit leaves a non-empty
// FinalAnswer on the state.
func (p *SQLPipeline) Run(ctx context.Context, state *TurnState) {
	p.generateQuery(ctx, state)
	p.executeQuery(ctx, state)
	p.synthesizeAnswer(ctx, state)
}

// generateQuery asks the model for a PostgreSQL query answering the
// question. Chat history is deliberately excluded: pronoun resolution
// belongs to classification, and history text confuses query generation.
func (p *SQLPipeline) generateQuery(ctx context.Context, state *TurnState) {
	if p.schema == "" {
		state.setError(&GenerationError{Msg: "DB schema not available for SQL generation."})
		return
	}

	raw, err := p.provider.Complete(ctx, sqlGenerationPrompt(state.Question, p.schema))
	if err != nil {
		log.Error().Err(err).Msg("sql generation failed")
		state.setError(&GenerationError{Err: err})
		return
	}

	query := stripCodeFences(raw)
	if query == "" {
		state.setError(&GenerationError{Err: errEmptyQuery})
		return
	}

	log.Debug().Str("query", query).Msg("generated sql")
	state.SQLQuery = query
}

// executeQuery runs the generated query against a fresh store connection.
// The step is a no-op when a prior step already failed: a poisoned state
// must not reach the database.
func (p *SQLPipeline) executeQuery(ctx context.Context, state *TurnState) {
	if state.Failed() {
		log.Debug().Msg("skipping sql execution due to previous error")
		return
	}

	if state.SQLQuery == "" {
		state.setError(&GenerationError{Msg: "No SQL query was found in state."})
		return
	}

	query := normalizeQuery(state.SQLQuery)
	log.Info().Str("query", query).Msg("executing sql")

	result, err := p.store.Query(ctx, query)
	if err != nil {
		log.Error().Err(err).Msg("sql execution failed")
		state.setError(err)
		return
	}

	state.SQLResult = result.Format()
}

// synthesizeAnswer always runs: it phrases either the tabular result or the
// carried error conversationally. Its own model failure surfaces as a
// literal failure string, the system's last-resort fallback.
func (p *SQLPipeline) synthesizeAnswer(ctx context.Context, state *TurnState) {
	resultOrError := state.SQLResult
	if state.Failed() {
		resultOrError = "An error occurred: " + state.ErrorMessage()
	} else if resultOrError == "" {
		resultOrError = "No result obtained from database."
	}

	prompt := sqlAnswerPrompt(state.Question, history.Format(state.History), resultOrError)

	answer, err := p.provider.Complete(ctx, prompt)
	if err != nil {
		log.Error().Err(err).Msg("sql answer synthesis failed")
		state.FinalAnswer = (&AnswerSynthesisError{Err: err}).Error()
		return
	}

	state.FinalAnswer = strings.TrimSpace(answer)
}

// stripCodeFences removes markdown fence wrapping the model sometimes adds
// despite instructions.
func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```sql", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// normalizeQuery collapses line endings and whitespace and strips a single
// trailing statement terminator.
func normalizeQuery(s string) string {
	s = stripCodeFences(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.Join(strings.Fields(s), " ")
	s = strings.TrimSuffix(s, ";")
	return s
}
