package agent

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/nevenar/medassist/internal/history"
	"github.com/nevenar/medassist/internal/llm"
)

// generalFailurePrefix opens the literal last-resort fallback used when even
// the general pipeline's model call fails.
const generalFailurePrefix = "Failed to generate general/fallback answer. Error: "

// GeneralPipeline is the conversational fallback with no external data
// access. It also terminates every turn whose classification failed or whose
// required backend was unavailable, turning the carried error into an
// apology.
type GeneralPipeline struct {
	provider llm.Provider
}

// NewGeneralPipeline creates the fallback pipeline.
func NewGeneralPipeline(provider llm.Provider) *GeneralPipeline {
	return &GeneralPipeline{provider: provider}
}

// Run executes the single synthesis step. The prompt variant is selected by
// whether an upstream error is carried: with one, the model is instructed to
// apologize for an internal issue referencing the error text; without, it
// answers directly using the history for context.
func (p *GeneralPipeline) Run(ctx context.Context, state *TurnState) {
	prompt := generalAnswerPrompt(state.Question, history.Format(state.History), state.ErrorMessage())

	answer, err := p.provider.Complete(ctx, prompt)
	if err != nil {
		log.Error().Err(err).Msg("general answer synthesis failed")
		state.FinalAnswer = generalFailurePrefix + err.Error()
		return
	}

	state.FinalAnswer = strings.TrimSpace(answer)
}
