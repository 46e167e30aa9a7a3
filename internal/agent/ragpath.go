package agent

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/nevenar/medassist/internal/history"
	"github.com/nevenar/medassist/internal/llm"
	"github.com/nevenar/medassist/internal/retrieval"
)

// RAGPipeline answers general medical questions: relevant passages are
// retrieved and summarized by the backend, then phrased conversationally.
type RAGPipeline struct {
	provider  llm.Provider
	retriever retrieval.Retriever
}

// NewRAGPipeline creates the document-retrieval pipeline.
func NewRAGPipeline(provider llm.Provider, retriever retrieval.Retriever) *RAGPipeline {
	return &RAGPipeline{
		provider:  provider,
		retriever: retriever,
	}
}

// Run executes the two steps in order. Every exit leaves a non-empty
// FinalAnswer on the state.
func (p *RAGPipeline) Run(ctx context.Context, state *TurnState) {
	p.retrieve(ctx, state)
	p.synthesizeAnswer(ctx, state)
}

// retrieve delegates to the retrieval backend. A missing backend is a
// distinct error from a failed retrieval.
func (p *RAGPipeline) retrieve(ctx context.Context, state *TurnState) {
	if p.retriever == nil {
		state.setError(&CapabilityUnavailableError{Capability: "rag", Message: msgRAGUnavailable})
		return
	}

	log.Debug().Str("question", state.Question).Msg("executing retrieval")

	result, err := p.retriever.Retrieve(ctx, state.Question)
	if err != nil {
		log.Error().Err(err).Msg("retrieval failed")
		state.setError(err)
		return
	}

	state.RAGResult = result.Answer
}

// synthesizeAnswer phrases the retrieved text, or the carried error,
// conversationally. Missing information is framed as a polite "nothing
// relevant was found" rather than an apology for an internal fault.
func (p *RAGPipeline) synthesizeAnswer(ctx context.Context, state *TurnState) {
	retrievedOrError := state.RAGResult
	if state.Failed() {
		retrievedOrError = "An error occurred during information retrieval: " + state.ErrorMessage()
	} else if retrievedOrError == "" {
		retrievedOrError = "No information retrieved."
	}

	prompt := ragAnswerPrompt(state.Question, history.Format(state.History), retrievedOrError)

	answer, err := p.provider.Complete(ctx, prompt)
	if err != nil {
		log.Error().Err(err).Msg("rag answer synthesis failed")
		state.FinalAnswer = (&AnswerSynthesisError{Err: err}).Error()
		return
	}

	state.FinalAnswer = strings.TrimSpace(answer)
}
