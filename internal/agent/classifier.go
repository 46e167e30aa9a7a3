package agent

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/nevenar/medassist/internal/history"
	"github.com/nevenar/medassist/internal/llm"
)

// Keyword fallback tables, scanned case-insensitively against the question
// when the model's label is not one of the three valid categories.
var (
	sqlKeywords = []string{"doctor", "institution", "clinic", "hospital"}
	ragKeywords = []string{"symptom", "disease", "treatment", "cause"}
)

// Capability messages surfaced when the chosen category's backend is down.
const (
	msgDatabaseUnavailable = "Database connection is unavailable."
	msgRAGUnavailable      = "RAG system is unavailable."
)

// Capabilities records which backends were reachable at initialization.
type Capabilities struct {
	SQL bool
	RAG bool
}

// Classifier assigns a question to one of the three categories using the
// model, with a deterministic keyword fallback when the model's output is
// not a valid label. Classification always terminates with a valid category.
type Classifier struct {
	provider llm.Provider
	schema   string
	caps     Capabilities
}

// NewClassifier creates a classifier over the given model, schema snapshot,
// and backend capabilities.
func NewClassifier(provider llm.Provider, schema string, caps Capabilities) *Classifier {
	return &Classifier{
		provider: provider,
		schema:   schema,
		caps:     caps,
	}
}

// Classify returns the category for the question. The returned error, when
// non-nil, is carried in the turn state rather than aborting the cycle:
//   - *ClassificationError when the model invocation itself failed (the
//     category defaults to general and keyword fallback is bypassed);
//   - *CapabilityUnavailableError when the chosen category's backend is
//     down (the category is downgraded to general).
func (c *Classifier) Classify(ctx context.Context, question string, hist []history.Message) (QuestionType, error) {
	prompt := classificationPrompt(question, history.Format(hist), c.schema)

	raw, err := c.provider.Complete(ctx, prompt)
	if err != nil {
		log.Error().Err(err).Msg("classification model call failed")
		return TypeGeneral, &ClassificationError{Err: err}
	}

	label := QuestionType(strings.ToLower(strings.TrimSpace(raw)))
	if !label.IsValid() {
		fallback := keywordFallback(question)
		log.Warn().
			Str("raw", raw).
			Str("fallback", string(fallback)).
			Msg("unexpected classification result, applying keyword fallback")
		label = fallback
	}

	switch {
	case label == TypeSQL && !c.caps.SQL:
		log.Warn().Msg("sql classification chosen but database is unavailable, routing to general")
		return TypeGeneral, &CapabilityUnavailableError{Capability: "sql", Message: msgDatabaseUnavailable}
	case label == TypeRAG && !c.caps.RAG:
		log.Warn().Msg("rag classification chosen but retrieval backend is unavailable, routing to general")
		return TypeGeneral, &CapabilityUnavailableError{Capability: "rag", Message: msgRAGUnavailable}
	}

	log.Debug().Str("label", string(label)).Msg("question classified")
	return label, nil
}

// keywordFallback derives a category from domain keywords in the question.
// SQL keywords win over RAG keywords; no match means general.
func keywordFallback(question string) QuestionType {
	lower := strings.ToLower(question)
	for _, kw := range sqlKeywords {
		if strings.Contains(lower, kw) {
			return TypeSQL
		}
	}
	for _, kw := range ragKeywords {
		if strings.Contains(lower, kw) {
			return TypeRAG
		}
	}
	return TypeGeneral
}
