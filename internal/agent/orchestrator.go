package agent

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nevenar/medassist/internal/history"
	"github.com/nevenar/medassist/internal/llm"
	"github.com/nevenar/medassist/internal/retrieval"
	"github.com/nevenar/medassist/internal/store"
)

// DefaultTables are the relational tables whose schema is snapshotted at
// initialization and exposed to classification and SQL generation.
var DefaultTables = []string{"doctors", "institutions"}

// Route is the pipeline selected for one turn. The topology is fixed and
// small, so it is modeled as a tagged variant rather than a generic graph.
type Route int

const (
	// RouteSQL enters the structured-data pipeline.
	RouteSQL Route = iota
	// RouteRAG enters the document-retrieval pipeline.
	RouteRAG
	// RouteGeneral enters the conversational fallback pipeline.
	RouteGeneral
)

// String returns a human-readable route name.
func (r Route) String() string {
	switch r {
	case RouteSQL:
		return "sql"
	case RouteRAG:
		return "rag"
	default:
		return "general"
	}
}

// Orchestrator owns the routing decision table and sequences one
// question/answer cycle: classify, route, run the chosen pipeline to
// completion. It holds no cross-cycle mutable state, so concurrent cycles
// are independent as long as the shared backends are concurrency-safe.
type Orchestrator struct {
	classifier *Classifier
	sql        *SQLPipeline
	rag        *RAGPipeline
	general    *GeneralPipeline
	caps       Capabilities
	schema     string
}

// Option is a functional option for configuring the Orchestrator.
type Option func(*orchestratorConfig)

type orchestratorConfig struct {
	tables []string
}

// WithTables overrides the tables included in the schema snapshot.
func WithTables(tables []string) Option {
	return func(c *orchestratorConfig) {
		c.tables = tables
	}
}

// New constructs the orchestrator. Backend capabilities are probed once and
// the schema snapshot is fetched once; both are reused read-only for the
// orchestrator's lifetime. A missing database or retrieval backend is not
// fatal: affected categories downgrade to general at classification time.
func New(ctx context.Context, provider llm.Provider, st store.Store, rt retrieval.Retriever, opts ...Option) *Orchestrator {
	cfg := &orchestratorConfig{tables: DefaultTables}
	for _, opt := range opts {
		opt(cfg)
	}

	caps := Capabilities{
		SQL: st != nil && st.Available(),
		RAG: rt != nil && rt.Available(),
	}

	var schema string
	if caps.SQL {
		snapshot, err := st.SchemaDescription(ctx, cfg.tables)
		if err != nil {
			log.Warn().Err(err).Msg("schema introspection failed, sql generation will degrade")
		} else {
			schema = snapshot
		}
	}

	log.Info().
		Bool("sql_available", caps.SQL).
		Bool("rag_available", caps.RAG).
		Bool("schema_loaded", schema != "").
		Msg("orchestrator initialized")

	return &Orchestrator{
		classifier: NewClassifier(provider, schema, caps),
		sql:        NewSQLPipeline(provider, st, schema),
		rag:        NewRAGPipeline(provider, rt),
		general:    NewGeneralPipeline(provider),
		caps:       caps,
		schema:     schema,
	}
}

// RunCycle processes one question start to finish and returns the completed
// turn state. FinalAnswer is always non-empty on return; failures along the
// way are carried in the state and explained conversationally rather than
// returned as errors.
func (o *Orchestrator) RunCycle(ctx context.Context, question string, hist []history.Message) *TurnState {
	start := time.Now()
	state := NewTurnState(question, hist)

	label, err := o.classifier.Classify(ctx, question, hist)
	state.QuestionType = label
	if err != nil {
		state.setError(err)
	}

	route := o.route(state)
	log.Info().
		Str("turn_id", state.ID.String()).
		Str("question_type", string(state.QuestionType)).
		Str("route", route.String()).
		Bool("carrying_error", state.Failed()).
		Msg("routing decision")

	switch route {
	case RouteSQL:
		o.sql.Run(ctx, state)
	case RouteRAG:
		o.rag.Run(ctx, state)
	default:
		o.general.Run(ctx, state)
	}

	if state.FinalAnswer == "" {
		// Every pipeline terminates in a synthesis step, so this only
		// guards against a future pipeline forgetting the contract.
		state.FinalAnswer = generalFailurePrefix + "no answer produced"
	}

	log.Info().
		Str("turn_id", state.ID.String()).
		Dur("duration", time.Since(start)).
		Bool("failed", state.Failed()).
		Msg("cycle complete")

	return state
}

// route evaluates the transition rule once per cycle: a failed
// classification step goes to general regardless of label (recognized by
// error type, not message text), otherwise the label decides. No retries,
// no re-classification; a pipeline, once entered, runs to completion.
func (o *Orchestrator) route(state *TurnState) Route {
	if IsClassificationError(state.Err) {
		return RouteGeneral
	}
	switch state.QuestionType {
	case TypeSQL:
		return RouteSQL
	case TypeRAG:
		return RouteRAG
	default:
		return RouteGeneral
	}
}

// Schema exposes the snapshot fetched at initialization (empty when
// introspection failed or the database was unavailable).
func (o *Orchestrator) Schema() string {
	return o.schema
}

// Capabilities exposes the backend availability probed at initialization.
func (o *Orchestrator) Capabilities() Capabilities {
	return o.caps
}
