package retrieval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/nevenar/medassist/internal/llm"
)

// qaPromptTemplate stuffs the retrieved passages into one context block and
// asks the model to answer strictly from it.
const qaPromptTemplate = `Use the following pieces of context from medical summaries to answer the question at the end. If the answer is not contained in the context, say that you don't know; do not make an answer up.

Context:
%s

Question: %s

Helpful Answer:`

// PostgresRetriever implements Retriever over an articles table using
// PostgreSQL full-text search, with the model summarizing the retrieved
// passages. Like the relational store, it opens a fresh connection per call.
type PostgresRetriever struct {
	dsn            string
	provider       llm.Provider
	table          string
	topK           int
	connectTimeout time.Duration
}

// PostgresRetrieverOption is a functional option for PostgresRetriever.
type PostgresRetrieverOption func(*PostgresRetriever)

// WithTopK overrides the number of passages retrieved per question.
func WithTopK(k int) PostgresRetrieverOption {
	return func(r *PostgresRetriever) {
		r.topK = k
	}
}

// WithTable overrides the articles table name.
func WithTable(table string) PostgresRetrieverOption {
	return func(r *PostgresRetriever) {
		r.table = table
	}
}

// NewPostgresRetriever creates a retriever over the given database and model.
func NewPostgresRetriever(dsn string, provider llm.Provider, opts ...PostgresRetrieverOption) *PostgresRetriever {
	r := &PostgresRetriever{
		dsn:            dsn,
		provider:       provider,
		table:          "articles",
		topK:           DefaultTopK,
		connectTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Available reports whether both the document index and the model are ready.
func (r *PostgresRetriever) Available() bool {
	if r.provider == nil || !r.provider.Available() {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, r.dsn)
	if err != nil {
		return false
	}
	defer conn.Close(ctx)

	var exists bool
	err = conn.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)`, r.table).Scan(&exists)
	return err == nil && exists
}

// Retrieve fetches the top passages for the question and has the model
// synthesize an answer from them.
func (r *PostgresRetriever) Retrieve(ctx context.Context, question string) (*Result, error) {
	passages, err := r.search(ctx, question)
	if err != nil {
		return nil, &RetrievalError{Err: err}
	}

	if len(passages) == 0 {
		log.Debug().Str("question", question).Msg("retrieval found no passages")
		return &Result{Answer: NoInformationFound, Used: false}, nil
	}

	prompt := fmt.Sprintf(qaPromptTemplate, strings.Join(passages, "\n\n"), question)
	answer, err := r.provider.Complete(ctx, prompt)
	if err != nil {
		return nil, &RetrievalError{Err: err}
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return &Result{Answer: NoInformationFound, Used: false}, nil
	}

	log.Debug().
		Int("passages", len(passages)).
		Msg("retrieval answer synthesized")

	return &Result{Answer: answer, Used: true}, nil
}

// search returns the topK passages ranked by full-text relevance.
func (r *PostgresRetriever) search(ctx context.Context, question string) ([]string, error) {
	cctx, cancel := context.WithTimeout(ctx, r.connectTimeout)
	conn, err := pgx.Connect(cctx, r.dsn)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(ctx)

	query := fmt.Sprintf(`
		SELECT title, content
		FROM %s
		WHERE to_tsvector('english', title || ' ' || content) @@ websearch_to_tsquery('english', $1)
		ORDER BY ts_rank(to_tsvector('english', title || ' ' || content), websearch_to_tsquery('english', $1)) DESC
		LIMIT $2`, pgx.Identifier{r.table}.Sanitize())

	rows, err := conn.Query(ctx, query, question, r.topK)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()

	var passages []string
	for rows.Next() {
		var title, content string
		if err := rows.Scan(&title, &content); err != nil {
			return nil, fmt.Errorf("read passage: %w", err)
		}
		passages = append(passages, title+"\n"+content)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	return passages, nil
}
