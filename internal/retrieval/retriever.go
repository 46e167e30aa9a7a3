// Package retrieval provides the retrieval-augmented answering backend:
// the top passages for a question are fetched from the document index,
// concatenated into a single context block, and summarized by the model.
package retrieval

import (
	"context"
	"errors"
	"fmt"
)

// DefaultTopK is the number of passages retrieved per question.
const DefaultTopK = 3

// NoInformationFound is returned as the answer when the index holds nothing
// relevant to the question.
const NoInformationFound = "No specific information found in medical summaries."

// Result is the outcome of one retrieval-and-summarize pass.
type Result struct {
	// Answer is the synthesized text, or the NoInformationFound placeholder.
	Answer string
	// Used reports whether any retrieved passage contributed to the answer.
	Used bool
}

// Retriever defines the retrieval backend contract consumed by the RAG
// pipeline.
type Retriever interface {
	// Retrieve answers the question from the document index.
	// Failures are reported as *RetrievalError.
	Retrieve(ctx context.Context, question string) (*Result, error)

	// Available reports whether the index and its dependencies are ready.
	Available() bool
}

// RetrievalError reports a failed retrieval (index or model unavailable,
// query failure).
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval failed: %v", e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// IsRetrievalError reports whether err is (or wraps) a RetrievalError.
func IsRetrievalError(err error) bool {
	var re *RetrievalError
	return errors.As(err, &re)
}
