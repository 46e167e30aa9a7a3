package agent

import (
	"errors"
	"fmt"
)

// errEmptyQuery marks a model response with no query text in it.
var errEmptyQuery = errors.New("LLM failed to generate a valid-looking SQL query")

// ClassificationError reports that the classification step itself failed
// (model invocation error). The router recognizes it by type and sends the
// turn to the general pipeline regardless of the assigned label.
type ClassificationError struct {
	Err error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("Failed to classify question: %v", e.Err)
}

func (e *ClassificationError) Unwrap() error { return e.Err }

// IsClassificationError reports whether err is (or wraps) a
// ClassificationError.
func IsClassificationError(err error) bool {
	var ce *ClassificationError
	return errors.As(err, &ce)
}

// CapabilityUnavailableError reports that the backend required by the chosen
// category is not ready, forcing a downgrade to the general path. Its Error
// text is the exact user-facing message the synthesis prompt embeds.
type CapabilityUnavailableError struct {
	// Capability names the missing backend ("sql" or "rag").
	Capability string
	// Message is the user-facing text.
	Message string
}

func (e *CapabilityUnavailableError) Error() string { return e.Message }

// IsCapabilityUnavailable reports whether err is (or wraps) a
// CapabilityUnavailableError.
func IsCapabilityUnavailable(err error) bool {
	var ce *CapabilityUnavailableError
	return errors.As(err, &ce)
}

// GenerationError reports that the model failed to produce a usable SQL
// query.
type GenerationError struct {
	Msg string
	Err error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Failed to generate SQL: %v", e.Err)
	}
	return e.Msg
}

func (e *GenerationError) Unwrap() error { return e.Err }

// IsGenerationError reports whether err is (or wraps) a GenerationError.
func IsGenerationError(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}

// AnswerSynthesisError reports that the final answer-generation call failed.
// This is the only error that surfaces a raw literal failure string to the
// user instead of a conversational message.
type AnswerSynthesisError struct {
	Err error
}

func (e *AnswerSynthesisError) Error() string {
	return fmt.Sprintf("Failed to generate the final answer. Error: %v", e.Err)
}

func (e *AnswerSynthesisError) Unwrap() error { return e.Err }
