package llm

import "fmt"

// EmbeddingUnavailableError reports a failed round-trip to the embedding
// capability. Not retried here; retry policy belongs to the caller.
type EmbeddingUnavailableError struct {
	Message string
	Cause   error
}

func (e *EmbeddingUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("embedding unavailable: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("embedding unavailable: %s", e.Message)
}

func (e *EmbeddingUnavailableError) Unwrap() error {
	return e.Cause
}

// GenerationUnavailableError reports a failed round-trip to the generation
// capability.
type GenerationUnavailableError struct {
	Message string
	Cause   error
}

func (e *GenerationUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("generation unavailable: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("generation unavailable: %s", e.Message)
}

func (e *GenerationUnavailableError) Unwrap() error {
	return e.Cause
}
