package generation

import "context"

// Generator defines the interface for producing summary prose from a prompt.
// This interface serves as a boundary between the application core and
// external AI/LLM services, following the hexagonal architecture pattern.
//
// Implementations bound each call by their configured request timeout and
// never return an error that is not a *generation.Error.
type Generator interface {
	// Generate produces text for the given prompt. maxLength is the upper
	// bound, in characters, the caller will accept; variants use it to size
	// their token budget. A streamed provider response must be fully drained
	// into one string before returning.
	Generate(ctx context.Context, prompt string, maxLength int) (string, error)

	// Name returns the backend variant name (e.g. "local", "hosted-a").
	Name() string
}
