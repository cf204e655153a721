package generation

import "context"

// Prompt is a fully rendered request for a Provider.
type Prompt struct {
	// Name identifies the template the prompt was rendered from, for logging.
	Name string

	System string
	User   string

	// JSON asks the provider for a JSON response. Schema, when set, is the
	// shape the response must take; providers that support response schemas
	// pass it through, others rely on the instructions in the prompt text.
	JSON   bool
	Schema *SchemaNode
}

// Provider turns a prompt into model text.
//
// Implementations retry transient failures themselves (see Retry) and
// return a *ProviderError when the call ultimately fails.
type Provider interface {
	// Name returns a short identifier such as "gemini" or "openai".
	Name() string

	// Generate sends the prompt and returns the raw text of the first candidate.
	Generate(ctx context.Context, prompt Prompt) (string, error)
}
