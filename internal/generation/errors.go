package generation

import (
	"errors"
	"fmt"
)

// Common errors returned by the generation package
var (
	// ErrProvider is matched by every failure that originates in the model
	// provider: network errors, authentication, rate limits, server errors.
	ErrProvider = errors.New("language model provider error")

	// ErrSchemaValidation is matched when structured output cannot be
	// coerced into the declared schema.
	ErrSchemaValidation = errors.New("model output does not match schema")

	// ErrInvalidResponse is returned when the provider answers but the
	// response carries no usable content
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned when retries for a temporary error are exhausted
	ErrTransientFailure = errors.New("transient language model failure")

	// ErrInvalidConfig is returned when a provider or template configuration is invalid
	ErrInvalidConfig = errors.New("invalid generation configuration")

	// ErrUnknownTemplate is returned when no prompt template exists for a name
	ErrUnknownTemplate = errors.New("unknown prompt template")
)

// ProviderError wraps a failure reported by a Provider. It matches
// ErrProvider with errors.Is and unwraps to the underlying cause.
type ProviderError struct {
	Provider  string
	Transient bool
	Err       error
}

// NewProviderError creates a ProviderError. Transient marks errors that may
// succeed on retry.
func NewProviderError(provider string, transient bool, err error) *ProviderError {
	return &ProviderError{Provider: provider, Transient: transient, Err: err}
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is reports ErrProvider as a match so callers need not know the concrete type.
func (e *ProviderError) Is(target error) bool {
	return target == ErrProvider
}

// IsTransient reports whether err is a ProviderError marked as retryable.
func IsTransient(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Transient
}

// SchemaValidationError reports structured output that could not be
// decoded into the declared schema.
type SchemaValidationError struct {
	Schema string
	Reason string
	Err    error
}

func newSchemaValidationError(schema, reason string, err error) *SchemaValidationError {
	return &SchemaValidationError{Schema: schema, Reason: reason, Err: err}
}

func (e *SchemaValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("schema %s: %s: %v", e.Schema, e.Reason, e.Err)
	}
	return fmt.Sprintf("schema %s: %s", e.Schema, e.Reason)
}

func (e *SchemaValidationError) Unwrap() error {
	return e.Err
}

// Is reports ErrSchemaValidation as a match.
func (e *SchemaValidationError) Is(target error) bool {
	return target == ErrSchemaValidation
}
