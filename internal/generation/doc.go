// Package generation wraps calls to an external language model.
//
// A Client renders a PromptTemplate with caller-supplied variables and sends
// the result to a Provider in one of two output modes: free text, or JSON
// constrained by a declared Schema. Structured responses are repaired and
// validated before they are returned, so callers either receive a value that
// conforms to the schema or a SchemaValidationError.
//
// Concrete providers live in internal/platform (gemini, openai). This package
// only defines the contract they implement and the retry helper they share.
package generation
