// Package gemini implements generation.Provider on top of Google's Gemini
// API (google.golang.org/genai).
//
// Structured prompts are sent with an application/json response MIME type
// and the prompt's schema translated into a genai.Schema. Transient API
// failures (rate limits, server errors, timeouts) are retried with
// exponential backoff; safety blocks and other client errors are not.
package gemini
