package gemini

import (
	"context"
	"errors"
	"net/http"

	"github.com/taskflow-ai/taskflow-api/internal/generation"
	"google.golang.org/genai"
)

// classifyError wraps a GenerateContent error as a ProviderError, marking
// rate limits, server errors and timeouts as transient.
func classifyError(err error) error {
	if errors.Is(err, context.Canceled) {
		return generation.NewProviderError(ProviderName, false, err)
	}

	if code, ok := statusCode(err); ok {
		return generation.NewProviderError(ProviderName, isTransientStatus(code), err)
	}

	// Transport failures without an HTTP status are assumed to be temporary.
	return generation.NewProviderError(ProviderName, true, err)
}

func statusCode(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, true
	}
	return 0, false
}

func isTransientStatus(code int) bool {
	return code == http.StatusTooManyRequests ||
		code == http.StatusRequestTimeout ||
		code >= http.StatusInternalServerError
}
