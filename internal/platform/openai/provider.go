// Package openai implements generation.Provider for OpenAI-compatible chat
// completion APIs using github.com/sashabaranov/go-openai.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/taskflow-ai/taskflow-api/internal/config"
	"github.com/taskflow-ai/taskflow-api/internal/generation"
)

// ProviderName identifies this provider in logs, errors and metrics.
const ProviderName = "openai"

// Provider implements generation.Provider with the chat completions API.
type Provider struct {
	logger      *slog.Logger
	client      *goopenai.Client
	model       string
	temperature float32
	retry       generation.RetryPolicy
}

// NewProvider creates an OpenAI provider from the LLM configuration.
// OpenAIBaseURL may point at any OpenAI-compatible endpoint.
func NewProvider(logger *slog.Logger, cfg config.LLMConfig) (*Provider, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("%w: openai API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	clientConfig := goopenai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.OpenAIBaseURL, "/")
	}
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.RequestTimeout()}

	return &Provider{
		logger:      logger.With("component", "openai_provider", "model", cfg.ModelName),
		client:      goopenai.NewClientWithConfig(clientConfig),
		model:       cfg.ModelName,
		temperature: cfg.Temperature,
		retry: generation.RetryPolicy{
			MaxRetries: cfg.MaxRetries,
			BaseDelay:  cfg.RetryDelay(),
		},
	}, nil
}

// Name implements generation.Provider.
func (p *Provider) Name() string {
	return ProviderName
}

// Generate implements generation.Provider. Structured prompts use JSON
// mode; the schema itself is conveyed by the prompt text.
func (p *Provider) Generate(ctx context.Context, prompt generation.Prompt) (string, error) {
	if strings.TrimSpace(prompt.User) == "" {
		return "", generation.NewProviderError(ProviderName, false,
			fmt.Errorf("%w: empty prompt", generation.ErrInvalidConfig))
	}

	req := p.request(prompt)

	var text string
	err := generation.Retry(ctx, p.logger, p.retry, func(ctx context.Context) error {
		p.logger.DebugContext(ctx, "making OpenAI API call", "template", prompt.Name)

		resp, err := p.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return classifyError(err)
		}

		if len(resp.Choices) == 0 {
			return generation.NewProviderError(ProviderName, false,
				fmt.Errorf("%w: no choices in response", generation.ErrInvalidResponse))
		}

		choice := resp.Choices[0]
		if choice.FinishReason == goopenai.FinishReasonContentFilter {
			return generation.NewProviderError(ProviderName, false,
				fmt.Errorf("%w: content filtered", generation.ErrContentBlocked))
		}

		text = choice.Message.Content
		return nil
	})
	if err != nil {
		return "", err
	}

	return text, nil
}

func (p *Provider) request(prompt generation.Prompt) goopenai.ChatCompletionRequest {
	messages := make([]goopenai.ChatCompletionMessage, 0, 2)
	if prompt.System != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: prompt.System,
		})
	}
	messages = append(messages, goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleUser,
		Content: prompt.User,
	})

	req := goopenai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: p.temperature,
	}

	if prompt.JSON {
		req.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	return req
}

// classifyError wraps a client error as a ProviderError, marking rate
// limits, server errors and transport failures as transient.
func classifyError(err error) error {
	if errors.Is(err, context.Canceled) {
		return generation.NewProviderError(ProviderName, false, err)
	}

	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return generation.NewProviderError(ProviderName, isTransientStatus(apiErr.HTTPStatusCode), err)
	}

	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return generation.NewProviderError(ProviderName, isTransientStatus(reqErr.HTTPStatusCode), err)
	}

	return generation.NewProviderError(ProviderName, true, err)
}

func isTransientStatus(code int) bool {
	return code == http.StatusTooManyRequests ||
		code == http.StatusRequestTimeout ||
		code >= http.StatusInternalServerError
}
