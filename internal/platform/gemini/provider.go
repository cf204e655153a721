package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taskflow-ai/taskflow-api/internal/config"
	"github.com/taskflow-ai/taskflow-api/internal/generation"
	"google.golang.org/genai"
)

// ProviderName identifies this provider in logs, errors and metrics.
const ProviderName = "gemini"

// Provider implements generation.Provider using the Gemini API.
type Provider struct {
	logger      *slog.Logger
	client      *genai.Client
	model       string
	temperature float32
	retry       generation.RetryPolicy
}

// Option customizes a Provider.
type Option func(*genai.ClientConfig)

// WithBaseURL points the client at a different API endpoint.
func WithBaseURL(url string) Option {
	return func(c *genai.ClientConfig) {
		c.HTTPOptions.BaseURL = url
	}
}

// NewProvider creates a Gemini provider from the LLM configuration.
func NewProvider(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig, opts ...Option) (*Provider, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.GeminiAPIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.RequestTimeout()},
	}
	for _, opt := range opts {
		opt(clientConfig)
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return &Provider{
		logger:      logger.With("component", "gemini_provider", "model", cfg.ModelName),
		client:      client,
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

// Generate implements generation.Provider.
func (p *Provider) Generate(ctx context.Context, prompt generation.Prompt) (string, error) {
	if strings.TrimSpace(prompt.User) == "" {
		return "", generation.NewProviderError(ProviderName, false,
			fmt.Errorf("%w: empty prompt", generation.ErrInvalidConfig))
	}

	contentConfig := p.contentConfig(prompt)

	var text string
	err := generation.Retry(ctx, p.logger, p.retry, func(ctx context.Context) error {
		p.logger.DebugContext(ctx, "making Gemini API call", "template", prompt.Name)

		resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt.User), contentConfig)
		if err != nil {
			return classifyError(err)
		}

		text, err = responseText(resp)
		return err
	})
	if err != nil {
		return "", err
	}

	return text, nil
}

func (p *Provider) contentConfig(prompt generation.Prompt) *genai.GenerateContentConfig {
	temperature := p.temperature
	cfg := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}

	if prompt.System != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: prompt.System}},
		}
	}

	if prompt.JSON {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = toSchema(prompt.Schema)
	}

	return cfg
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", generation.NewProviderError(ProviderName, false,
			fmt.Errorf("%w: nil response", generation.ErrInvalidResponse))
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", generation.NewProviderError(ProviderName, false,
			fmt.Errorf("%w: prompt blocked (%s)", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason))
	}

	if len(resp.Candidates) == 0 {
		return "", generation.NewProviderError(ProviderName, false,
			fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse))
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", generation.NewProviderError(ProviderName, false,
			fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked))
	}

	if candidate.Content == nil {
		return "", generation.NewProviderError(ProviderName, false,
			fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse))
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}

	return sb.String(), nil
}
