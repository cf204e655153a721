package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taskflow-ai/taskflow-api/internal/platform/metrics"
)

// Mode selects how the model response is interpreted.
type Mode string

// Output modes.
const (
	ModeText       Mode = "text"
	ModeStructured Mode = "structured"
)

// Outcome labels recorded for each invocation.
const (
	outcomeSuccess       = "success"
	outcomeProviderError = "provider_error"
	outcomeSchemaError   = "schema_error"
)

// Output declares the expected response shape of an invocation.
type Output struct {
	mode   Mode
	schema Schema
}

// TextOutput returns the raw model text.
func TextOutput() Output {
	return Output{mode: ModeText}
}

// StructuredOutput asks for JSON conforming to schema and decodes it.
func StructuredOutput(schema Schema) Output {
	return Output{mode: ModeStructured, schema: schema}
}

// Mode returns the output mode.
func (o Output) Mode() Mode {
	return o.mode
}

// Result is the outcome of a successful invocation. Text always holds the
// model text; Value holds the decoded value in structured mode.
type Result struct {
	Text  string
	Value any
}

// Client invokes a Provider with rendered prompt templates.
type Client struct {
	provider Provider
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewClient creates a Client. m may be nil.
func NewClient(provider Provider, logger *slog.Logger, m *metrics.Metrics) (*Client, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: provider cannot be nil", ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		provider: provider,
		logger:   logger.With("component", "llm_client", "provider", provider.Name()),
		metrics:  m,
	}, nil
}

// Invoke renders tmpl with vars, calls the provider and interprets the
// response according to out.
//
// Provider failures are returned as errors matching ErrProvider. In
// structured mode, output that cannot be decoded into the schema is
// returned as an error matching ErrSchemaValidation.
func (c *Client) Invoke(ctx context.Context, tmpl *PromptTemplate, vars any, out Output) (*Result, error) {
	if tmpl == nil {
		return nil, fmt.Errorf("%w: prompt template cannot be nil", ErrInvalidConfig)
	}
	if out.mode == ModeStructured && out.schema == nil {
		return nil, fmt.Errorf("%w: structured output requires a schema", ErrInvalidConfig)
	}
	if out.mode == "" {
		out = TextOutput()
	}

	system, user, err := tmpl.Render(vars)
	if err != nil {
		return nil, err
	}

	prompt := Prompt{
		Name:   tmpl.Name(),
		System: system,
		User:   user,
	}
	if out.mode == ModeStructured {
		prompt.JSON = true
		prompt.Schema = out.schema.Node()
	}

	start := time.Now()
	text, err := c.provider.Generate(ctx, prompt)
	elapsed := time.Since(start)
	if err != nil {
		if !errors.Is(err, ErrProvider) {
			err = NewProviderError(c.provider.Name(), false, err)
		}
		c.record(out.mode, outcomeProviderError)
		c.logger.WarnContext(ctx, "language model call failed",
			"template", prompt.Name,
			"mode", string(out.mode),
			"duration_ms", elapsed.Milliseconds(),
			"error", err)
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		c.record(out.mode, outcomeProviderError)
		return nil, NewProviderError(c.provider.Name(), false,
			fmt.Errorf("%w: empty response", ErrInvalidResponse))
	}

	result := &Result{Text: text}
	if out.mode == ModeStructured {
		value, err := out.schema.Decode(text)
		if err != nil {
			c.record(out.mode, outcomeSchemaError)
			c.logger.WarnContext(ctx, "language model output failed schema validation",
				"template", prompt.Name,
				"schema", out.schema.Name(),
				"response_length", len(text),
				"error", err)
			return nil, err
		}
		result.Value = value
	}

	c.record(out.mode, outcomeSuccess)
	c.logger.DebugContext(ctx, "language model call succeeded",
		"template", prompt.Name,
		"mode", string(out.mode),
		"duration_ms", elapsed.Milliseconds(),
		"response_length", len(text))

	return result, nil
}

func (c *Client) record(mode Mode, outcome string) {
	c.metrics.ObserveLLMRequest(c.provider.Name(), string(mode), outcome)
}
