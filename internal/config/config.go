package config

import (
	"fmt"
	"time"
)

// Supported language model providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Default model names per provider, used when llm.model_name is empty.
const (
	DefaultGeminiModel = "gemini-2.0-flash"
	DefaultOpenAIModel = "gpt-3.5-turbo"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Digest   DigestConfig   `mapstructure:"digest" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// ShutdownTimeoutSeconds bounds graceful shutdown.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL                    string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns           int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gte=1"`
}

// AuthConfig contains the settings used to verify bearer tokens.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
	// Audience, when set, must appear in the token's aud claim.
	Audience string `mapstructure:"audience"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	Provider      string  `mapstructure:"provider" validate:"required,oneof=gemini openai"`
	GeminiAPIKey  string  `mapstructure:"gemini_api_key" validate:"required_if=Provider gemini"`
	OpenAIAPIKey  string  `mapstructure:"openai_api_key" validate:"required_if=Provider openai"`
	OpenAIBaseURL string  `mapstructure:"openai_base_url" validate:"omitempty,url"`
	ModelName     string  `mapstructure:"model_name" validate:"required"`
	Temperature   float32 `mapstructure:"temperature" validate:"gte=0,lte=2"`

	MaxRetries            int `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelaySeconds     int `mapstructure:"retry_delay_seconds" validate:"gte=1,lte=60"`
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" validate:"gte=1"`

	// PromptDir optionally overrides the built-in prompt templates.
	PromptDir string `mapstructure:"prompt_dir"`
}

// RetryDelay returns the base retry delay as a duration.
func (c LLMConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySeconds) * time.Second
}

// RequestTimeout returns the provider transport timeout as a duration.
func (c LLMConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// DigestConfig controls how the daily digest is computed.
type DigestConfig struct {
	WeekStart string `mapstructure:"week_start" validate:"required,oneof=sunday monday tuesday wednesday thursday friday saturday"`
	Timezone  string `mapstructure:"timezone" validate:"required"`
}

// Location loads the configured time zone.
func (c DigestConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid digest timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
