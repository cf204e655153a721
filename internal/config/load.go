package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "TASKFLOW"

var defaults = map[string]any{
	"server.port":                        8080,
	"server.log_level":                   "info",
	"server.shutdown_timeout_seconds":    10,
	"database.url":                       "",
	"database.max_open_conns":            10,
	"database.max_idle_conns":            5,
	"database.conn_max_lifetime_minutes": 5,
	"auth.jwt_secret":                    "",
	"auth.audience":                      "",
	"llm.provider":                       ProviderGemini,
	"llm.gemini_api_key":                 "",
	"llm.openai_api_key":                 "",
	"llm.openai_base_url":                "",
	"llm.model_name":                     "",
	"llm.temperature":                    0.2,
	"llm.max_retries":                    3,
	"llm.retry_delay_seconds":            2,
	"llm.request_timeout_seconds":        60,
	"llm.prompt_dir":                     "",
	"digest.week_start":                  "monday",
	"digest.timezone":                    "UTC",
}

// Load reads configuration from an optional file and from TASKFLOW_*
// environment variables, which take precedence over file values.
//
// When configFile is empty, config.yaml is looked up in the working
// directory and silently skipped if absent. An explicit configFile must exist.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
		// Binding every key lets Unmarshal see values that only exist in the environment.
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.normalize()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// normalize lower-cases enumerations and fills provider-dependent defaults.
func (c *Config) normalize() {
	c.Server.LogLevel = strings.ToLower(strings.TrimSpace(c.Server.LogLevel))
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	c.Digest.WeekStart = strings.ToLower(strings.TrimSpace(c.Digest.WeekStart))

	if c.LLM.ModelName == "" {
		switch c.LLM.Provider {
		case ProviderGemini:
			c.LLM.ModelName = DefaultGeminiModel
		case ProviderOpenAI:
			c.LLM.ModelName = DefaultOpenAIModel
		}
	}
}

// Validate checks struct tags and values that tags cannot express.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if _, err := cfg.Digest.Location(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
