package main

import (
	"fmt"
	"log/slog"

	"github.com/taskflow-ai/taskflow-api/internal/config"
	"github.com/taskflow-ai/taskflow-api/internal/platform/logger"
)

// loadAppConfig loads the configuration and installs the application logger.
func loadAppConfig(configFile string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l := logger.Setup(cfg.Server)
	l.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"llm_provider", cfg.LLM.Provider,
		"llm_model", cfg.LLM.ModelName,
		"digest_week_start", cfg.Digest.WeekStart,
		"digest_timezone", cfg.Digest.Timezone)

	return cfg, l, nil
}
