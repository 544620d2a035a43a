package main

import (
	"os"

	"marketlens/internal"
	"marketlens/internal/config"
)

// bootstrap loads the dotenv file and environment configuration and builds
// the application logger.
func bootstrap() (*config.Config, *internal.Logger, error) {
	envFile, err := config.LoadDotEnv()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	level, _ := internal.ParseLogLevel(cfg.LogLevel)
	format := os.Getenv("LOG_FORMAT")
	if format == "" {
		format = "console"
	}
	logger := internal.NewLogger(level, format)
	if envFile != "" {
		logger.Debug("loaded environment from %s", envFile)
	}
	return cfg, logger, nil
}
