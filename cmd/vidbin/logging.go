package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"vidbin/internal/config"
)

const logLevelEnvKey = "VIDBIN_LOG_LEVEL"

// configureLoggerForCLI installs the default slog logger. Flag beats env
// beats config; an invalid level falls back to the default with a warning
// rather than failing the command.
func configureLoggerForCLI(flagLevel, configLevel string) string {
	envLevel := os.Getenv(logLevelEnvKey)
	rawLevel, source := selectedLogLevel(flagLevel, envLevel, configLevel)

	level, err := parseLogLevel(rawLevel)
	if err != nil {
		level, _ = parseLogLevel(config.DefaultLogLevel)
		slog.SetDefault(newLogger(level))
		switch source {
		case "flag":
			return fmt.Sprintf("warning: invalid --log-level %q; defaulting to %s", flagLevel, config.DefaultLogLevel)
		case "env":
			return fmt.Sprintf("warning: invalid %s=%q; defaulting to %s", logLevelEnvKey, envLevel, config.DefaultLogLevel)
		default:
			return fmt.Sprintf("warning: invalid log_level=%q; defaulting to %s", configLevel, config.DefaultLogLevel)
		}
	}

	slog.SetDefault(newLogger(level))
	return ""
}

func selectedLogLevel(flagLevel, envLevel, configLevel string) (string, string) {
	if strings.TrimSpace(flagLevel) != "" {
		return flagLevel, "flag"
	}
	if strings.TrimSpace(envLevel) != "" {
		return envLevel, "env"
	}
	if strings.TrimSpace(configLevel) != "" {
		return configLevel, "config"
	}
	return config.DefaultLogLevel, "default"
}

func parseLogLevel(raw string) (slog.Level, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return slog.LevelInfo, nil
	}
	if strings.EqualFold(value, "warning") {
		value = "warn"
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", raw)
	}
	return level, nil
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
