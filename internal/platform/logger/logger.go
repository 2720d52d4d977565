// Package logger provides structured logging for the application using Go's
// standard library log/slog package, plus helpers for carrying a
// request-scoped logger through a context.Context.
package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/config"
)

// Setup initializes the application's logging system from configuration.
// It creates a structured JSON logger writing to stdout at the configured
// level, sets it as the process default, and returns it.
func Setup(cfg config.ServerConfig) (*slog.Logger, error) {
	level := parseLevel(cfg.LogLevel)

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})

	log := slog.New(handler)
	slog.SetDefault(log)

	return log, nil
}

// parseLevel maps a configured level name to a slog.Level, case-insensitively.
// Unknown names fall back to info; config validation normally rejects them
// before we get here.
func parseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
