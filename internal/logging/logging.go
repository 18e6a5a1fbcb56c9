// Package logging configures structured logging for AstroPhoenix.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config contains logging configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string
	// Writer is the log destination. Nil means stderr.
	Writer io.Writer
}

// DefaultConfig returns sensible defaults for CLI logging.
func DefaultConfig() Config {
	return Config{
		Level: "info",
	}
}

// Setup initializes structured JSON logging and returns the configured logger.
func Setup(cfg Config) *slog.Logger {
	out := cfg.Writer
	if out == nil {
		out = os.Stderr
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	})

	return slog.New(handler)
}

// SetupDefault sets up logging with the given level and installs it as the
// process default logger.
func SetupDefault(level string) {
	cfg := DefaultConfig()
	if level != "" {
		cfg.Level = level
	}
	slog.SetDefault(Setup(cfg))
}

// parseLevel converts string level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LevelFromString converts string level to slog.Level.
func LevelFromString(level string) slog.Level {
	return parseLevel(level)
}
