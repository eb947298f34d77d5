// Package logger contains logger infrastructure
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New creates a new console logger writing to stdout
func New(level string) zerolog.Logger {
	return NewWithWriter(level, os.Stdout)
}

// NewWithWriter creates a new console logger writing to out
func NewWithWriter(level string, out io.Writer) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLogLevel(level))

	return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Caller().
		Logger()
}

// WithComponent returns a child logger tagged with component name
func WithComponent(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

// parseLogLevel parses log level string to zerolog.Level
func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
