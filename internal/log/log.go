// Package log configures the process-wide slog logger and hands out
// component-scoped children.
package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Field names shared across components.
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldKind      = "kind"
	FieldID        = "id"
	FieldPath      = "path"
	FieldBackend   = "backend"
)

// Component names.
const (
	ComponentApp      = "app"
	ComponentLedger   = "ledger"
	ComponentStore    = "store"
	ComponentInsights = "insights"
	ComponentDaemon   = "daemon"
	ComponentBackup   = "backup"
)

// Config controls the process logger.
type Config struct {
	Level  slog.Level
	Output io.Writer
	JSON   bool
}

// DefaultConfig logs warnings and above to stderr, leaving stdout to
// command output.
func DefaultConfig() Config {
	return Config{Level: slog.LevelWarn, Output: os.Stderr}
}

// Setup installs the process-wide default logger.
func Setup(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level}
	var h slog.Handler
	if cfg.JSON {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}
	l := slog.New(h)
	slog.SetDefault(l)
	return l
}

// For returns the default logger tagged with a component name.
func For(component string) *slog.Logger {
	return slog.Default().With(FieldComponent, component)
}

// Discard returns a logger that drops everything, for tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps debug/info/warn/error to a slog level, defaulting to warn.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	}
	return slog.LevelWarn
}

// Err is a shorthand for the error attribute.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String(FieldError, "")
	}
	return slog.String(FieldError, err.Error())
}
