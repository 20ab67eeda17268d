package app

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// parseLogLevel maps a configured level name onto a slog level. The empty
// string means the default level.
func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q (known: debug, info, warn, error)", s)
	}
}

// parseLogFormat checks a configured format name. The empty string means
// the default text format.
func parseLogFormat(s string) (string, error) {
	switch f := strings.ToLower(s); f {
	case "":
		return "text", nil
	case "text", "json":
		return f, nil
	default:
		return "", fmt.Errorf("invalid log format %q (known: text, json)", s)
	}
}

// newLogger creates the application's isolated logger instance. It never
// touches the global logger. Level and format strings must already have
// passed NewConfig, so parse failures here fall back to the defaults.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	level, err := parseLogLevel(levelStr)
	if err != nil {
		level = slog.LevelInfo
	}
	format, err := parseLogFormat(formatStr)
	if err != nil {
		format = "text"
	}

	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}
