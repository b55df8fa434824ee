package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
)

var ErrInvalidLogLevel = errors.New("invalid log level")

func ParseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrInvalidLogLevel, level)
	}
}

// New builds the process logger and installs it as the slog default.
// Terminals get text output, everything else JSON.
func New(level string) (*slog.Logger, error) {
	parsed, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	logger := slog.New(newHandler(os.Stdout, isatty.IsTerminal(os.Stdout.Fd()), parsed))
	slog.SetDefault(logger)
	return logger, nil
}

func newHandler(w io.Writer, terminal bool, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if terminal {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}
