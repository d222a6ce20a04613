// Package logger builds the zerolog loggers used by the outreach commands.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// TimeFormat is the timestamp layout of console output.
const TimeFormat = "2006-01-02 - 15:04:05"

// Logger wraps zerolog.Logger with application-specific methods
type Logger struct {
	zerolog.Logger
}

// ParseLevel accepts debug, info, warn and error in any case.
func ParseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("invalid logging level %q: valid options are debug, info, warn or error", level)
	}
}

// New creates a new Logger writing to w.
// Format is "console" (or "text") for human-readable lines, anything else for JSON.
func New(level, format string, w io.Writer) (*Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var logger zerolog.Logger
	if format == "text" || format == "console" {
		output := zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    true,
			TimeFormat: TimeFormat,
		}
		logger = zerolog.New(output)
	} else {
		logger = zerolog.New(w)
	}

	return &Logger{Logger: logger.Level(lvl).With().Timestamp().Logger()}, nil
}

// Open resolves an output name to a writer. "stdout" and "stderr" name the
// standard streams; anything else is a file opened for appending. The
// returned close function is a no-op for the standard streams.
func Open(output string) (io.Writer, func() error, error) {
	switch output {
	case "", "stderr":
		return os.Stderr, func() error { return nil }, nil
	case "stdout":
		return os.Stdout, func() error { return nil }, nil
	}

	f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, f.Close, nil
}

// WithComponent returns a new logger with the component name attached
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger: l.With().Str("component", component).Logger(),
	}
}
