package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger represents application logger.
type Logger struct {
	*slog.Logger
}

// New creates new Logger instance writing text records to stdout with the
// specified level.
func New(level int) *Logger {
	return NewWithWriter(os.Stdout, level, false)
}

// NewWithWriter creates a Logger writing to w. JSON output is used when
// asJSON is set, plain text otherwise.
func NewWithWriter(w io.Writer, level int, asJSON bool) *Logger {
	opts := &slog.HandlerOptions{Level: slog.Level(level)}

	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if asJSON {
		handler = slog.NewJSONHandler(w, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// With returns a Logger that adds args to every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Fatal is equivalent to Error followed by os.Exit(1).
func (l *Logger) Fatal(msg string, args ...any) {
	l.Logger.Error(msg, args...)
	os.Exit(1)
}
