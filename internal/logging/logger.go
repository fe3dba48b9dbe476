// Package logging builds the slog loggers shared by the espalier tooling.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New returns the tooling logger at the given level. Output goes to stderr
// so stdout stays reserved for command output (tables, JSON, diagrams). The
// conventional "error" key is shortened to "err".
func New(level slog.Level) *slog.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter is New writing to w instead of stderr; tests use it to
// capture output.
func NewWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
