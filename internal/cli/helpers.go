// Package cli carries the plumbing shared by the espalier commands: logger
// setup, run tokens, workspace loading, store selection and TTY detection.
package cli

import (
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/internal/workspace"
)

// NewRunToken returns the per-invocation identifier attached to every log
// line, so interleaved runs can be told apart.
func NewRunToken() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewLogger returns the command logger: debug-level stderr logging when
// debug is set, silence otherwise.
func NewLogger(debug bool, runToken string) *slog.Logger {
	if !debug {
		return logging.NewNop()
	}
	return logging.New(slog.LevelDebug).With("run", runToken)
}

// LoadWorkspace loads the workspace document, defaulting to
// workspace.DefaultFile in the working directory.
func LoadWorkspace(path string) (*workspace.Workspace, error) {
	if path == "" {
		path = workspace.DefaultFile
	}
	return workspace.Load(path)
}

// OutputProfile picks the termenv profile for stdout: detected colors on a
// terminal, plain ASCII when output is piped.
func OutputProfile() termenv.Profile {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return termenv.ColorProfile()
	}
	return termenv.Ascii
}
