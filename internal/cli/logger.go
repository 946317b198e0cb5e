package cli

import (
	"io"
	"log/slog"
)

// newLogger builds the invocation's logger. It never touches the global
// default, so parallel tests each keep an isolated instance.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
