// Package ctxlog carries the invocation's slog.Logger through
// context.Context, so library packages log without global state.
package ctxlog

import (
	"context"
	"log/slog"
)

// key is unexported so no other package can collide with or replace the
// stored logger.
type key struct{}

// WithLogger returns a child context carrying the logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, key{}, logger)
}

// FromContext returns the context's logger, or the process default when the
// context never had one attached.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(key{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
