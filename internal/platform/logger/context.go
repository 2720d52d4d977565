package logger

import (
	"context"
	"log/slog"
)

// contextKey is unexported so only this package can store the logger.
type contextKey struct{}

// WithLogger returns a copy of ctx carrying the given logger. Handlers and
// middleware use this to attach request-scoped attributes (trace IDs, user
// IDs) once and have them appear on every downstream log line.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, log)
}

// FromContext returns the logger stored in ctx, or nil if none is present.
func FromContext(ctx context.Context) *slog.Logger {
	log, _ := ctx.Value(contextKey{}).(*slog.Logger)
	return log
}

// FromContextOrDefault returns the logger stored in ctx, falling back to
// the process default when the context carries none.
func FromContextOrDefault(ctx context.Context) *slog.Logger {
	if log := FromContext(ctx); log != nil {
		return log
	}
	return slog.Default()
}
