package logging

import (
	"context"
	"log/slog"
)

type ctxKeyType string

const ctxKey ctxKeyType = "logger"

// With binds a logger to the context so downstream callers can retrieve it
// via From.
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey, logger)
}

// From returns the logger bound to the context, or the process default.
func From(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxKey).(*slog.Logger); ok {
		return logger
	}
	return Default()
}
