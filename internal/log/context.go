// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package log provides structured logging utilities.
package log

import (
	"context"

	"github.com/rs/zerolog"
)

type ctxKey string

const runIDKey ctxKey = "run_id"

// ContextWithRunID stores the launch run ID in the context.
func ContextWithRunID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run ID from context if present.
func RunIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(runIDKey).(string); ok {
		return v
	}
	return ""
}

// WithContext enriches the supplied logger with the run ID from context.
func WithContext(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	rid := RunIDFromContext(ctx)
	if rid == "" {
		return logger
	}
	return logger.With().Str(FieldRunID, rid).Logger()
}

// WithComponentFromContext returns a logger that is annotated with the component
// name and enriched with the run ID from ctx.
func WithComponentFromContext(ctx context.Context, component string) zerolog.Logger {
	return WithContext(ctx, WithComponent(component))
}
