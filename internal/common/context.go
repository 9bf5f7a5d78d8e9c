package common

import (
	"context"
)

// Context keys for storing values in context
type contextKey string

const (
	// ContextKeyRunID carries the pipeline run token.
	ContextKeyRunID contextKey = "run_id"
)

// WithRunID adds a pipeline run token to the context
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, ContextKeyRunID, runID)
}

// RunIDFromContext extracts the pipeline run token from context
func RunIDFromContext(ctx context.Context) string {
	if runID, ok := ctx.Value(ContextKeyRunID).(string); ok {
		return runID
	}
	return ""
}
