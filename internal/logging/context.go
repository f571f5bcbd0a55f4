package logging

import (
	"context"

	"go.uber.org/zap"
)

const (
	// FieldRequestID is the structured logging key for request correlation ids.
	FieldRequestID = "request_id"
	// FieldMethod is the structured logging key for extraction strategies.
	FieldMethod = "method"
	// FieldURL is the structured logging key for the page being resolved.
	FieldURL = "url"
	// FieldComponent is the structured logging key for component names.
	FieldComponent = "component"
)

type loggerKey struct{}

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger *zap.Logger) context.Context {
	if logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stored in ctx, or fallback when none is
// present. A nil fallback yields a no-op logger.
func FromContext(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok && l != nil {
			return l
		}
	}
	if fallback != nil {
		return fallback
	}
	return zap.NewNop()
}
