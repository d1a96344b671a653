package logger

import (
	"context"

	"go.uber.org/zap"
)

type fieldsKey struct{}

// WithFields attaches log fields to ctx. Loggers resolved with Scoped
// carry them, so a run ID set by the launcher also tags the chain
// client's submission logs.
func WithFields(ctx context.Context, fields ...zap.Field) context.Context {
	merged := append(append([]zap.Field(nil), Fields(ctx)...), fields...)
	return context.WithValue(ctx, fieldsKey{}, merged)
}

// Fields returns the fields attached to ctx.
func Fields(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(fieldsKey{}).([]zap.Field)
	return fields
}

// Scoped returns l extended with the fields attached to ctx.
func Scoped(ctx context.Context, l Logger) Logger {
	fields := Fields(ctx)
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}
