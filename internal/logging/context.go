package logging

import (
	"context"

	"go.uber.org/zap"
)

// Context key types
type batchCtxKey struct{}
type memoryCtxKey struct{}
type loggerCtxKey struct{}

// ContextFields extracts correlation data from context.
func ContextFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 2)

	if batchID := BatchIDFromContext(ctx); batchID != "" {
		fields = append(fields, zap.String("batch.id", batchID))
	}
	if memoryID := MemoryIDFromContext(ctx); memoryID != "" {
		fields = append(fields, zap.String("memory.id", memoryID))
	}

	return fields
}

// WithBatchID adds the current batch ID to context.
func WithBatchID(ctx context.Context, batchID string) context.Context {
	return context.WithValue(ctx, batchCtxKey{}, batchID)
}

// BatchIDFromContext extracts the batch ID from context.
func BatchIDFromContext(ctx context.Context) string {
	if b, ok := ctx.Value(batchCtxKey{}).(string); ok {
		return b
	}
	return ""
}

// WithMemoryID adds the memory under evaluation to context.
func WithMemoryID(ctx context.Context, memoryID string) context.Context {
	return context.WithValue(ctx, memoryCtxKey{}, memoryID)
}

// MemoryIDFromContext extracts the memory ID from context.
func MemoryIDFromContext(ctx context.Context) string {
	if m, ok := ctx.Value(memoryCtxKey{}).(string); ok {
		return m
	}
	return ""
}

// WithLogger stores logger in context.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, logger)
}

// FromContext retrieves logger from context.
// Returns a default nop logger if not found.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*Logger); ok {
		return l
	}
	return &Logger{zap: zap.NewNop(), config: NewDefaultConfig()}
}
