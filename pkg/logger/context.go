package logger

import "context"

type contextKey string

const correlationIDKey contextKey = "correlation_id"

func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

func contextFields(ctx context.Context) []interface{} {
	if ctx == nil {
		return nil
	}
	if id := CorrelationID(ctx); id != "" {
		return []interface{}{"correlation_id", id}
	}
	return nil
}
