// Package context carries request-scoped values: the caller, the
// response locale and trace identifiers.
package context

import "context"

// TraceContext identifies one request across logs, spans and responses.
type TraceContext struct {
	TraceID   string
	SpanID    string
	RequestID string
}

type traceContextKey struct{}

// WithTrace stores trace identifiers in ctx.
func WithTrace(ctx context.Context, trace *TraceContext) context.Context {
	return context.WithValue(ctx, traceContextKey{}, trace)
}

// GetTrace returns the trace identifiers of ctx, or nil.
func GetTrace(ctx context.Context) *TraceContext {
	t, _ := ctx.Value(traceContextKey{}).(*TraceContext)
	return t
}

// GetRequestID returns the request ID of ctx or "".
func GetRequestID(ctx context.Context) string {
	if t := GetTrace(ctx); t != nil {
		return t.RequestID
	}
	return ""
}

// GetTraceID returns the trace ID of ctx or "".
func GetTraceID(ctx context.Context) string {
	if t := GetTrace(ctx); t != nil {
		return t.TraceID
	}
	return ""
}
