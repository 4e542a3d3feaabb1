package observability

import (
	"context"
	"fmt"

	"github.com/aws/aws-xray-sdk-go/xray"
)

// Tracer opens X-Ray subsegments when the request is already being traced.
type Tracer struct {
	serviceName string
	enabled     bool
}

// NewTracer creates a new tracer instance. A disabled tracer runs functions
// untouched.
func NewTracer(serviceName string, enabled bool) *Tracer {
	return &Tracer{
		serviceName: serviceName,
		enabled:     enabled,
	}
}

// Enabled reports whether tracing was switched on.
func (t *Tracer) Enabled() bool {
	return t != nil && t.enabled
}

// active reports whether ctx belongs to a traced request, either a local
// segment or the Lambda facade segment.
func (t *Tracer) active(ctx context.Context) bool {
	if !t.Enabled() {
		return false
	}
	return xray.GetSegment(ctx) != nil || ctx.Value(xray.LambdaTraceHeaderKey) != nil
}

// TraceFunction wraps fn in a subsegment named after the service and op.
func (t *Tracer) TraceFunction(ctx context.Context, name string, fn func(context.Context) error) error {
	if !t.active(ctx) {
		return fn(ctx)
	}
	return xray.Capture(ctx, fmt.Sprintf("%s.%s", t.serviceName, name), fn)
}

// AddAnnotation adds an indexed annotation to the current segment
func (t *Tracer) AddAnnotation(ctx context.Context, key string, value string) {
	if !t.Enabled() {
		return
	}
	if seg := xray.GetSegment(ctx); seg != nil {
		_ = seg.AddAnnotation(key, value)
	}
}
