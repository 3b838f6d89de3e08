package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/observer/pkg/subject"
)

// Default tracer name for the engine.
const defaultTracerName = "observer"

// SpanName is the name of the span recorded for every Notify call.
const SpanName = "subject.notify"

// TracingConfig configures the OpenTelemetry recorder.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "observer").
	TracerName string

	// Tracer overrides the tracer resolved from the global provider.
	Tracer trace.Tracer

	// Filter determines which subjects are traced.
	// If nil, every subject is traced.
	Filter func(s *subject.Subject) bool

	// AttributeExtractor adds custom attributes to every span.
	AttributeExtractor func(s *subject.Subject) []attribute.KeyValue
}

// TracingOption configures the OpenTelemetry recorder.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithTracer sets the tracer directly, bypassing the global provider.
func WithTracer(tracer trace.Tracer) TracingOption {
	return func(c *TracingConfig) {
		c.Tracer = tracer
	}
}

// WithSubjectFilter sets a filter function for subjects.
func WithSubjectFilter(filter func(s *subject.Subject) bool) TracingOption {
	return func(c *TracingConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(s *subject.Subject) []attribute.KeyValue) TracingOption {
	return func(c *TracingConfig) {
		c.AttributeExtractor = extractor
	}
}

// Tracing records a span per Notify call. Nested notifications become
// child spans of the notification that triggered them.
type Tracing struct {
	config TracingConfig
	tracer trace.Tracer

	mu    sync.Mutex
	stack []context.Context
}

var _ subject.Recorder = (*Tracing)(nil)

// NewTracing creates the tracing recorder. The tracer comes from the global
// OpenTelemetry provider unless WithTracer is given; configure the provider
// in main() before subjects are notified:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func NewTracing(opts ...TracingOption) *Tracing {
	config := TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	tracer := config.Tracer
	if tracer == nil {
		tracer = otel.Tracer(config.TracerName)
	}
	return &Tracing{config: config, tracer: tracer}
}

// ObserverAdded implements subject.Recorder.
func (t *Tracing) ObserverAdded(subject.Kind) {}

// ObserverRemoved implements subject.Recorder.
func (t *Tracing) ObserverRemoved(subject.Kind) {}

// NotifyStart implements subject.Recorder.
func (t *Tracing) NotifyStart(s *subject.Subject) func(subject.NotifyStats) {
	if t.config.Filter != nil && !t.config.Filter(s) {
		return nil
	}

	attrs := []attribute.KeyValue{
		attribute.String("observer.subject", s.Name()),
		attribute.String("observer.kind", s.Kind().String()),
	}
	if t.config.AttributeExtractor != nil {
		attrs = append(attrs, t.config.AttributeExtractor(s)...)
	}

	t.mu.Lock()
	parent := context.Background()
	if n := len(t.stack); n > 0 {
		parent = t.stack[n-1]
	}
	ctx, span := t.tracer.Start(parent, SpanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	t.stack = append(t.stack, ctx)
	t.mu.Unlock()

	return func(stats subject.NotifyStats) {
		span.SetAttributes(
			attribute.Int("observer.delivered", stats.Delivered),
			attribute.Int("observer.restarts", stats.Restarts),
			attribute.Int("observer.depth", stats.Depth),
		)
		if stats.Dropped {
			span.RecordError(subject.ErrDepthExceeded)
			span.SetStatus(codes.Error, subject.ErrDepthExceeded.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()

		t.mu.Lock()
		for i := len(t.stack) - 1; i >= 0; i-- {
			if t.stack[i] == ctx {
				t.stack = append(t.stack[:i], t.stack[i+1:]...)
				break
			}
		}
		t.mu.Unlock()
	}
}

// Problem implements subject.Recorder. The problem is attached as an event
// to the innermost notification span, if one is open.
func (t *Tracing) Problem(code string, err error) {
	t.mu.Lock()
	var ctx context.Context
	if n := len(t.stack); n > 0 {
		ctx = t.stack[n-1]
	}
	t.mu.Unlock()
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	span.AddEvent("problem", trace.WithAttributes(attribute.String("observer.code", code)))
	if err != nil {
		span.RecordError(err)
	}
}
