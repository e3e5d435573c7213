package instrument

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/safecontext/pkg/safecontext"
)

// Default tracer name.
const defaultTracerName = "safecontext"

// TracingConfig configures the OpenTelemetry observer.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "safecontext").
	TracerName string

	// TracerProvider provides the tracer.
	// Default: the global provider, otel.GetTracerProvider().
	TracerProvider trace.TracerProvider

	// Context is the parent of every span (default: context.Background()).
	Context context.Context

	// Filter determines which components to trace.
	// If nil, all components are traced.
	Filter func(component string) bool
}

// TracingOption configures the OpenTelemetry observer.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) TracingOption {
	return func(c *TracingConfig) {
		c.TracerProvider = tp
	}
}

// WithParentContext sets the context spans are started from.
func WithParentContext(ctx context.Context) TracingOption {
	return func(c *TracingConfig) {
		c.Context = ctx
	}
}

// WithComponentFilter sets a filter function for components.
func WithComponentFilter(filter func(component string) bool) TracingOption {
	return func(c *TracingConfig) {
		c.Filter = filter
	}
}

func defaultTracingConfig() TracingConfig {
	return TracingConfig{
		TracerName: defaultTracerName,
		Context:    context.Background(),
	}
}

// Tracing is a safecontext.Observer starting one span per wrapped render.
//
// Renders are synchronous, so resolution and memo events are attached to the
// most recent open span of the same component.
type Tracing struct {
	tracer trace.Tracer
	ctx    context.Context
	filter func(string) bool

	mu   sync.Mutex
	open map[string][]*openSpan
}

type openSpan struct {
	span trace.Span
}

var _ safecontext.Observer = (*Tracing)(nil)

// NewTracing creates a tracing observer.
func NewTracing(opts ...TracingOption) *Tracing {
	config := defaultTracingConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.TracerProvider == nil {
		config.TracerProvider = otel.GetTracerProvider()
	}
	if config.Context == nil {
		config.Context = context.Background()
	}
	return &Tracing{
		tracer: config.TracerProvider.Tracer(config.TracerName),
		ctx:    config.Context,
		filter: config.Filter,
		open:   make(map[string][]*openSpan),
	}
}

// RenderStarted starts a span ended by the returned function.
func (t *Tracing) RenderStarted(component string) func() {
	if t.filter != nil && !t.filter(component) {
		return func() {}
	}
	_, span := t.tracer.Start(t.ctx, "safecontext.render",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("safecontext.component", component)),
	)

	entry := &openSpan{span: span}
	t.mu.Lock()
	t.open[component] = append(t.open[component], entry)
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		stack := t.open[component]
		for i := len(stack) - 1; i >= 0; i-- {
			if stack[i] == entry {
				stack = append(stack[:i], stack[i+1:]...)
				break
			}
		}
		if len(stack) == 0 {
			delete(t.open, component)
		} else {
			t.open[component] = stack
		}
		t.mu.Unlock()
		span.End()
	}
}

// ContextsResolved records the resolved keys on the render span.
func (t *Tracing) ContextsResolved(component string, keys []string) {
	if span := t.current(component); span != nil {
		span.AddEvent("contexts resolved", trace.WithAttributes(
			attribute.StringSlice("safecontext.keys", keys),
		))
	}
}

// ContextMissing records a span for a consumer without a provider.
func (t *Tracing) ContextMissing(context string) {
	_, span := t.tracer.Start(t.ctx, "safecontext.missing",
		trace.WithAttributes(attribute.String("safecontext.context", context)),
	)
	span.SetStatus(codes.Error, "invalid value provided for "+context+" context")
	span.End()
}

// MemoEvaluated records the memo outcome on the render span.
func (t *Tracing) MemoEvaluated(component string, decision safecontext.MemoDecision) {
	if span := t.current(component); span != nil {
		span.SetAttributes(attribute.String("safecontext.memo", decision.String()))
	}
}

func (t *Tracing) current(component string) trace.Span {
	t.mu.Lock()
	defer t.mu.Unlock()
	stack := t.open[component]
	if len(stack) == 0 {
		return nil
	}
	return stack[len(stack)-1].span
}
