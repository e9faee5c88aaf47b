package tracing

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/adamwoolhether/netmanager/client/tracing"

// Option configures the tracing round tripper.
type Option func(*tracer)

// WithRequestID sets header to a fresh uuid on requests that do not
// already carry one.
func WithRequestID(header string) Option {
	return func(t *tracer) {
		t.requestIDHeader = http.CanonicalHeaderKey(header)
	}
}

// WithPropagator overrides the global otel TextMapPropagator.
func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(t *tracer) {
		if p != nil {
			t.propagator = p
		}
	}
}

type tracer struct {
	tracer          trace.Tracer
	propagator      propagation.TextMapPropagator
	requestIDHeader string
	next            http.RoundTripper
}

// NewRoundTripper wraps next so every request runs inside a client span.
func NewRoundTripper(tp trace.TracerProvider, next http.RoundTripper, opts ...Option) http.RoundTripper {
	if tp == nil {
		tp = noop.NewTracerProvider()
	}

	if next == nil {
		next = http.DefaultTransport
	}

	t := &tracer{
		tracer:     tp.Tracer(instrumentationName),
		propagator: otel.GetTextMapPropagator(),
		next:       next,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

func (t *tracer) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx, span := t.tracer.Start(r.Context(), "netmanager."+r.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", r.Method),
			attribute.String("url.full", r.URL.Redacted()),
			attribute.String("server.address", r.URL.Host),
		),
	)
	defer span.End()

	cpy := r.Clone(ctx)

	if t.requestIDHeader != "" && cpy.Header.Get(t.requestIDHeader) == "" {
		id := uuid.NewString()
		cpy.Header.Set(t.requestIDHeader, id)
		span.SetAttributes(attribute.String("netmanager.request_id", id))
	}

	t.propagator.Inject(ctx, propagation.HeaderCarrier(cpy.Header))

	resp, err := t.next.RoundTrip(cpy)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, strconv.Itoa(resp.StatusCode))
	}

	return resp, nil
}
