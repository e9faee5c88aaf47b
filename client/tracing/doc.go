// Package tracing provides an [http.RoundTripper] that opens an
// OpenTelemetry client span around every outbound request, injects the
// configured propagation headers and, optionally, stamps a uuid request
// id header.
//
//	rt := tracing.NewRoundTripper(tp, http.DefaultTransport,
//		tracing.WithRequestID("X-Request-Id"),
//	)
//
// A nil TracerProvider falls back to a no-op provider, so the request id
// can be used on its own.
package tracing
