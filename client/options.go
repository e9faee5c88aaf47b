package client

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/netmanager/client/throttle"
)

// Option is a functional option for configuring a [Client] via [Build].
type Option func(*options) error
type options struct {
	client            *http.Client
	rt                http.RoundTripper
	timeout           *time.Duration
	userAgent         string
	throttle          *throttle.Config
	noFollowRedirects bool
	logger            *slog.Logger
	codec             Codec
	useJSONNumber     bool
	tracerProvider    trace.TracerProvider
	requestIDHeader   string
	maxInFlight       int
}

// WithClient replaces the default [http.Client] used by the [Client].
// The client is copied; hc itself is never modified.
func WithClient(hc *http.Client) Option {
	return func(o *options) error {
		if hc == nil {
			return errors.New("client must not be nil")
		}
		o.client = hc
		return nil
	}
}

// WithTransport sets a custom [http.RoundTripper] as the base transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) error {
		if rt == nil {
			return errors.New("transport must not be nil")
		}
		o.rt = rt
		return nil
	}
}

// WithTimeout sets the per-request budget covering connect, write,
// read and the whole call. Zero disables the timeout. Defaults to 10s.
func WithTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		o.timeout = &d
		return nil
	}
}

// WithUserAgent adds a persistent User-Agent header to all outgoing requests.
func WithUserAgent(header string) Option {
	return func(o *options) error {
		o.userAgent = header
		return nil
	}
}

// WithThrottle enables token-bucket rate limiting with the given requests per second and burst capacity.
func WithThrottle(rps, burst int) Option {
	return func(o *options) error {
		cfg := throttle.Config{RPS: rps, Burst: burst}
		if err := cfg.Validate(); err != nil {
			return err
		}
		o.throttle = &cfg
		return nil
	}
}

// WithNoFollowRedirects prevents the [Client] from following HTTP redirects.
func WithNoFollowRedirects() Option {
	return func(o *options) error {
		o.noFollowRedirects = true
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		o.logger = logger
		return nil
	}
}

// WithCodec replaces the JSON codec used to encode request bodies and
// decode responses.
func WithCodec(codec Codec) Option {
	return func(o *options) error {
		if codec == nil {
			return errors.New("codec must not be nil")
		}
		o.codec = codec
		return nil
	}
}

// WithJSONNumber makes the default codec decode numbers as
// [encoding/json.Number] instead of float64. Ignored with [WithCodec].
func WithJSONNumber() Option {
	return func(o *options) error {
		o.useJSONNumber = true
		return nil
	}
}

// WithTracer opens an OpenTelemetry client span for every request.
func WithTracer(tp trace.TracerProvider) Option {
	return func(o *options) error {
		if tp == nil {
			return errors.New("tracer provider must not be nil")
		}
		o.tracerProvider = tp
		return nil
	}
}

// WithRequestID stamps every request with a uuid in the given header.
func WithRequestID(header string) Option {
	return func(o *options) error {
		if header == "" {
			return errors.New("request id header must not be empty")
		}
		o.requestIDHeader = header
		return nil
	}
}

// WithMaxInFlight caps how many async requests run at once.
// Zero, the default, means unlimited.
func WithMaxInFlight(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return errors.New("max in flight must not be negative")
		}
		o.maxInFlight = n
		return nil
	}
}

// userAgent is an http.RoundTripper, enabling the persistent User-Agent header.
type userAgent struct {
	value string
	base  http.RoundTripper
}

func (ua userAgent) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	cpy.Header.Set("User-Agent", ua.value)
	return ua.base.RoundTrip(cpy)
}
