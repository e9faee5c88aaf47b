// Package throttle provides an [http.RoundTripper] that rate-limits
// outbound requests with a token bucket from [golang.org/x/time/rate].
//
//	rt, err := throttle.NewRoundTripper(
//		throttle.Config{RPS: 10, Burst: 5},
//		func() *slog.Logger { return slog.Default() },
//		http.DefaultTransport,
//	)
//	httpClient := &http.Client{Transport: rt}
//
// When the bucket is empty, a request blocks until a token frees up
// or its context ends.
package throttle
