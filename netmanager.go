// Package netmanager exposes the client builder.
//
// Most callers only need [NewClient]; the full API lives in the client
// package.
package netmanager

import (
	"github.com/adamwoolhether/netmanager/client"
)

// NewClient instantiates a new *client.Client for baseURL with the
// provided options. If not specified, a fresh http.Client over
// http.DefaultTransport and a 10s timeout are used.
func NewClient(baseURL string, opts ...client.Option) (*client.Client, error) {
	return client.Build(baseURL, opts...)
}
