package client

import (
	"slices"
	"sync"
	"time"
)

// Shared is a slot holding one lazily built Client. Every call to
// [Shared.Client] overwrites that client's base URL and timeout, so
// callers must treat it as mutable shared state, not a snapshot.
//
// Create one in the composition root and pass it where needed; tests
// can hand in a Shared built with a fake transport.
type Shared struct {
	opts []Option

	mu sync.Mutex
	c  *Client
}

// NewShared returns an empty slot. opts are applied when the client is
// first built.
func NewShared(opts ...Option) *Shared {
	return &Shared{opts: opts}
}

// Client returns the slot's client, building it on first use, after
// pointing it at baseURL with the given timeout.
func (s *Shared) Client(baseURL string, timeout time.Duration) (*Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.c == nil {
		c, err := Build(baseURL, append(slices.Clone(s.opts), WithTimeout(timeout))...)
		if err != nil {
			return nil, err
		}
		s.c = c
		return c, nil
	}

	if err := s.c.Configure(baseURL, timeout); err != nil {
		return nil, err
	}

	return s.c, nil
}
