package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Get issues a GET to path?query and decodes the body into T.
//
// The status code is not consulted: a body that decodes is a success
// whatever the status, and one that does not is reported as a
// *DecodeError carrying the raw body.
func Get[T any](ctx context.Context, c *Client, path, query string) Result[T] {
	return send[T](ctx, c, http.MethodGet, c.BuildURL(path, query), nil, false)
}

// Post sends body as JSON to path and decodes the response into T.
// See [Put] for body encoding and error rules.
func Post[T any](ctx context.Context, c *Client, path string, body any) Result[T] {
	return write[T](ctx, c, http.MethodPost, path, body)
}

// Put sends body as JSON to path and decodes the response into T.
//
// A string, []byte or json.RawMessage body is sent verbatim; any other
// value is encoded with the client's codec. A non-2xx status is always
// reported as a *StatusError, with Value still set when the body decodes.
func Put[T any](ctx context.Context, c *Client, path string, body any) Result[T] {
	return write[T](ctx, c, http.MethodPut, path, body)
}

// Delete sends body as JSON to path and decodes the response into T.
// See [Put] for body encoding and error rules.
func Delete[T any](ctx context.Context, c *Client, path string, body any) Result[T] {
	return write[T](ctx, c, http.MethodDelete, path, body)
}

// GetAsync runs [Get] on its own goroutine. The channel receives exactly
// one Result and is then closed.
func GetAsync[T any](ctx context.Context, c *Client, path, query string) <-chan Result[T] {
	return dispatchResult(ctx, c, func(ctx context.Context) Result[T] {
		return Get[T](ctx, c, path, query)
	})
}

// PostAsync runs [Post] on its own goroutine.
func PostAsync[T any](ctx context.Context, c *Client, path string, body any) <-chan Result[T] {
	return dispatchResult(ctx, c, func(ctx context.Context) Result[T] {
		return Post[T](ctx, c, path, body)
	})
}

// PutAsync runs [Put] on its own goroutine.
func PutAsync[T any](ctx context.Context, c *Client, path string, body any) <-chan Result[T] {
	return dispatchResult(ctx, c, func(ctx context.Context) Result[T] {
		return Put[T](ctx, c, path, body)
	})
}

// DeleteAsync runs [Delete] on its own goroutine.
func DeleteAsync[T any](ctx context.Context, c *Client, path string, body any) <-chan Result[T] {
	return dispatchResult(ctx, c, func(ctx context.Context) Result[T] {
		return Delete[T](ctx, c, path, body)
	})
}

// Then calls fn with the single Result delivered on ch, from a new
// goroutine. fn runs exactly once.
func Then[T any](ch <-chan Result[T], fn func(Result[T])) {
	go func() {
		fn(<-ch)
	}()
}

func write[T any](ctx context.Context, c *Client, method, path string, body any) Result[T] {
	payload, err := encode(c.codec, body)
	if err != nil {
		return Result[T]{Err: &TransportError{Err: err}}
	}

	if payload == nil {
		payload = []byte{}
	}

	return send[T](ctx, c, method, c.BuildURL(path, ""), payload, true)
}

func send[T any](ctx context.Context, c *Client, method, target string, payload []byte, checkStatus bool) Result[T] {
	var res Result[T]
	var raw []byte

	err := c.exec(ctx, method, target, payload, func(resp *http.Response) error {
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading body: %w", err)
		}

		raw = b
		res.StatusCode = resp.StatusCode
		res.Status = statusMessage(resp)
		res.Body = string(b)

		return nil
	})
	if err != nil {
		var te *TransportError
		if !errors.As(err, &te) {
			te = &TransportError{Err: err}
		}

		c.logger.Error("request failed", "method", method, "url", redactTarget(target), "error", te)

		return Result[T]{Err: te}
	}

	res.Value = decode[T](c.codec, raw, c.logger)

	switch {
	case checkStatus && !successful(res.StatusCode):
		res.Err = &StatusError{StatusCode: res.StatusCode, Message: res.Status, Body: res.Body}
	case res.Value == nil && requested[T]():
		res.Err = &DecodeError{Body: res.Body}
	}

	return res
}

// dispatchResult runs fn on the client's queue and delivers its Result.
// Work the queue rejects still yields one Result, carrying the reason
// as a *TransportError.
func dispatchResult[T any](ctx context.Context, c *Client, fn func(context.Context) Result[T]) <-chan Result[T] {
	out := make(chan Result[T], 1)

	var res Result[T]
	task := c.queue.Go(ctx, func(ctx context.Context) error {
		res = fn(ctx)
		var te *TransportError
		if errors.As(res.Err, &te) {
			return te
		}
		return nil
	})

	go func() {
		defer close(out)

		if err := task.Err(); err != nil && !task.Started() {
			out <- Result[T]{Err: &TransportError{Err: err}}
			return
		}

		out <- res
	}()

	return out
}
