package client

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/adamwoolhether/netmanager/client/download"
)

// contentTypeJSON is sent with every write method.
const contentTypeJSON = "application/json; charset=utf-8"

const defaultTimeout = 10 * time.Second

var (
	// ErrTransport is the sentinel wrapped by [TransportError].
	ErrTransport = errors.New("transport failure")
	// ErrStatus is the sentinel wrapped by [StatusError].
	ErrStatus = errors.New("unsuccessful status")
	// ErrDecode is the sentinel wrapped by [DecodeError].
	ErrDecode = errors.New("undecodable body")
)

// TransportError reports a request that never produced a response:
// refused connections, DNS failures, timeouts, protocol errors.
// Its message is the underlying transport message.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// StatusError is returned by the write methods when the server
// responds outside the 2xx range. Its message is the status message,
// e.g. "Not Found", not the body.
type StatusError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *StatusError) Error() string {
	return e.Message
}

func (e *StatusError) Unwrap() error {
	return ErrStatus
}

// DecodeError reports a body that could not be turned into the requested
// type. Its message is the raw body, verbatim, so a plain-text error
// payload from the server reads back unchanged.
//
// Callers cannot tell a malformed JSON body from a plain-text error body
// by message alone; use errors.As against *DecodeError to at least tell
// it apart from transport and status failures.
type DecodeError struct {
	Body string
}

func (e *DecodeError) Error() string {
	return e.Body
}

func (e *DecodeError) Unwrap() error {
	return ErrDecode
}

// NoContent requests that the response body not be decoded.
type NoContent struct{}

// Result is the outcome of a single request.
//
// Value is nil when nothing was decoded. Err is nil on success and on
// requests made with [NoContent]. StatusCode, Status and Body are zero
// when the transport failed.
type Result[T any] struct {
	Value      *T
	Err        error
	StatusCode int
	Status     string
	Body       string
}

// Message returns Err's message, or "" when Err is nil.
func (r Result[T]) Message() string {
	if r.Err == nil {
		return ""
	}

	return r.Err.Error()
}

// OK reports whether the request completed without error.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

func (r Result[T]) String() string {
	if r.Err != nil {
		return fmt.Sprintf("error: %s", r.Err)
	}

	return fmt.Sprintf("%d %s", r.StatusCode, r.Status)
}

// Progress is a single download event; see [download.Progress].
type Progress = download.Progress

// DownloadOption configures [Client.Download].
type DownloadOption = download.Option

// statusMessage returns the reason phrase of resp's status line,
// e.g. "Not Found" for "404 Not Found".
func statusMessage(resp *http.Response) string {
	msg := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	return msg
}

func successful(code int) bool {
	return code >= 200 && code < 300
}
