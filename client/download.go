package client

import (
	"context"
	"hash"
	"net/http"

	"github.com/adamwoolhether/netmanager/client/download"
)

// progressBuffer bounds how far a download may run ahead of a slow
// DownloadAsync consumer.
const progressBuffer = 16

// Download GETs path?query and writes the body to destPath, calling fn
// after every chunk written. On failure fn receives one final Progress
// carrying the error, which is also returned. A partially written
// destPath is left in place unless [WithAtomicRename] is given.
//
// The status code is not checked; whatever body the server sends is
// what lands on disk.
func (c *Client) Download(ctx context.Context, path, query, destPath string, fn func(Progress), opts ...DownloadOption) error {
	if fn == nil {
		fn = func(Progress) {}
	}

	target := c.BuildURL(path, query)

	err := c.exec(ctx, http.MethodGet, target, nil, func(resp *http.Response) error {
		dctx := ctx
		if resp.Request != nil {
			dctx = resp.Request.Context()
		}

		return download.Handle(dctx, resp.Body, resp.ContentLength, destPath, c.logger, fn, opts...)
	})
	if err != nil {
		c.logger.Error("download failed", "url", redactTarget(target), "path", destPath, "error", err)
		fn(Progress{Err: err})
		return err
	}

	return nil
}

// DownloadAsync runs [Client.Download] on its own goroutine. The channel
// yields each Progress and is closed when the transfer ends; a failed
// transfer ends with one Progress carrying Err. Once ctx is done,
// events that do not fit in the buffer are dropped, so a caller may
// cancel and stop reading.
func (c *Client) DownloadAsync(ctx context.Context, path, query, destPath string, opts ...DownloadOption) <-chan Progress {
	out := make(chan Progress, progressBuffer)

	task := c.queue.Go(ctx, func(ctx context.Context) error {
		return c.Download(ctx, path, query, destPath, func(p Progress) {
			deliver(ctx, out, p)
		}, opts...)
	})

	go func() {
		defer close(out)

		if err := task.Err(); err != nil && !task.Started() {
			out <- Progress{Err: err}
		}
	}()

	return out
}

// deliver sends p, giving up only when out is full and ctx is done.
func deliver(ctx context.Context, out chan<- Progress, p Progress) {
	select {
	case out <- p:
		return
	default:
	}

	select {
	case out <- p:
	case <-ctx.Done():
	}
}

// WithChecksum verifies the downloaded bytes against the hex-encoded
// expected digest of h.
func WithChecksum(h hash.Hash, expected string) DownloadOption {
	return download.WithChecksum(h, expected)
}

// WithProgressLog logs transfer progress through the client's logger.
func WithProgressLog() DownloadOption { return download.WithProgressLog() }

// WithSkipExisting makes a download a no-op when destPath already exists.
func WithSkipExisting() DownloadOption { return download.WithSkipExisting() }

// WithAtomicRename streams to a temp file and renames it over destPath
// only on success.
func WithAtomicRename() DownloadOption { return download.WithAtomicRename() }
