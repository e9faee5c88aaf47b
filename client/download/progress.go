package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// progressLogger is an io.Writer that logs transfer progress
// at most once per second.
type progressLogger struct {
	w           io.Writer
	logger      *slog.Logger
	destPath    string
	transferred int64
	total       int64
	startTime   time.Time
	lastLog     time.Time
}

func (pl *progressLogger) Write(p []byte) (int, error) {
	n, err := pl.w.Write(p)
	pl.transferred += int64(n)

	if time.Since(pl.lastLog) >= time.Second {
		pl.lastLog = time.Now()
		pl.log("downloading")
	}

	if pl.total >= 0 && pl.transferred == pl.total {
		pl.log("download complete")
	}

	return n, err
}

func (pl *progressLogger) log(msg string) {
	elapsed := time.Since(pl.startTime)

	progress := "unknown"
	if pl.total > 0 {
		progress = fmt.Sprintf("%.1f%%", float64(pl.transferred)/float64(pl.total)*100)
	}

	pl.logger.Info(msg,
		"path", pl.destPath,
		"progress", progress,
		"elapsed", elapsed.Round(time.Millisecond),
		"transferred", pl.transferred,
		"total", pl.total,
		"mbps", fmt.Sprintf("%.2f", float64(pl.transferred)/elapsed.Seconds()/(1024*1024)),
	)
}

// contextReader stops a copy once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}

	return cr.r.Read(p)
}
