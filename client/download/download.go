package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Handle copies body into destPath in ChunkSize pieces, calling report
// after each chunk is written. It stops at end of data. Failures are
// returned, never reported.
func Handle(ctx context.Context, body io.Reader, contentLength int64, destPath string, logger *slog.Logger, report ReportFunc, optFns ...Option) error {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return fmt.Errorf("applying option: %w", err)
		}
	}

	if destPath == "" {
		return errors.New("destPath must not be empty")
	}

	if report == nil {
		report = func(Progress) {}
	}

	if opts.skipExisting {
		if _, err := os.Stat(destPath); err == nil {
			logger.Info("skipping existing file", "path", destPath)
			return nil
		}
	}

	file, err := open(destPath, opts.atomic)
	if err != nil {
		return err
	}

	var successful bool
	defer func() {
		if err := file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			logger.Error("defer closing download file", "path", file.Name(), "error", err)
		}
		if opts.atomic && !successful {
			if err := os.Remove(file.Name()); err != nil {
				logger.Error("failed to remove temp file", "path", file.Name(), "error", err)
			}
		}
	}()

	var writer io.Writer = file
	if opts.checksum != nil {
		writer = io.MultiWriter(writer, opts.checksum)
	}

	if opts.progressLog {
		writer = &progressLogger{
			w:         writer,
			logger:    logger,
			destPath:  destPath,
			total:     contentLength,
			startTime: time.Now(),
		}
	}

	n, err := copyChunks(&contextReader{ctx: ctx, r: body}, writer, contentLength, report)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", ErrDownloadCancelled, err)
		}

		return err
	}

	if contentLength >= 0 && n != contentLength {
		return &Error{
			Err:    ErrContentLengthMismatch,
			Detail: fmt.Sprintf("expected %d bytes, got %d", contentLength, n),
		}
	}

	if err := opts.checksum.Verify(); err != nil {
		return err
	}

	if opts.atomic {
		if err := file.Sync(); err != nil {
			return fmt.Errorf("syncing temp file: %w", err)
		}
		if err := file.Close(); err != nil {
			return fmt.Errorf("closing temp file: %w", err)
		}
		if err := os.Rename(file.Name(), destPath); err != nil {
			return fmt.Errorf("renaming temp file: %w", err)
		}
	}

	successful = true

	return nil
}

func open(destPath string, atomic bool) (*os.File, error) {
	if atomic {
		file, err := os.CreateTemp(filepath.Dir(destPath), ".netmanager-dl-*")
		if err != nil {
			return nil, fmt.Errorf("creating temp file: %w", err)
		}

		return file, nil
	}

	file, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening destination: %w", err)
	}

	return file, nil
}

// copyChunks reads src ChunkSize bytes at a time. io.Copy is avoided
// because *os.File implements io.ReaderFrom, which would hide chunk
// boundaries from report.
func copyChunks(src io.Reader, dst io.Writer, total int64, report ReportFunc) (int64, error) {
	buf := make([]byte, ChunkSize)

	var written int64
	for {
		nr, rerr := src.Read(buf)
		if nr > 0 {
			nw, werr := dst.Write(buf[:nr])
			written += int64(nw)
			if werr != nil {
				return written, fmt.Errorf("writing chunk: %w", werr)
			}
			if nw != nr {
				return written, fmt.Errorf("writing chunk: %w", io.ErrShortWrite)
			}

			report(Progress{Chunk: nw, Written: written, Total: total})
		}

		if errors.Is(rerr, io.EOF) {
			return written, nil
		}
		if rerr != nil {
			return written, fmt.Errorf("reading body: %w", rerr)
		}
	}
}
