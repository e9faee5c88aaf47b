package download

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandle_Chunks(t *testing.T) {
	testCases := map[string]struct {
		size      int
		total     int64
		expChunks []int
	}{
		"empty": {
			size:      0,
			total:     0,
			expChunks: nil,
		},
		"singlePartial": {
			size:      10,
			total:     10,
			expChunks: []int{10},
		},
		"exactChunk": {
			size:      ChunkSize,
			total:     ChunkSize,
			expChunks: []int{ChunkSize},
		},
		"multiWithTail": {
			size:      2*ChunkSize + 100,
			total:     2*ChunkSize + 100,
			expChunks: []int{ChunkSize, ChunkSize, 100},
		},
		"unknownLength": {
			size:      ChunkSize + 1,
			total:     -1,
			expChunks: []int{ChunkSize, 1},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			body := bytes.Repeat([]byte("x"), tc.size)
			dest := filepath.Join(t.TempDir(), "out.bin")

			var events []Progress
			err := Handle(t.Context(), bytes.NewReader(body), tc.total, dest, discardLogger(), func(p Progress) {
				events = append(events, p)
			})
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}

			var chunks []int
			var last int64
			for _, e := range events {
				chunks = append(chunks, e.Chunk)
				if e.Written < last {
					t.Errorf("written went backwards: %d after %d", e.Written, last)
				}
				last = e.Written
				if e.Total != tc.total {
					t.Errorf("exp total %d, got %d", tc.total, e.Total)
				}
			}

			if diff := cmp.Diff(tc.expChunks, chunks); diff != "" {
				t.Errorf("chunk sizes mismatch (-want +got):\n%s", diff)
			}

			got, err := os.ReadFile(dest)
			if err != nil {
				t.Fatalf("reading destination: %v", err)
			}
			if !bytes.Equal(got, body) {
				t.Errorf("file contents mismatch; got %d bytes, want %d", len(got), len(body))
			}
		})
	}
}

func TestHandle_TruncatesExisting(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.txt")
	if err := os.WriteFile(dest, []byte("a much longer previous file body"), 0o644); err != nil {
		t.Fatalf("seeding destination: %v", err)
	}

	if err := Handle(t.Context(), strings.NewReader("short"), 5, dest, discardLogger(), nil); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading destination: %v", err)
	}
	if string(got) != "short" {
		t.Errorf("exp %q, got %q", "short", got)
	}
}

func TestHandle_ProgressString(t *testing.T) {
	testCases := map[string]struct {
		p   Progress
		exp string
	}{
		"known":   {p: Progress{Chunk: 1024, Written: 1024, Total: 4096}, exp: "1024/4096"},
		"unknown": {p: Progress{Chunk: 12, Written: 12, Total: -1}, exp: "12/-1"},
		"failure": {p: Progress{Err: errors.New("connection reset")}, exp: "connection reset"},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			if got := tc.p.String(); got != tc.exp {
				t.Errorf("exp %q, got %q", tc.exp, got)
			}
		})
	}
}

func TestHandle_Checksum(t *testing.T) {
	body := []byte("checksum test data")
	sum := sha256.Sum256(body)
	good := hex.EncodeToString(sum[:])

	testCases := map[string]struct {
		expected string
		err      error
	}{
		"match":    {expected: good},
		"mismatch": {expected: strings.Repeat("0", len(good)), err: ErrChecksumMismatch},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			dest := filepath.Join(t.TempDir(), "sum.bin")

			err := Handle(t.Context(), bytes.NewReader(body), int64(len(body)), dest, discardLogger(), nil,
				WithChecksum(sha256.New(), tc.expected),
			)
			if !errors.Is(err, tc.err) {
				t.Errorf("exp err %v, got: %v", tc.err, err)
			}
		})
	}
}

func TestHandle_ChecksumValidation(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "x")

	if err := Handle(t.Context(), strings.NewReader(""), 0, dest, discardLogger(), nil, WithChecksum(nil, "abc")); err == nil {
		t.Error("expected error for nil hash")
	}
	if err := Handle(t.Context(), strings.NewReader(""), 0, dest, discardLogger(), nil, WithChecksum(sha256.New(), "")); err == nil {
		t.Error("expected error for empty checksum")
	}
}

func TestHandle_ContentLengthMismatch(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "short.bin")

	err := Handle(t.Context(), strings.NewReader("abc"), 10, dest, discardLogger(), nil)
	if !errors.Is(err, ErrContentLengthMismatch) {
		t.Fatalf("exp ErrContentLengthMismatch, got: %v", err)
	}

	var dlErr *Error
	if !errors.As(err, &dlErr) {
		t.Fatalf("exp *Error, got %T", err)
	}
	if dlErr.Detail != "expected 10 bytes, got 3" {
		t.Errorf("unexpected detail: %q", dlErr.Detail)
	}
}

func TestHandle_AtomicRename(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "atomic.bin")

	err := Handle(t.Context(), strings.NewReader("abc"), 10, dest, discardLogger(), nil, WithAtomicRename())
	if err == nil {
		t.Fatal("expected content length error")
	}

	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Errorf("destination should not exist after failed atomic download, stat err: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected temp file cleanup, found %d entries", len(entries))
	}

	if err := Handle(t.Context(), strings.NewReader("abc"), 3, dest, discardLogger(), nil, WithAtomicRename()); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading destination: %v", err)
	}
	if string(got) != "abc" {
		t.Errorf("exp %q, got %q", "abc", got)
	}
}

func TestHandle_SkipExisting(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "exists.txt")
	if err := os.WriteFile(dest, []byte("original"), 0o644); err != nil {
		t.Fatalf("seeding destination: %v", err)
	}

	var called bool
	err := Handle(t.Context(), strings.NewReader("replacement"), 11, dest, discardLogger(), func(Progress) {
		called = true
	}, WithSkipExisting())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if called {
		t.Error("report should not be called for a skipped download")
	}

	got, _ := os.ReadFile(dest)
	if string(got) != "original" {
		t.Errorf("existing file was overwritten: %q", got)
	}
}

func TestHandle_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	dest := filepath.Join(t.TempDir(), "cancelled.bin")

	err := Handle(ctx, strings.NewReader("data"), 4, dest, discardLogger(), nil)
	if !errors.Is(err, ErrDownloadCancelled) {
		t.Errorf("exp ErrDownloadCancelled, got: %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("exp context.Canceled, got: %v", err)
	}
}

func TestHandle_EmptyDestPath(t *testing.T) {
	if err := Handle(t.Context(), strings.NewReader(""), 0, "", discardLogger(), nil); err == nil {
		t.Error("expected error for empty destination")
	}
}

func TestHandle_ProgressLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	body := bytes.Repeat([]byte("abcdefghij"), 300)
	dest := filepath.Join(t.TempDir(), "logged.bin")

	if err := Handle(t.Context(), bytes.NewReader(body), int64(len(body)), dest, logger, nil, WithProgressLog()); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if !strings.Contains(buf.String(), "download complete") {
		t.Errorf("expected completion log, got: %s", buf.String())
	}
}
