package download

import (
	"errors"
	"hash"
)

// Option defines optional settings for downloading files.
type Option func(*options) error

type options struct {
	checksum     *checksumVerifier
	progressLog  bool
	skipExisting bool
	atomic       bool
}

// WithChecksum enables checksum validation of the downloaded file.
// h is a hash.Hash instance (e.g. sha256.New()), and expected is the
// hex-encoded expected checksum string.
func WithChecksum(h hash.Hash, expected string) Option {
	return func(opts *options) error {
		if h == nil {
			return errors.New("hash must not be nil")
		}

		if expected == "" {
			return errors.New("expected checksum must not be empty")
		}

		opts.checksum = &checksumVerifier{hash: h, expected: expected}
		return nil
	}
}

// WithProgressLog logs transfer progress through the logger supplied
// to Handle, at most once per second.
func WithProgressLog() Option {
	return func(opts *options) error {
		opts.progressLog = true
		return nil
	}
}

// WithSkipExisting causes Handle to return nil immediately when
// the destination file already exists.
func WithSkipExisting() Option {
	return func(opts *options) error {
		opts.skipExisting = true
		return nil
	}
}

// WithAtomicRename streams into a temp file in the destination's
// directory and renames it over destPath only once the transfer
// succeeds. The temp file is removed on failure.
func WithAtomicRename() Option {
	return func(opts *options) error {
		opts.atomic = true
		return nil
	}
}
