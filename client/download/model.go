package download

import (
	"errors"
	"fmt"
	"strconv"
)

// ChunkSize is the number of bytes read from the body per write.
const ChunkSize = 1024

var (
	ErrContentLengthMismatch = errors.New("content length mismatch")
	ErrChecksumMismatch      = errors.New("checksum mismatch")
	ErrDownloadCancelled     = errors.New("download cancelled")
)

// Error wraps a sentinel error with additional detail.
type Error struct {
	Detail string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Progress is a single download event. A transfer produces zero or more
// chunk events and, on failure, one final event carrying Err.
//
// Total is -1 when the server did not report a content length.
type Progress struct {
	Chunk   int
	Written int64
	Total   int64
	Err     error
}

// String renders the event as "<chunk>/<total>", or the error message
// for a failure event.
func (p Progress) String() string {
	if p.Err != nil {
		return p.Err.Error()
	}

	return strconv.Itoa(p.Chunk) + "/" + strconv.FormatInt(p.Total, 10)
}

// ReportFunc receives download events.
type ReportFunc func(Progress)
