package dispatch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrShutdown is returned for work submitted after [Queue.Shutdown].
var ErrShutdown = errors.New("dispatch queue shut down")

// WorkFunc is the signature for async work.
type WorkFunc func(ctx context.Context) error

// Queue tracks in-flight work and limits its concurrency.
type Queue struct {
	wg       sync.WaitGroup
	mu       sync.Mutex
	sem      chan struct{}
	shutdown atomic.Bool
	errs     []error
}

// New creates a Queue with the given concurrency limit.
// If maxInFlight <= 0, concurrency is unlimited.
func New(maxInFlight int) *Queue {
	q := &Queue{}
	if maxInFlight > 0 {
		q.sem = make(chan struct{}, maxInFlight)
	}
	return q
}

// Go launches fn in a new goroutine managed by the queue
// and returns a Task for tracking it.
func (q *Queue) Go(ctx context.Context, fn WorkFunc) *Task {
	t := &Task{done: make(chan struct{})}

	q.wg.Add(1)
	go func() {
		defer func() {
			close(t.done)
			q.wg.Done()
		}()

		if q.shutdown.Load() {
			t.err = ErrShutdown
			q.record(t.err)
			return
		}

		if q.sem != nil {
			select {
			case q.sem <- struct{}{}:
				defer func() {
					<-q.sem
				}()
			case <-ctx.Done():
				t.err = ctx.Err()
				q.record(t.err)
				return
			}
		}

		t.started = true
		t.err = fn(ctx)
		if t.err != nil {
			q.record(t.err)
		}
	}()

	return t
}

// Wait blocks until all work in the queue completes.
// Returns all recorded errors joined via errors.Join.
func (q *Queue) Wait() error {
	q.wg.Wait()

	q.mu.Lock()
	defer q.mu.Unlock()

	return errors.Join(q.errs...)
}

// Shutdown prevents new work from executing in this queue.
// Work that already started runs to completion.
func (q *Queue) Shutdown() {
	q.shutdown.Store(true)
}

func (q *Queue) record(err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.errs = append(q.errs, err)
}

// Task is a single unit of dispatched work.
type Task struct {
	done    chan struct{}
	started bool
	err     error
}

// Done returns a channel that is closed when the task completes.
func (t *Task) Done() <-chan struct{} { return t.done }

// Err blocks until the task completes and returns its error.
func (t *Task) Err() error {
	<-t.done
	return t.err
}

// Started blocks until the task completes and reports whether its
// WorkFunc ran. It is false when the queue rejected the work.
func (t *Task) Started() bool {
	<-t.done
	return t.started
}
