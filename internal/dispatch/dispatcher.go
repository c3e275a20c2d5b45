// Package dispatch runs generation work in the background and hands results back to
// a single consuming goroutine.
//
// Work never touches caller state. Its result is queued and the completion callback
// only runs inside Drain, on whichever goroutine calls it, in the order results arrived.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Dispatcher executes work off the calling goroutine and delivers results via Drain.
type Dispatcher interface {
	// Submit starts work in the background. onComplete receives its value during a later
	// Drain. Results whose ctx is done by then are discarded.
	Submit(ctx context.Context, work func() (any, error), onComplete func(any))
	// Drain runs the callbacks of every result queued so far and returns the errors of
	// failed work joined together.
	Drain() error
}

// Request is a typed Submit.
func Request[T any](d Dispatcher, ctx context.Context, work func() (T, error), onComplete func(T)) {
	d.Submit(ctx,
		func() (any, error) { return work() },
		func(v any) { onComplete(v.(T)) },
	)
}

type result struct {
	ctx        context.Context
	onComplete func(any)
	value      any
	err        error
}

// queue is the only state shared between workers and the consumer.
type queue struct {
	mu      sync.Mutex
	pending []result
}

func (q *queue) push(r result) {
	q.mu.Lock()
	q.pending = append(q.pending, r)
	q.mu.Unlock()
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// drain takes the pending list under the lock and runs callbacks after releasing it,
// so a callback may Submit more work.
func (q *queue) drain() error {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	var errs []error
	for _, r := range batch {
		if r.ctx.Err() != nil {
			continue
		}
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		r.onComplete(r.value)
	}
	return errors.Join(errs...)
}

// run calls work and turns a panic into an error.
func run(work func() (any, error)) (v any, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("dispatch: work panicked: %v", p)
		}
	}()
	return work()
}
