package dispatch

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Requester starts one goroutine per Submit. There is no queueing and no limit on the
// amount of concurrent work.
type Requester struct {
	queue
	inflight sync.WaitGroup
	log      *zap.Logger
}

// NewRequester returns a thread-per-request dispatcher. log may be nil.
func NewRequester(log *zap.Logger) *Requester {
	if log == nil {
		log = zap.NewNop()
	}
	return &Requester{log: log}
}

// Submit implements Dispatcher.
func (r *Requester) Submit(ctx context.Context, work func() (any, error), onComplete func(any)) {
	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()
		v, err := run(work)
		if err != nil {
			r.log.Debug("work failed", zap.Error(err))
		}
		r.push(result{ctx: ctx, onComplete: onComplete, value: v, err: err})
	}()
}

// Drain implements Dispatcher.
func (r *Requester) Drain() error {
	return r.drain()
}

// Pending returns the number of finished results waiting for Drain.
func (r *Requester) Pending() int {
	return r.len()
}

// Wait blocks until all submitted work has produced a result.
func (r *Requester) Wait() {
	r.inflight.Wait()
}
