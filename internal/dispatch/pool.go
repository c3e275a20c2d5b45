package dispatch

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"
)

// Pool runs work on a fixed number of workers. Work whose context is cancelled before a
// worker picks it up is skipped, so chunks that scrolled out of range do not hold a
// worker slot.
type Pool struct {
	queue
	workers int
	pool    pond.Pool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.RWMutex // held by Submit so Shutdown never stops workers mid-submit
	stop    sync.Once
	log     *zap.Logger

	queued  atomic.Int64
	skipped atomic.Int64
}

// NewPool creates a pool with the given number of workers, defaulting to the CPU count.
func NewPool(workers int, log *zap.Logger) *Pool {
	if workers <= 0 {
		workers = max(runtime.NumCPU(), 1)
	}
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workers: workers,
		pool:    pond.NewPool(workers),
		ctx:     ctx,
		cancel:  cancel,
		log:     log,
	}
}

// Submit implements Dispatcher. Submitting after Shutdown is a no-op.
func (p *Pool) Submit(ctx context.Context, work func() (any, error), onComplete func(any)) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.ctx.Err() != nil {
		return
	}
	p.wg.Add(1)
	p.queued.Add(1)
	err := p.pool.Go(func() {
		defer p.wg.Done()
		p.queued.Add(-1)

		if ctx.Err() != nil || p.ctx.Err() != nil {
			p.skipped.Add(1)
			return
		}
		v, err := run(work)
		if err != nil {
			p.log.Debug("work failed", zap.Error(err))
		}
		p.push(result{ctx: ctx, onComplete: onComplete, value: v, err: err})
	})
	if err != nil {
		// The task will never run.
		p.queued.Add(-1)
		p.skipped.Add(1)
		p.wg.Done()
	}
}

// Drain implements Dispatcher.
func (p *Pool) Drain() error {
	return p.drain()
}

// Workers returns the configured concurrency.
func (p *Pool) Workers() int { return p.workers }

// QueueLength returns the number of submitted tasks no worker has started yet.
func (p *Pool) QueueLength() int { return int(p.queued.Load()) }

// Skipped returns how many tasks were dropped because their context ended first.
func (p *Pool) Skipped() int { return int(p.skipped.Load()) }

// Wait blocks until every submitted task has run or been skipped.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Shutdown skips queued work, waits for running work and stops the workers. Later calls
// are no-ops.
func (p *Pool) Shutdown() {
	p.stop.Do(func() {
		p.mu.Lock()
		p.cancel()
		p.mu.Unlock()
		p.pool.StopAndWait()
		p.log.Debug("dispatch pool stopped", zap.Int("skipped", p.Skipped()))
	})
}
