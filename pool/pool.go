// Package pool provides the default Runner: a bounded worker pool that
// executes backend units of work on their own goroutines.
//
// The pool accepts the Priority attached to each unit but does not reorder
// by it; the hint stays opaque here, as it does everywhere else in the
// module. Schedulers that do interpret priority can replace the pool by
// implementing afile.Runner.
package pool

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"

	afile "github.com/drewcrawford/async-file"
)

// Pool is a bounded Runner. The zero value is not usable; build one with New.
type Pool struct {
	sem *semaphore.Weighted
	wg  sync.WaitGroup
}

// Option configures a Pool.
type Option func(*config)

type config struct {
	workers int
}

// WithWorkers caps the number of units executing at once. The default is
// runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// New builds a pool.
func New(opts ...Option) *Pool {
	cfg := config{workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Pool{sem: semaphore.NewWeighted(int64(cfg.workers))}
}

// Run implements afile.Runner. Admission blocks while the pool is full; if
// ctx expires before a worker slot frees up, fn was never run and the ctx
// error is returned. Once Run returns nil, fn executes exactly once no matter
// what the submitter does afterwards.
func (p *Pool) Run(ctx context.Context, _ afile.Priority, fn func()) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("pool: schedule: %w", err)
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.sem.Release(1)
		fn()
	}()
	return nil
}

// Wait blocks until every unit accepted so far has finished. Useful in tests
// and during shutdown.
func (p *Pool) Wait() { p.wg.Wait() }
