// Package worker runs bounded background jobs for the UI goroutine.
package worker

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Pool is a bounded set of goroutines. Submission never blocks: TryGo
// reports false when every slot is busy and the caller retries later.
type Pool struct {
	group  *errgroup.Group
	ctx    context.Context
	closed atomic.Bool

	busy atomic.Int64
}

// New returns a pool that runs at most size jobs at once. Jobs observe ctx.
func New(ctx context.Context, size int) *Pool {
	if size < 1 {
		size = 1
	}
	g := &errgroup.Group{}
	g.SetLimit(size)
	return &Pool{group: g, ctx: ctx}
}

// TryGo starts job if a slot is free. Job errors are not collected; jobs
// record their own failures.
func (p *Pool) TryGo(job func(ctx context.Context)) bool {
	if p.closed.Load() {
		return false
	}
	p.busy.Add(1)
	ok := p.group.TryGo(func() error {
		defer p.busy.Add(-1)
		job(p.ctx)
		return nil
	})
	if !ok {
		p.busy.Add(-1)
	}
	return ok
}

// Busy returns the number of jobs started but not yet finished.
func (p *Pool) Busy() int {
	return int(p.busy.Load())
}

// Close stops accepting jobs and waits for the running ones.
func (p *Pool) Close() {
	p.closed.Store(true)
	_ = p.group.Wait()
}
