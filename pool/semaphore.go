package pool

import (
	"context"
	"sync/atomic"
)

// Semaphore is a counting semaphore for bounding concurrency.
// It is context-aware: Acquire unblocks if the context is cancelled.
type Semaphore struct {
	ch       chan struct{}
	acquired atomic.Int64
}

// NewSemaphore creates a semaphore with the given capacity.
// Panics if n <= 0.
func NewSemaphore(n int) *Semaphore {
	if n <= 0 {
		panic("parx: NewSemaphore requires n > 0")
	}
	return &Semaphore{ch: make(chan struct{}, n)}
}

// Acquire blocks until a slot is available or ctx is cancelled.
// Returns ctx.Err() on cancellation, nil on success.
func (s *Semaphore) Acquire(ctx context.Context) error {
	// A cancelled context never acquires, even when a slot is free.
	if ctx.Err() != nil {
		return ctx.Err()
	}
	select {
	case s.ch <- struct{}{}:
		s.acquired.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire attempts to acquire a slot without blocking.
func (s *Semaphore) TryAcquire() bool {
	select {
	case s.ch <- struct{}{}:
		s.acquired.Add(1)
		return true
	default:
		return false
	}
}

// Release releases a slot. Panics if more slots are released than acquired.
func (s *Semaphore) Release() {
	if s.acquired.Add(-1) < 0 {
		s.acquired.Add(1)
		panic("parx: Semaphore.Release called without matching Acquire")
	}
	<-s.ch
}

// Available returns the number of free slots. The value may be stale in
// concurrent contexts.
func (s *Semaphore) Available() int {
	return cap(s.ch) - len(s.ch)
}

// Exclusive gives a pool that does not support concurrent scopes the
// SharedPool capability by letting one scope in at a time.
type Exclusive struct {
	ThreadPool
	sem *Semaphore
}

var _ SharedPool = (*Exclusive)(nil)

// NewExclusive wraps p.
func NewExclusive(p ThreadPool) *Exclusive {
	return &Exclusive{ThreadPool: p, sem: NewSemaphore(1)}
}

// ConcurrentScopes implements SharedPool.
func (e *Exclusive) ConcurrentScopes() {}

// Run implements ThreadPool. It waits until no other scope is open.
func (e *Exclusive) Run(fn func(s Scope)) {
	_ = e.RunContext(context.Background(), fn)
}

// RunContext is Run that gives up waiting for the pool when ctx is done.
// fn is not called in that case and ctx.Err() is returned.
func (e *Exclusive) RunContext(ctx context.Context, fn func(s Scope)) error {
	if err := e.sem.Acquire(ctx); err != nil {
		return err
	}
	defer e.sem.Release()

	e.ThreadPool.Run(fn)
	return nil
}

// Share returns p itself when it already allows concurrent scopes and an
// [Exclusive] wrapper otherwise.
func Share(p ThreadPool) SharedPool {
	if sp, ok := p.(SharedPool); ok {
		return sp
	}
	return NewExclusive(p)
}

// RunContext opens a scope on p unless ctx is already done. For pools that
// wait for exclusive access, the wait itself is cancelled by ctx.
func RunContext(ctx context.Context, p ThreadPool, fn func(s Scope)) error {
	if rc, ok := p.(interface {
		RunContext(context.Context, func(Scope)) error
	}); ok {
		return rc.RunContext(ctx, fn)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	p.Run(fn)
	return nil
}
