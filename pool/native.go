package pool

import (
	"sync"
	"sync/atomic"

	"github.com/baxromumarov/parx/params"
)

// Native is a pool that starts a fresh goroutine for every spawned closure.
// Goroutines are never reused across scopes.
//
// The zero value is ready to use and reports the host's available
// parallelism as its maximum.
type Native struct {
	maxThreads int

	totalSpawned atomic.Int64
	activeTasks  atomic.Int64
}

var _ SharedPool = (*Native)(nil)

// NewNative returns a Native pool reporting n threads. Zero means the
// host's available parallelism. It panics if n is negative.
func NewNative(n int) *Native {
	if n < 0 {
		panic("parx: NewNative requires n >= 0")
	}
	return &Native{maxThreads: n}
}

// MaxThreads implements ThreadPool.
func (p *Native) MaxThreads() int {
	if p.maxThreads > 0 {
		return p.maxThreads
	}
	return params.AvailableParallelism()
}

// ConcurrentScopes implements SharedPool.
func (p *Native) ConcurrentScopes() {}

// Run implements ThreadPool.
func (p *Native) Run(fn func(s Scope)) {
	sc := &nativeScope{p: p}
	sc.open.Store(true)

	defer func() {
		// Capture a panic from fn before joining.
		runPanic := recover()

		sc.open.Store(false)
		sc.wg.Wait()

		// Panics of the caller take priority over worker panics.
		if runPanic != nil {
			panic(runPanic)
		}
		sc.panics.rethrow()
	}()

	fn(sc)
}

// TotalSpawned returns the number of closures spawned over the pool's lifetime.
func (p *Native) TotalSpawned() int64 {
	return p.totalSpawned.Load()
}

// ActiveTasks returns the number of closures currently running.
func (p *Native) ActiveTasks() int64 {
	return p.activeTasks.Load()
}

type nativeScope struct {
	p      *Native
	wg     sync.WaitGroup
	open   atomic.Bool
	panics panicSlot
}

func (s *nativeScope) Spawn(work func()) {
	// Check open BEFORE wg.Add to avoid racing with Run's wg.Wait().
	if !s.open.Load() {
		panic("parx: Spawn called after scope shutdown")
	}

	s.wg.Add(1)
	s.p.totalSpawned.Add(1)

	go func() {
		defer s.wg.Done()

		s.p.activeTasks.Add(1)
		defer s.p.activeTasks.Add(-1)

		s.panics.guard(work)
	}()
}
