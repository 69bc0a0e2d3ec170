package pool

import (
	"sync"
	"sync/atomic"
	"time"
)

// Fixed is a reusable worker pool. A fixed number of goroutines is started
// once and serves the scopes of any number of computations, so repeated
// computations do not pay for goroutine start-up.
//
// Scopes of a Fixed pool may be open concurrently. Work spawned from inside
// work running on the same Fixed pool can deadlock once every worker is
// waiting; nested computations should use a different pool.
type Fixed struct {
	tasks  chan func()
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
	stop   chan struct{}

	// Observability counters.
	submitted atomic.Int64
	completed atomic.Int64
	inline    atomic.Int64
	inFlight  atomic.Int64
	workers   int
}

var _ SharedPool = (*Fixed)(nil)

// FixedStats provides a point-in-time snapshot of pool activity.
type FixedStats struct {
	Submitted  int64 // closures handed to workers
	Completed  int64 // closures finished on workers
	Inline     int64 // closures run on the caller after Close
	InFlight   int64 // closures currently executing
	QueueDepth int   // closures waiting in the queue
	Workers    int   // worker count (fixed at creation)
}

// FixedOption configures a [Fixed] pool.
type FixedOption func(*fixedConfig)

type fixedConfig struct {
	queueSize       int
	onMetrics       func(FixedStats)
	metricsInterval time.Duration
}

// WithQueueSize sets the task queue buffer size. Default is n * 2.
func WithQueueSize(size int) FixedOption {
	return func(c *fixedConfig) {
		if size < 0 {
			panic("parx: WithQueueSize requires non-negative size")
		}
		c.queueSize = size
	}
}

// WithPoolMetrics registers a periodic pool metrics callback that fires
// every interval. The callback receives a snapshot of current pool counters.
//
// Panics if interval <= 0 or fn is nil.
func WithPoolMetrics(interval time.Duration, fn func(FixedStats)) FixedOption {
	if interval <= 0 {
		panic("parx: WithPoolMetrics requires interval > 0")
	}
	if fn == nil {
		panic("parx: WithPoolMetrics requires non-nil callback")
	}
	return func(c *fixedConfig) {
		c.onMetrics = fn
		c.metricsInterval = interval
	}
}

// NewFixed creates a pool with n worker goroutines.
// Workers start immediately and serve scopes until [Fixed.Close] is called.
// Panics if n <= 0.
func NewFixed(n int, opts ...FixedOption) *Fixed {
	if n <= 0 {
		panic("parx: NewFixed requires n > 0")
	}

	cfg := fixedConfig{queueSize: n * 2}
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Fixed{
		tasks:   make(chan func(), cfg.queueSize),
		stop:    make(chan struct{}),
		workers: n,
	}

	p.wg.Add(n)
	for range n {
		go p.worker()
	}

	if cfg.onMetrics != nil {
		go func() {
			ticker := time.NewTicker(cfg.metricsInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					cfg.onMetrics(p.Stats())
				case <-p.stop:
					return
				}
			}
		}()
	}

	return p
}

func (p *Fixed) worker() {
	defer p.wg.Done()
	for fn := range p.tasks {
		p.inFlight.Add(1)
		fn()
		p.inFlight.Add(-1)
		p.completed.Add(1)
	}
}

// MaxThreads implements ThreadPool.
func (p *Fixed) MaxThreads() int {
	return p.workers
}

// ConcurrentScopes implements SharedPool.
func (p *Fixed) ConcurrentScopes() {}

// Run implements ThreadPool. After [Fixed.Close], spawned work runs inline
// on the caller so that the scope contract still holds.
func (p *Fixed) Run(fn func(s Scope)) {
	sc := &fixedScope{p: p}

	defer func() {
		runPanic := recover()
		sc.wg.Wait()
		if runPanic != nil {
			panic(runPanic)
		}
		sc.panics.rethrow()
	}()

	fn(sc)
}

// submit hands work to a worker. It reports false when the pool is closed.
func (p *Fixed) submit(work func()) bool {
	// The read lock keeps Close from closing the channel while a send is
	// in progress.
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return false
	}
	p.tasks <- work
	p.submitted.Add(1)
	return true
}

// Stats returns a point-in-time snapshot of pool activity.
// Safe to call concurrently.
func (p *Fixed) Stats() FixedStats {
	return FixedStats{
		Submitted:  p.submitted.Load(),
		Completed:  p.completed.Load(),
		Inline:     p.inline.Load(),
		InFlight:   p.inFlight.Load(),
		QueueDepth: len(p.tasks),
		Workers:    p.workers,
	}
}

// Close stops accepting new work and waits for queued work to finish.
// Safe to call multiple times.
func (p *Fixed) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
		close(p.stop)
	}
	p.mu.Unlock()

	p.wg.Wait()
}

type fixedScope struct {
	p      *Fixed
	wg     sync.WaitGroup
	panics panicSlot
}

func (s *fixedScope) Spawn(work func()) {
	s.wg.Add(1)
	task := func() {
		defer s.wg.Done()
		s.panics.guard(work)
	}

	if !s.p.submit(task) {
		s.p.inline.Add(1)
		task()
	}
}
