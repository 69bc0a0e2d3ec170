package pool

// Sequential is a pool without workers: spawned closures run inline, one
// after the other, on the goroutine that spawns them.
type Sequential struct{}

var _ SharedPool = Sequential{}

// MaxThreads implements ThreadPool.
func (Sequential) MaxThreads() int { return 1 }

// ConcurrentScopes implements SharedPool.
func (Sequential) ConcurrentScopes() {}

// Run implements ThreadPool.
func (Sequential) Run(fn func(s Scope)) {
	sc := &sequentialScope{}
	fn(sc)
	sc.panics.rethrow()
}

type sequentialScope struct {
	panics panicSlot
}

func (s *sequentialScope) Spawn(work func()) {
	s.panics.guard(work)
}
