package pool

import (
	"golang.org/x/sync/errgroup"
)

// Group adapts a single errgroup.Group to the ThreadPool interface. The
// group's limit bounds the number of closures running at once; Spawn blocks
// while the limit is reached.
//
// Group reuses one errgroup.Group across scopes, so it does not implement
// SharedPool: a second concurrent Run would wait on the first scope's work.
// Behind [Share] scopes take turns on a one-slot semaphore, so a computation
// started from work running on the same Group blocks forever; nested
// computations should use a different pool.
type Group struct {
	g     *errgroup.Group
	limit int
}

var _ ThreadPool = (*Group)(nil)

// NewGroup returns a Group running at most limit closures at once.
// Panics if limit <= 0.
func NewGroup(limit int) *Group {
	if limit <= 0 {
		panic("parx: NewGroup requires limit > 0")
	}
	g := new(errgroup.Group)
	g.SetLimit(limit)
	return &Group{g: g, limit: limit}
}

// MaxThreads implements ThreadPool.
func (p *Group) MaxThreads() int {
	return p.limit
}

// Run implements ThreadPool.
func (p *Group) Run(fn func(s Scope)) {
	sc := &groupScope{g: p.g}

	defer func() {
		runPanic := recover()
		// Closures never return errors; panics are kept in the slot.
		_ = p.g.Wait()
		if runPanic != nil {
			panic(runPanic)
		}
		sc.panics.rethrow()
	}()

	fn(sc)
}

type groupScope struct {
	g      *errgroup.Group
	panics panicSlot
}

func (s *groupScope) Spawn(work func()) {
	s.g.Go(func() error {
		s.panics.guard(work)
		return nil
	})
}
