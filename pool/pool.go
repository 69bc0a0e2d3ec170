// Package pool defines the thread pool abstraction the parallel engine
// programs against, together with a few concrete providers.
//
// A [ThreadPool] opens structured scopes: [ThreadPool.Run] hands a [Scope] to
// the caller, every closure spawned through it runs on some worker, and Run
// returns only after all of them have finished. Work spawned in a scope never
// outlives it.
//
// Providers differ in how they obtain workers:
//
//   - [Native] starts one goroutine per spawned closure.
//   - [Fixed] keeps a fixed set of goroutines alive across scopes.
//   - [Group] adapts a single reused errgroup.Group.
//   - [Sequential] runs every closure inline on the calling goroutine.
//
// Providers that also implement [SharedPool] allow several scopes to be open
// at the same time. The engine serializes scopes of every other provider.
package pool

// Scope spawns work that is joined before the enclosing [ThreadPool.Run]
// returns.
type Scope interface {
	// Spawn schedules work on the pool. It may block while the pool has no
	// capacity to accept more work.
	Spawn(work func())
}

// ThreadPool is the capability the engine needs from a pool.
type ThreadPool interface {
	// MaxThreads reports the maximum number of closures the pool runs at
	// the same time. It is always at least one.
	MaxThreads() int

	// Run calls fn with a scope and blocks until fn and every closure it
	// spawned have returned. A panic in spawned work is re-raised by Run as
	// a *PanicError once all work has finished.
	Run(fn func(s Scope))
}

// SharedPool is implemented by pools whose Run may be called concurrently
// from several goroutines.
type SharedPool interface {
	ThreadPool

	// ConcurrentScopes is a marker; it has no behaviour.
	ConcurrentScopes()
}
