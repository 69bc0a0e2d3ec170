package runner

import (
	"context"

	"github.com/baxromumarov/parx/pool"
)

// MapAll runs the spawn loop of r on the orchestrator's pool. Workers are
// spawned while [Runner.ShouldSpawn] allows it; each one runs work with its
// worker id. MapAll returns once every worker has joined, with the number of
// workers spawned and their results indexed by worker id.
//
// A non-nil error means ctx ended before the pool accepted the computation;
// no worker was spawned then.
func MapAll[R any](ctx context.Context, o *Orchestrator, r *Runner, src Source, work func(id int) R) (int, []R, error) {
	results := make([]R, r.NumThreads())
	spawned := 0

	err := pool.RunContext(ctx, o.pool, func(s pool.Scope) {
		for r.ShouldSpawn(spawned, src) {
			id := spawned
			s.Spawn(func() {
				results[id] = work(id)
			})
			spawned++
			r.spawnedOne(spawned, src)
		}
	})

	o.spawned.Add(int64(spawned))
	return spawned, results[:spawned], err
}

// RunAll is [MapAll] for workers without a result.
func RunAll(ctx context.Context, o *Orchestrator, r *Runner, src Source, work func(id int)) (int, error) {
	spawned, _, err := MapAll(ctx, o, r, src, func(id int) struct{} {
		work(id)
		return struct{}{}
	})
	return spawned, err
}
